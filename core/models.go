package core

import (
	"time"
)

// MatchType classifies how a search entity relates to a dataset entry.
type MatchType string

const (
	// MatchTypeExact indicates the normalized strings are identical.
	MatchTypeExact MatchType = "exact"
	// MatchTypeAlias indicates the entity matched a registered alias.
	MatchTypeAlias MatchType = "alias"
	// MatchTypeAliasPartial indicates a partial match against an alias.
	MatchTypeAliasPartial MatchType = "alias_partial"
	// MatchTypeCoreAcronym indicates an acronym matched its expansion,
	// e.g. "MIT" against "Massachusetts Institute of Technology (MIT)".
	MatchTypeCoreAcronym MatchType = "core_acronym"
	// MatchTypeCoreMatch indicates the core texts matched after aggressive
	// suffix stripping.
	MatchTypeCoreMatch MatchType = "core_match"
	// MatchTypeWordMatch indicates strong word-level overlap.
	MatchTypeWordMatch MatchType = "word_match"
	// MatchTypeFuzzy indicates a fuzzy string-similarity match.
	MatchTypeFuzzy MatchType = "fuzzy"
	// MatchTypePartial indicates a weak, low-confidence match.
	MatchTypePartial MatchType = "partial"
)

// matchTypePriority orders match types by strength, lower is stronger.
var matchTypePriority = map[MatchType]float64{
	MatchTypeExact:        1,
	MatchTypeAlias:        2,
	MatchTypeAliasPartial: 3,
	MatchTypeCoreAcronym:  3.5,
	MatchTypeCoreMatch:    4,
	MatchTypeWordMatch:    4.5,
	MatchTypeFuzzy:        5,
	MatchTypePartial:      6,
}

// unknownMatchTypePriority ranks any unrecognized match type below partial.
const unknownMatchTypePriority = 7

// Priority returns the ranking priority of the match type.
// Lower values indicate stronger matches; unknown types rank last.
func (mt MatchType) Priority() float64 {
	if p, ok := matchTypePriority[mt]; ok {
		return p
	}
	return unknownMatchTypePriority
}

// Known reports whether mt is one of the defined match types.
func (mt MatchType) Known() bool {
	_, ok := matchTypePriority[mt]
	return ok
}

// NormalizedEntity is the per-query normalized form of a search entity.
// It is created for a single match call and never persisted.
type NormalizedEntity struct {
	Original    string
	Normalized  string
	Variations  []string // ordered, first occurrence wins
	Specificity float64  // in [0,1], higher is more distinctive
}

// QualityMetrics captures the signals used to assess a single match.
// All values are in [0,1]. ContextRelevance is only meaningful when
// HasContext is true.
type QualityMetrics struct {
	Specificity      float64
	LengthRatio      float64
	WordCountRatio   float64
	MatchCoverage    float64
	ContextRelevance float64
	HasContext       bool
}

// DatasetMatch is a single ranked match against the reference dataset.
type DatasetMatch struct {
	DatasetName      string
	OrganizationName string
	MatchType        MatchType
	Category         string
	Confidence       float64 // in [0,1]
	LastUpdated      time.Time
	Quality          *QualityMetrics
}

// SimilarityResult is the outcome of comparing two strings.
// It is produced transiently per comparison and never persisted.
type SimilarityResult struct {
	Score       float64 // in [0,1]
	MatchType   MatchType
	Explanation string
	Components  map[string]float64 // algorithm name -> raw component score
}
