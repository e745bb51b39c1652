// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package quality assesses match quality and filters candidate matches:
// per-match-type quality thresholds, geographic false-positive detection,
// academic-term filtering, and priority-based ranking.
package quality

import (
	"sort"
	"strings"

	"github.com/poiesic/entitymatch/core"
	"github.com/poiesic/entitymatch/similarity"
	"github.com/poiesic/entitymatch/text"
)

// Generic geography terms that flag likely false positives on vague input.
var genericGeographyTerms = []string{"china", "usa", "america", "europe", "asia", "africa"}

// Config configures a Filter.
type Config struct {
	// Thresholds maps each match type to its minimum acceptable quality.
	Thresholds map[core.MatchType]float64

	// DefaultThreshold applies to match types missing from Thresholds.
	DefaultThreshold float64

	// MinWordOverlap is the floor below which partial and fuzzy matches
	// are dropped outright.
	MinWordOverlap float64

	// AcademicResultCap triggers academic-term filtering when a result
	// set grows past it.
	AcademicResultCap int
}

// DefaultConfig returns the per-match-type quality thresholds.
func DefaultConfig() Config {
	return Config{
		Thresholds: map[core.MatchType]float64{
			core.MatchTypeExact:        0.3,
			core.MatchTypeAlias:        0.4,
			core.MatchTypeCoreAcronym:  0.4,
			core.MatchTypeAliasPartial: 0.5,
			core.MatchTypeCoreMatch:    0.5,
			core.MatchTypeWordMatch:    0.5,
			core.MatchTypeFuzzy:        0.5,
			core.MatchTypePartial:      0.6,
		},
		DefaultThreshold:  0.5,
		MinWordOverlap:    0.5,
		AcademicResultCap: 10,
	}
}

// Filter computes quality metrics for candidate matches and drops those
// unlikely to be genuine.
type Filter struct {
	cfg  Config
	norm *text.Normalizer
}

// NewFilter creates a Filter. A zero-value config or nil normalizer falls
// back to defaults.
func NewFilter(cfg Config, norm *text.Normalizer) *Filter {
	if cfg.Thresholds == nil {
		cfg = DefaultConfig()
	}
	if cfg.DefaultThreshold <= 0 {
		cfg.DefaultThreshold = 0.5
	}
	if cfg.MinWordOverlap <= 0 {
		cfg.MinWordOverlap = 0.5
	}
	if cfg.AcademicResultCap <= 0 {
		cfg.AcademicResultCap = 10
	}
	if norm == nil {
		norm = text.NewNormalizer(nil)
	}
	return &Filter{cfg: cfg, norm: norm}
}

// Metrics computes the quality signals for a single match. Context text is
// optional; when present it contributes a context-relevance blend weighted
// 0.7 toward the matched entity and 0.3 toward the search text.
func (f *Filter) Metrics(search, matched string, matchType core.MatchType, context string) core.QualityMetrics {
	metrics := core.QualityMetrics{
		Specificity:    f.norm.SpecificityScore(search),
		LengthRatio:    similarity.LengthRatio(search, matched),
		WordCountRatio: similarity.WordCountRatio(search, matched),
		MatchCoverage:  f.matchCoverage(search, matched, matchType),
	}
	if context != "" {
		metrics.ContextRelevance = 0.7*f.norm.WordOverlap(context, matched) + 0.3*f.norm.WordOverlap(context, search)
		metrics.HasContext = true
	}
	return metrics
}

// matchCoverage estimates how much of the matched term is accounted for,
// given what the declared match type already guarantees.
func (f *Filter) matchCoverage(search, matched string, matchType core.MatchType) float64 {
	switch matchType {
	case core.MatchTypeExact, core.MatchTypeAlias:
		return 1.0
	case core.MatchTypeCoreAcronym:
		return 0.9
	case core.MatchTypeAliasPartial:
		return 0.8
	case core.MatchTypeCoreMatch:
		return similarity.ContainmentScore(f.norm.CoreText(search), f.norm.CoreText(matched))
	default:
		return 0.6*similarity.ContainmentScore(search, matched) + 0.4*similarity.WordSetSimilarity(search, matched)
	}
}

// Weight distribution for the quality score. Context introduces a fifth
// term and redistributes weight.
var (
	plainWeights   = [4]float64{0.30, 0.15, 0.15, 0.40} // specificity, length, wordCount, coverage
	contextWeights = [5]float64{0.25, 0.10, 0.10, 0.35, 0.20}
)

// Quality computes the overall quality score for a match, in [0,1].
func (f *Filter) Quality(search, matched string, matchType core.MatchType, context string) float64 {
	metrics := f.Metrics(search, matched, matchType, context)
	return f.qualityFromMetrics(metrics, matchType)
}

func (f *Filter) qualityFromMetrics(m core.QualityMetrics, matchType core.MatchType) float64 {
	var score float64
	if m.HasContext {
		score = contextWeights[0]*m.Specificity +
			contextWeights[1]*m.LengthRatio +
			contextWeights[2]*m.WordCountRatio +
			contextWeights[3]*m.MatchCoverage +
			contextWeights[4]*m.ContextRelevance
	} else {
		score = plainWeights[0]*m.Specificity +
			plainWeights[1]*m.LengthRatio +
			plainWeights[2]*m.WordCountRatio +
			plainWeights[3]*m.MatchCoverage
	}

	switch matchType {
	case core.MatchTypeExact:
		if m.Specificity < 0.3 {
			score *= 0.8
		} else {
			score *= 1.1
		}
	case core.MatchTypeAlias, core.MatchTypeCoreAcronym:
		score *= 1.05
	case core.MatchTypeAliasPartial, core.MatchTypeCoreMatch:
		score *= 0.95
	case core.MatchTypeWordMatch:
		score *= 0.9
	case core.MatchTypeFuzzy:
		if m.MatchCoverage < 0.7 {
			score *= 0.8
		} else {
			score *= 0.9
		}
	case core.MatchTypePartial:
		if m.MatchCoverage < 0.5 {
			score *= 0.6
		} else {
			score *= 0.75
		}
	default:
		score *= 0.7
	}

	return core.ClampScore(score)
}

// PassesThreshold reports whether the match quality clears the
// per-match-type threshold table.
func (f *Filter) PassesThreshold(search, matched string, matchType core.MatchType, context string) bool {
	threshold, ok := f.cfg.Thresholds[matchType]
	if !ok {
		threshold = f.cfg.DefaultThreshold
	}
	return f.Quality(search, matched, matchType, context) >= threshold
}

// IsGeographicFalsePositive flags matches that likely fired on a vague
// geographic term rather than a distinctive name.
func (f *Filter) IsGeographicFalsePositive(match core.DatasetMatch, originalEntity string) bool {
	quality := f.Quality(originalEntity, match.OrganizationName, match.MatchType, "")

	if f.norm.SpecificityScore(originalEntity) < 0.3 && quality < 0.4 {
		return true
	}

	entityLower := strings.ToLower(originalEntity)
	matchedLower := strings.ToLower(match.OrganizationName)
	for _, term := range genericGeographyTerms {
		if strings.Contains(entityLower, term) || strings.Contains(matchedLower, term) {
			return quality < 0.5
		}
	}
	return false
}

// Apply computes quality for every match, drops matches failing the
// threshold table, geographic false positives, and partial or fuzzy
// matches with insufficient word overlap, then sorts by match-type
// priority ascending with confidence descending as the tie break.
// Quality metrics are attached to the surviving matches.
func (f *Filter) Apply(matches []core.DatasetMatch, originalEntity, context string) []core.DatasetMatch {
	kept := make([]core.DatasetMatch, 0, len(matches))
	for _, match := range matches {
		metrics := f.Metrics(originalEntity, match.OrganizationName, match.MatchType, context)
		quality := f.qualityFromMetrics(metrics, match.MatchType)

		threshold, ok := f.cfg.Thresholds[match.MatchType]
		if !ok {
			threshold = f.cfg.DefaultThreshold
		}
		if quality < threshold {
			continue
		}
		if f.IsGeographicFalsePositive(match, originalEntity) {
			continue
		}
		if match.MatchType == core.MatchTypePartial || match.MatchType == core.MatchTypeFuzzy {
			if f.norm.WordOverlap(originalEntity, match.OrganizationName) < f.cfg.MinWordOverlap {
				continue
			}
		}

		match.Quality = &metrics
		kept = append(kept, match)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		pi, pj := kept[i].MatchType.Priority(), kept[j].MatchType.Priority()
		if pi != pj {
			return pi < pj
		}
		return kept[i].Confidence > kept[j].Confidence
	})
	return kept
}

// ApplyAcademic restricts an oversized result set for publication-like
// entities to strong matches only: exact or alias types, or anything with
// confidence above 0.7. Non-academic entities pass through unchanged.
func (f *Filter) ApplyAcademic(entity string, matches []core.DatasetMatch) []core.DatasetMatch {
	if !f.norm.IsAcademicTerm(entity) {
		return matches
	}

	shortEntity := len(strings.Fields(entity)) <= 2
	if len(matches) <= f.cfg.AcademicResultCap && !(shortEntity && len(matches) > 5) {
		return matches
	}

	kept := make([]core.DatasetMatch, 0, len(matches))
	for _, match := range matches {
		switch {
		case match.MatchType == core.MatchTypeExact || match.MatchType == core.MatchTypeAlias:
			kept = append(kept, match)
		case match.Confidence > 0.7:
			kept = append(kept, match)
		}
	}
	return kept
}
