package similarity

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/entitymatch/core"
	"github.com/poiesic/entitymatch/geo"
	"github.com/poiesic/entitymatch/text"
)

// acronymMatchBase is the raw score awarded to an acronym match before the
// configured boost factor applies.
const acronymMatchBase = 0.95

// wordMatchOverride promotes a good-band score to word_match when word-set
// similarity exceeds this value. The override applies only in the good
// band, not the high band above it; the asymmetry is a deliberate tuning
// choice.
const wordMatchOverride = 0.8

// Hints carries optional context for a single comparison.
type Hints struct {
	// SearchLocation is the caller-supplied location, empty for none.
	SearchLocation string
	// EntityCountries are the countries attached to the target entity.
	EntityCountries []string
	// Radius narrows or widens geographic boosting.
	Radius geo.Radius
	// PrioritizeLocal amplifies the same-country boost.
	PrioritizeLocal bool
}

// Scorer combines the similarity primitives into a single weighted,
// configurable score with acronym detection and context boosts. Scoring is
// deterministic and has no side effects beyond reading the injected
// configuration.
type Scorer struct {
	cfg    Config
	norm   *text.Normalizer
	geo    *geo.Scorer
	logger *slog.Logger
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) ScorerOption {
	return func(s *Scorer) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewScorer creates a Scorer. A configuration that fails validation falls
// back to DefaultConfig rather than failing the call; nil collaborators
// fall back to defaults.
func NewScorer(cfg Config, norm *text.Normalizer, geoScorer *geo.Scorer, opts ...ScorerOption) *Scorer {
	s := &Scorer{
		cfg:    cfg,
		norm:   norm,
		geo:    geoScorer,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := cfg.Validate(); err != nil {
		s.logger.Warn("invalid scorer configuration, using defaults", "error", err)
		s.cfg = DefaultConfig()
	}
	if s.norm == nil {
		s.norm = text.NewNormalizer(nil)
	}
	if s.geo == nil {
		s.geo = geo.NewScorer(geo.DefaultConfig())
	}
	return s
}

// Config returns the effective configuration.
func (s *Scorer) Config() Config {
	return s.cfg
}

// Score compares a search string against a target and returns the combined
// similarity result. The score is always in [0,1].
func (s *Scorer) Score(search, target string, hints Hints) core.SimilarityResult {
	searchPrep := s.preprocess(search)
	targetPrep := s.preprocess(target)

	if searchPrep == targetPrep && searchPrep != "" {
		return core.SimilarityResult{
			Score:       1.0,
			MatchType:   core.MatchTypeExact,
			Explanation: "preprocessed strings are identical",
			Components:  map[string]float64{"exact": 1.0},
		}
	}

	// Acronym detection is direction-independent: the pattern is tried on
	// the target first, then on the search string.
	if result, ok := s.acronymMatch(searchPrep, target); ok {
		return result
	}
	if result, ok := s.acronymMatch(targetPrep, search); ok {
		return result
	}

	components := map[string]float64{
		"jaro_winkler":  JaroWinkler(searchPrep, targetPrep),
		"edit_distance": EditSimilarity(searchPrep, targetPrep),
		"word_set":      WordSetSimilarity(searchPrep, targetPrep),
		"char_ngram":    NGramSimilarity(searchPrep, targetPrep, s.cfg.NGramSize),
	}

	score := 0.0
	for name, weight := range map[string]float64{
		"jaro_winkler":  s.cfg.Weights.JaroWinkler,
		"edit_distance": s.cfg.Weights.EditDistance,
		"word_set":      s.cfg.Weights.WordSet,
		"char_ngram":    s.cfg.Weights.NGram,
	} {
		if weight <= 0 {
			continue
		}
		score += weight * components[name]
	}

	var notes []string
	if hints.SearchLocation != "" {
		boost, relationship := s.geo.Score(hints.SearchLocation, hints.EntityCountries, hints.Radius, hints.PrioritizeLocal)
		if boost != 1.0 {
			score *= boost
			components["geo_boost"] = boost
			notes = append(notes, fmt.Sprintf("geo %s x%.2f", relationship, boost))
		}
	}
	if boost := s.orgTypeBoost(searchPrep, targetPrep); boost > 1.0 {
		score *= boost
		components["org_boost"] = boost
		notes = append(notes, fmt.Sprintf("org type x%.2f", boost))
	}

	score = core.ClampScore(score)

	explanation := fmt.Sprintf(
		"weighted similarity %.3f (jaro=%.2f edit=%.2f word=%.2f ngram=%.2f)",
		score,
		components["jaro_winkler"], components["edit_distance"],
		components["word_set"], components["char_ngram"],
	)
	if len(notes) > 0 {
		explanation += "; " + strings.Join(notes, ", ")
	}

	return core.SimilarityResult{
		Score:       score,
		MatchType:   s.classify(score, components["word_set"]),
		Explanation: explanation,
		Components:  components,
	}
}

// acronymMatch tries the configured "Full Name (ACRONYM)" patterns against
// candidate and checks whether probe equals either the expanded name or the
// acronym.
func (s *Scorer) acronymMatch(probe, candidate string) (core.SimilarityResult, bool) {
	for _, pattern := range s.cfg.AcronymPatterns {
		groups := pattern.FindStringSubmatch(candidate)
		if groups == nil {
			continue
		}
		fullName := s.preprocess(groups[1])
		acronym := strings.ToLower(groups[2])
		if probe != fullName && probe != acronym {
			continue
		}

		return core.SimilarityResult{
			Score:       core.ClampScore(s.cfg.AcronymBoost * acronymMatchBase),
			MatchType:   core.MatchTypeCoreAcronym,
			Explanation: fmt.Sprintf("acronym %q expands to %q", groups[2], groups[1]),
			Components:  map[string]float64{"acronym": 1.0},
		}, true
	}
	return core.SimilarityResult{}, false
}

// orgTypeBoost returns the maximum configured boost among organization-type
// keywords appearing in either string, or 1.0.
func (s *Scorer) orgTypeBoost(a, b string) float64 {
	best := 1.0
	for keyword, boost := range s.cfg.OrgTypeBoosts {
		if boost <= best {
			continue
		}
		if strings.Contains(a, keyword) || strings.Contains(b, keyword) {
			best = boost
		}
	}
	return best
}

// classify maps the clamped score onto a match type by threshold bands,
// evaluated in descending order.
func (s *Scorer) classify(score, wordSetScore float64) core.MatchType {
	t := s.cfg.Thresholds
	switch {
	case score >= t.Exact:
		return core.MatchTypeExact
	case score >= t.High:
		return core.MatchTypeFuzzy
	case score >= t.Good:
		if wordSetScore > wordMatchOverride {
			return core.MatchTypeWordMatch
		}
		return core.MatchTypeFuzzy
	case score >= t.Moderate:
		return core.MatchTypeCoreMatch
	default:
		// Low-confidence partial is the floor; filtering happens in the
		// quality layer, not here.
		return core.MatchTypePartial
	}
}

// preprocess folds case, converts punctuation to whitespace, and collapses
// runs of whitespace. With StripOrgSuffixes set, full organizational
// normalization applies instead.
func (s *Scorer) preprocess(str string) string {
	if s.cfg.StripOrgSuffixes {
		return s.norm.Normalize(str)
	}
	lower := strings.ToLower(strings.TrimSpace(str))
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r > 127:
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// BatchResult pairs a scored target with its similarity result.
type BatchResult struct {
	Target string
	core.SimilarityResult
}

// ScoreBatch scores the search string against every target and returns
// results sorted by score descending. When early termination is enabled
// and a result at index i < limit reaches the confidence threshold, the
// list is truncated to max(3, i+1) entries, trading completeness for
// latency when a clearly dominant match exists.
func (s *Scorer) ScoreBatch(search string, targets []string, limit int, hints Hints) []BatchResult {
	results := make([]BatchResult, 0, len(targets))
	for _, target := range targets {
		results = append(results, BatchResult{
			Target:           target,
			SimilarityResult: s.Score(search, target, hints),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit <= 0 || limit > len(results) {
		limit = len(results)
	}

	if s.cfg.EarlyTermination {
		for i := 0; i < limit; i++ {
			if results[i].Score >= s.cfg.ConfidenceThreshold {
				cut := max(3, i+1)
				if cut < limit {
					return results[:cut]
				}
				break
			}
		}
	}

	return results[:limit]
}
