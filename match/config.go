package match

// Config tunes the progressive search strategy.
type Config struct {
	// MaxResults caps the ranked result list.
	MaxResults int

	// ExactMatchLimit short-circuits the funnel once the exact stage has
	// accumulated this many candidates.
	ExactMatchLimit int

	// FuzzyMatchLimit short-circuits the funnel after the high-similarity
	// stage.
	FuzzyMatchLimit int

	// GoodSimilarity is the minimum score kept by the high-similarity
	// stage.
	GoodSimilarity float64

	// ExactStageScore is the raw score at which a candidate counts as an
	// exact-stage hit even without an exact match type.
	ExactStageScore float64

	// ConfidenceThreshold is the per-candidate confidence that counts
	// toward early termination.
	ConfidenceThreshold float64

	// EarlyTerminationCount is how many high-confidence candidates end
	// the search early.
	EarlyTerminationCount int

	// EarlyTermination enables the early-termination shortcut.
	EarlyTermination bool

	// GeoRanking enables geographic confidence re-ranking when a search
	// location is supplied.
	GeoRanking bool

	// StageMaxCandidates caps how many candidates each funnel stage
	// requests from the gateway.
	StageMaxCandidates int

	// AffiliatedBoost multiplies the confidence of affiliated-entity
	// matches, clamped to 1.0.
	AffiliatedBoost float64

	// MinConfidence filters affiliated matches below this confidence.
	MinConfidence float64
}

// DefaultConfig returns the documented fallback search configuration.
func DefaultConfig() Config {
	return Config{
		MaxResults:            10,
		ExactMatchLimit:       5,
		FuzzyMatchLimit:       10,
		GoodSimilarity:        0.70,
		ExactStageScore:       0.95,
		ConfidenceThreshold:   0.85,
		EarlyTerminationCount: 3,
		EarlyTermination:      true,
		GeoRanking:            true,
		StageMaxCandidates:    25,
		AffiliatedBoost:       1.15,
		MinConfidence:         0.3,
	}
}

// sanitize falls back to defaults for invalid fields instead of failing
// the call.
func (c Config) sanitize() Config {
	defaults := DefaultConfig()
	if c.MaxResults <= 0 {
		c.MaxResults = defaults.MaxResults
	}
	if c.ExactMatchLimit <= 0 {
		c.ExactMatchLimit = defaults.ExactMatchLimit
	}
	if c.FuzzyMatchLimit <= 0 {
		c.FuzzyMatchLimit = defaults.FuzzyMatchLimit
	}
	if c.GoodSimilarity <= 0 || c.GoodSimilarity > 1 {
		c.GoodSimilarity = defaults.GoodSimilarity
	}
	if c.ExactStageScore <= 0 || c.ExactStageScore > 1 {
		c.ExactStageScore = defaults.ExactStageScore
	}
	if c.ConfidenceThreshold <= 0 || c.ConfidenceThreshold > 1 {
		c.ConfidenceThreshold = defaults.ConfidenceThreshold
	}
	if c.EarlyTerminationCount <= 0 {
		c.EarlyTerminationCount = defaults.EarlyTerminationCount
	}
	if c.StageMaxCandidates <= 0 {
		c.StageMaxCandidates = defaults.StageMaxCandidates
	}
	if c.AffiliatedBoost <= 0 {
		c.AffiliatedBoost = defaults.AffiliatedBoost
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		c.MinConfidence = defaults.MinConfidence
	}
	return c
}
