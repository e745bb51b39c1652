package similarity

import (
	"errors"
	"regexp"
)

// Weights holds the per-algorithm weights for the combined score.
// An algorithm with weight 0 is skipped entirely.
type Weights struct {
	JaroWinkler  float64
	EditDistance float64
	WordSet      float64
	NGram        float64
}

// Thresholds holds the score bands used to classify a match type.
// Values must descend: Exact >= High >= Good >= Moderate >= Low.
type Thresholds struct {
	Exact    float64
	High     float64
	Good     float64
	Moderate float64
	Low      float64
}

// Config configures a Scorer.
type Config struct {
	Weights    Weights
	Thresholds Thresholds

	// AcronymBoost scales the fixed 0.95 score awarded to acronym
	// matches. 1.0 leaves it unchanged.
	AcronymBoost float64

	// AcronymPatterns extract "Full Name (ACRONYM)" pairs. Patterns must
	// capture the full name in group 1 and the acronym in group 2.
	AcronymPatterns []*regexp.Regexp

	// OrgTypeBoosts maps organization-type keywords to boost factors.
	// The maximum boost across matched keywords applies when > 1.0.
	OrgTypeBoosts map[string]float64

	// StripOrgSuffixes runs full organizational normalization during
	// preprocessing instead of plain case and punctuation folding.
	StripOrgSuffixes bool

	// NGramSize is the character n-gram length, default 3.
	NGramSize int

	// EarlyTermination enables batch truncation once a dominant result
	// appears.
	EarlyTermination bool

	// ConfidenceThreshold is the batch early-termination score.
	ConfidenceThreshold float64
}

var defaultAcronymPattern = regexp.MustCompile(`^\s*(.{2,}?)\s*\(([A-Za-z][A-Za-z.&-]{1,9})\)\s*$`)

// DefaultConfig returns the documented fallback scoring configuration.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			JaroWinkler:  0.4,
			EditDistance: 0.3,
			WordSet:      0.2,
			NGram:        0.1,
		},
		Thresholds: Thresholds{
			Exact:    0.95,
			High:     0.85,
			Good:     0.70,
			Moderate: 0.55,
			Low:      0.40,
		},
		AcronymBoost:    1.0,
		AcronymPatterns: []*regexp.Regexp{defaultAcronymPattern},
		OrgTypeBoosts: map[string]float64{
			"university": 1.05,
			"institute":  1.05,
			"laboratory": 1.05,
			"bank":       1.10,
			"defense":    1.10,
			"military":   1.10,
		},
		NGramSize:           3,
		EarlyTermination:    true,
		ConfidenceThreshold: 0.85,
	}
}

// Validation errors for scorer configuration.
var (
	ErrNegativeWeight        = errors.New("algorithm weights must be non-negative")
	ErrNoWeights             = errors.New("at least one algorithm weight must be positive")
	ErrThresholdOrder        = errors.New("thresholds must descend from exact to low within [0,1]")
	ErrInvalidAcronymBoost   = errors.New("acronym boost must be positive")
	ErrInvalidConfidence     = errors.New("confidence threshold must be in [0,1]")
	ErrMissingAcronymPattern = errors.New("at least one acronym pattern is required")
)

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	w := c.Weights
	if w.JaroWinkler < 0 || w.EditDistance < 0 || w.WordSet < 0 || w.NGram < 0 {
		return ErrNegativeWeight
	}
	if w.JaroWinkler+w.EditDistance+w.WordSet+w.NGram <= 0 {
		return ErrNoWeights
	}

	t := c.Thresholds
	if t.Exact > 1 || t.Low < 0 ||
		t.Exact < t.High || t.High < t.Good || t.Good < t.Moderate || t.Moderate < t.Low {
		return ErrThresholdOrder
	}

	if c.AcronymBoost <= 0 {
		return ErrInvalidAcronymBoost
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return ErrInvalidConfidence
	}
	if len(c.AcronymPatterns) == 0 {
		return ErrMissingAcronymPattern
	}
	return nil
}
