package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCountry(t *testing.T) {
	s := NewScorer(DefaultConfig())

	assert.Equal(t, "united states", s.NormalizeCountry("USA"))
	assert.Equal(t, "united states", s.NormalizeCountry("  America "))
	assert.Equal(t, "china", s.NormalizeCountry("PRC"))
	assert.Equal(t, "germany", s.NormalizeCountry("Deutschland"))
	// Unknown locations fall through lower-cased.
	assert.Equal(t, "atlantis", s.NormalizeCountry("Atlantis"))
}

func TestScore(t *testing.T) {
	s := NewScorer(DefaultConfig())

	t.Run("empty location is a no-op", func(t *testing.T) {
		boost, rel := s.Score("", []string{"Germany"}, RadiusDefault, false)
		assert.Equal(t, 1.0, boost)
		assert.Equal(t, RelationshipUnknown, rel)
	})

	t.Run("unknown location is a no-op", func(t *testing.T) {
		boost, rel := s.Score("Atlantis", []string{"Germany"}, RadiusDefault, false)
		assert.Equal(t, 1.0, boost)
		assert.Equal(t, RelationshipUnknown, rel)
	})

	t.Run("same country boosts", func(t *testing.T) {
		boost, rel := s.Score("USA", []string{"United States"}, RadiusDefault, false)
		assert.Equal(t, RelationshipSameCountry, rel)
		assert.InDelta(t, 1.2, boost, 1e-9)
	})

	t.Run("prioritize local amplifies the same-country boost", func(t *testing.T) {
		boost, _ := s.Score("USA", []string{"United States"}, RadiusDefault, true)
		assert.InDelta(t, 1.2*1.1, boost, 1e-9)
	})

	t.Run("same region boosts less", func(t *testing.T) {
		boost, rel := s.Score("Germany", []string{"France"}, RadiusDefault, false)
		assert.Equal(t, RelationshipSameRegion, rel)
		assert.InDelta(t, 1.1, boost, 1e-9)
	})

	t.Run("different region is neutral", func(t *testing.T) {
		boost, rel := s.Score("Germany", []string{"China"}, RadiusDefault, false)
		assert.Equal(t, RelationshipDifferentRegion, rel)
		assert.Equal(t, 1.0, boost)
	})

	t.Run("same country wins over same region", func(t *testing.T) {
		_, rel := s.Score("Germany", []string{"France", "Germany"}, RadiusDefault, false)
		assert.Equal(t, RelationshipSameCountry, rel)
	})

	t.Run("local radius suppresses region boost", func(t *testing.T) {
		boost, rel := s.Score("Germany", []string{"France"}, RadiusLocal, false)
		assert.Equal(t, RelationshipSameRegion, rel)
		assert.Equal(t, 1.0, boost)
	})

	t.Run("local radius keeps country boost", func(t *testing.T) {
		boost, _ := s.Score("Germany", []string{"Germany"}, RadiusLocal, false)
		assert.InDelta(t, 1.2, boost, 1e-9)
	})

	t.Run("global radius flattens boosts", func(t *testing.T) {
		boost, _ := s.Score("Germany", []string{"Germany"}, RadiusGlobal, false)
		assert.InDelta(t, 1.0+(1.2-1.0)*0.25, boost, 1e-9)
	})

	t.Run("no entity countries", func(t *testing.T) {
		boost, rel := s.Score("Germany", nil, RadiusDefault, false)
		assert.Equal(t, 1.0, boost)
		assert.Equal(t, RelationshipUnknown, rel)
	})
}

func TestNewScorerClampsConfig(t *testing.T) {
	s := NewScorer(Config{SameCountryBoost: 0.5, SameRegionBoost: 0.2, LocalPriorityBoost: 0})

	boost, _ := s.Score("Germany", []string{"Germany"}, RadiusDefault, false)
	assert.InDelta(t, 1.2, boost, 1e-9)
}
