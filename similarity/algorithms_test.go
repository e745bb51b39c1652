package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaroWinkler(t *testing.T) {
	t.Run("identical strings", func(t *testing.T) {
		assert.Equal(t, 1.0, JaroWinkler("acme corp", "acme corp"))
	})

	t.Run("both empty", func(t *testing.T) {
		assert.Equal(t, 1.0, JaroWinkler("", ""))
	})

	t.Run("one empty", func(t *testing.T) {
		assert.Equal(t, 0.0, JaroWinkler("acme", ""))
	})

	t.Run("similar strings score high", func(t *testing.T) {
		score := JaroWinkler("acme corporation", "acme corp")
		assert.Greater(t, score, 0.8)
		assert.LessOrEqual(t, score, 1.0)
	})

	t.Run("unrelated strings score low", func(t *testing.T) {
		score := JaroWinkler("acme corporation", "zenith widgets")
		assert.Less(t, score, 0.6)
	})

	t.Run("shared prefix boosts score", func(t *testing.T) {
		withPrefix := JaroWinkler("globex", "globey")
		withoutPrefix := JaroWinkler("xglobe", "yglobe")
		assert.Greater(t, withPrefix, withoutPrefix)
	})
}

func TestEditSimilarity(t *testing.T) {
	t.Run("identical strings", func(t *testing.T) {
		assert.Equal(t, 1.0, EditSimilarity("acme", "acme"))
	})

	t.Run("both empty", func(t *testing.T) {
		assert.Equal(t, 1.0, EditSimilarity("", ""))
	})

	t.Run("completely different", func(t *testing.T) {
		assert.Equal(t, 0.0, EditSimilarity("abcd", "wxyz"))
	})

	t.Run("single edit", func(t *testing.T) {
		// One substitution over four characters.
		assert.InDelta(t, 0.75, EditSimilarity("acme", "acmo"), 1e-9)
	})
}

func TestNGramSimilarity(t *testing.T) {
	t.Run("identical strings", func(t *testing.T) {
		assert.Equal(t, 1.0, NGramSimilarity("acme corp", "acme corp", 3))
	})

	t.Run("no shared trigrams", func(t *testing.T) {
		assert.Equal(t, 0.0, NGramSimilarity("aaaa", "bbbb", 3))
	})

	t.Run("shorter than n", func(t *testing.T) {
		assert.Equal(t, 1.0, NGramSimilarity("ab", "ab", 3))
		assert.Equal(t, 0.0, NGramSimilarity("ab", "cd", 3))
	})

	t.Run("partial overlap is between 0 and 1", func(t *testing.T) {
		score := NGramSimilarity("acme corporation", "acme consulting", 3)
		assert.Greater(t, score, 0.0)
		assert.Less(t, score, 1.0)
	})
}

func TestWordSetSimilarity(t *testing.T) {
	t.Run("same words different order", func(t *testing.T) {
		assert.Equal(t, 1.0, WordSetSimilarity("acme global corp", "corp acme global"))
	})

	t.Run("disjoint words", func(t *testing.T) {
		assert.Equal(t, 0.0, WordSetSimilarity("acme corp", "zenith widgets"))
	})

	t.Run("half overlap", func(t *testing.T) {
		// Union {acme, corp, industries}, intersection {acme}.
		assert.InDelta(t, 1.0/3.0, WordSetSimilarity("acme corp", "acme industries"), 1e-9)
	})
}

func TestContainmentScore(t *testing.T) {
	t.Run("subset words fully contained", func(t *testing.T) {
		assert.Equal(t, 1.0, ContainmentScore("acme corp", "acme corp international"))
	})

	t.Run("no containment", func(t *testing.T) {
		assert.Equal(t, 0.0, ContainmentScore("acme", "zenith"))
	})
}

func TestRatios(t *testing.T) {
	assert.Equal(t, 0.5, LengthRatio("ab", "abcd"))
	assert.Equal(t, 0.0, LengthRatio("", "acme"))
	assert.Equal(t, 0.5, WordCountRatio("acme", "acme corp"))
}
