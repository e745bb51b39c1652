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


package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	n := NewNormalizer(nil)

	t.Run("lowercases and collapses whitespace", func(t *testing.T) {
		assert.Equal(t, "acme widgets", n.Normalize("  ACME   Widgets  "))
	})

	t.Run("strips parentheticals", func(t *testing.T) {
		assert.Equal(t, "acme widgets", n.Normalize("Acme Widgets (formerly Zenith)"))
	})

	t.Run("strips corporate suffixes", func(t *testing.T) {
		assert.Equal(t, "acme", n.Normalize("Acme Corporation"))
		assert.Equal(t, "acme widgets", n.Normalize("Acme Widgets, Inc."))
		assert.Equal(t, "siemens", n.Normalize("Siemens AG"))
	})

	t.Run("strips organizational prefixes", func(t *testing.T) {
		assert.Equal(t, "acme", n.Normalize("The Acme Corporation"))
	})

	t.Run("suffix-only name survives", func(t *testing.T) {
		// A name made entirely of suffix words must not normalize to "".
		assert.NotEmpty(t, n.Normalize("Corporation Inc"))
	})

	t.Run("punctuation becomes whitespace", func(t *testing.T) {
		assert.Equal(t, "at t research", n.Normalize("AT&T Research"))
	})
}

func TestCoreText(t *testing.T) {
	n := NewNormalizer(nil)

	t.Run("removes organizational words beyond normalize", func(t *testing.T) {
		core := n.CoreText("Beijing Institute of Technology")
		assert.NotContains(t, core, "institute")
		assert.Contains(t, core, "beijing")
	})

	t.Run("falls back when everything is removed", func(t *testing.T) {
		assert.NotEmpty(t, n.CoreText("Technology Institute"))
	})
}

func TestSpecificityScore(t *testing.T) {
	n := NewNormalizer(nil)

	t.Run("range", func(t *testing.T) {
		for _, text := range []string{"", "China", "Acme", "Advanced Precision Machining Systems 3000", "a b c d e f g h"} {
			score := n.SpecificityScore(text)
			assert.GreaterOrEqual(t, score, 0.0, "text %q", text)
			assert.LessOrEqual(t, score, 1.0, "text %q", text)
		}
	})

	t.Run("empty scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, n.SpecificityScore(""))
	})

	t.Run("generic geography scores low", func(t *testing.T) {
		assert.Less(t, n.SpecificityScore("China"), 0.3)
	})

	t.Run("distinctive multiword name scores higher than a generic one", func(t *testing.T) {
		distinctive := n.SpecificityScore("Jiuquan Satellite Launch Center")
		generic := n.SpecificityScore("China Company")
		assert.Greater(t, distinctive, generic)
	})
}

func TestVariations(t *testing.T) {
	n := NewNormalizer(nil)

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, n.Variations("   "))
	})

	t.Run("original comes first", func(t *testing.T) {
		variations := n.Variations("Acme Widgets Inc")
		require.NotEmpty(t, variations)
		assert.Equal(t, "Acme Widgets Inc", variations[0])
	})

	t.Run("includes normalized form", func(t *testing.T) {
		assert.Contains(t, n.Variations("Acme Widgets Inc"), "acme widgets")
	})

	t.Run("includes acronym in both cases", func(t *testing.T) {
		variations := n.Variations("Defense Advanced Research Projects Agency")
		assert.Contains(t, variations, "DARPA")
		assert.Contains(t, variations, "darpa")
	})

	t.Run("no duplicates", func(t *testing.T) {
		variations := n.Variations("acme")
		seen := make(map[string]bool)
		for _, v := range variations {
			assert.False(t, seen[v], "duplicate variation %q", v)
			seen[v] = true
		}
	})

	t.Run("single token has no acronym", func(t *testing.T) {
		for _, v := range n.Variations("Acme") {
			assert.NotEqual(t, "A", v)
		}
	})
}

func TestShouldSkip(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		text string
		skip bool
	}{
		{"", true},
		{"   ", true},
		{"x", true},
		{"China", true},
		{"USA", true},
		{"government", true},
		{"china government", true},
		{"Jiuquan Satellite Launch Center", false},
		{"Acme Widgets", false},
		{"China Aerospace Science and Technology Corporation", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.skip, n.ShouldSkip(tt.text), "text %q", tt.text)
		})
	}
}

func TestParseEntities(t *testing.T) {
	n := NewNormalizer(nil)

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, n.ParseEntities("  "))
	})

	t.Run("comma separated", func(t *testing.T) {
		entities := n.ParseEntities("Acme Widgets, Globex Industrial; Zenith Labs")
		assert.Equal(t, []string{"Acme Widgets", "Globex Industrial", "Zenith Labs"}, entities)
	})

	t.Run("numbered list", func(t *testing.T) {
		entities := n.ParseEntities("1. Acme Widgets 2. Globex Industrial 3. Zenith Labs")
		assert.Equal(t, []string{"Acme Widgets", "Globex Industrial", "Zenith Labs"}, entities)
	})

	t.Run("splits on and", func(t *testing.T) {
		entities := n.ParseEntities("Acme Widgets and Globex Industrial")
		assert.Equal(t, []string{"Acme Widgets", "Globex Industrial"}, entities)
	})

	t.Run("compound phrases survive the and split", func(t *testing.T) {
		entities := n.ParseEntities("Institute for Research and Development")
		assert.Equal(t, []string{"Institute for Research and Development"}, entities)
	})

	t.Run("drops none-style entries", func(t *testing.T) {
		assert.Empty(t, n.ParseEntities("None"))
		assert.Empty(t, n.ParseEntities("no evidence found"))
		assert.Empty(t, n.ParseEntities("N/A"))
	})

	t.Run("drops numeric and single character entries", func(t *testing.T) {
		entities := n.ParseEntities("42, x, Acme Widgets")
		assert.Equal(t, []string{"Acme Widgets"}, entities)
	})

	t.Run("deduplicates case-insensitively keeping first", func(t *testing.T) {
		entities := n.ParseEntities("Acme Widgets, ACME WIDGETS, acme widgets")
		assert.Equal(t, []string{"Acme Widgets"}, entities)
	})
}

func TestWordOverlap(t *testing.T) {
	n := NewNormalizer(nil)

	t.Run("identical token sets", func(t *testing.T) {
		assert.Equal(t, 1.0, n.WordOverlap("Acme Widgets", "widgets acme"))
	})

	t.Run("disjoint token sets", func(t *testing.T) {
		assert.Equal(t, 0.0, n.WordOverlap("Acme Widgets", "Zenith Industrial"))
	})

	t.Run("stop words ignored", func(t *testing.T) {
		assert.Equal(t, 1.0, n.WordOverlap("Acme of Widgets", "the Acme Widgets"))
	})
}

func TestIsAcademicTerm(t *testing.T) {
	n := NewNormalizer(nil)

	assert.True(t, n.IsAcademicTerm("Journal of Applied Physics"))
	assert.True(t, n.IsAcademicTerm("Proceedings of the 12th Symposium"))
	assert.False(t, n.IsAcademicTerm("Acme Widgets"))
}

func TestExtractKeywords(t *testing.T) {
	n := NewNormalizer(nil)

	t.Run("longest first, no stop or generic words", func(t *testing.T) {
		keywords := n.ExtractKeywords("Jiuquan Satellite Launch Center of China", 3)
		require.NotEmpty(t, keywords)
		for i := 1; i < len(keywords); i++ {
			assert.GreaterOrEqual(t, len(keywords[i-1]), len(keywords[i]))
		}
		assert.NotContains(t, keywords, "china")
		assert.NotContains(t, keywords, "of")
	})

	t.Run("minimum length enforced", func(t *testing.T) {
		keywords := n.ExtractKeywords("AB Acme Industrial", 5)
		for _, keyword := range keywords {
			assert.GreaterOrEqual(t, len(keyword), 5)
		}
	})
}
