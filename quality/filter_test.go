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


package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/entitymatch/core"
)

func newTestFilter(t *testing.T) *Filter {
	t.Helper()
	return NewFilter(DefaultConfig(), nil)
}

func TestMetrics(t *testing.T) {
	f := newTestFilter(t)

	t.Run("without context", func(t *testing.T) {
		m := f.Metrics("Jiuquan Satellite Launch Center", "Jiuquan Satellite Launch Center", core.MatchTypeExact, "")
		assert.False(t, m.HasContext)
		assert.Equal(t, 1.0, m.MatchCoverage)
		assert.Equal(t, 1.0, m.LengthRatio)
		assert.Equal(t, 1.0, m.WordCountRatio)
	})

	t.Run("with context", func(t *testing.T) {
		m := f.Metrics("Acme Widgets", "Acme Widgets Industrial", core.MatchTypeFuzzy, "widgets manufacturing supplier")
		assert.True(t, m.HasContext)
		assert.GreaterOrEqual(t, m.ContextRelevance, 0.0)
		assert.LessOrEqual(t, m.ContextRelevance, 1.0)
	})

	t.Run("coverage fixed by strong match types", func(t *testing.T) {
		assert.Equal(t, 1.0, f.Metrics("a b", "c d", core.MatchTypeAlias, "").MatchCoverage)
		assert.Equal(t, 0.9, f.Metrics("a b", "c d", core.MatchTypeCoreAcronym, "").MatchCoverage)
		assert.Equal(t, 0.8, f.Metrics("a b", "c d", core.MatchTypeAliasPartial, "").MatchCoverage)
	})
}

func TestQuality(t *testing.T) {
	f := newTestFilter(t)

	t.Run("range", func(t *testing.T) {
		types := []core.MatchType{
			core.MatchTypeExact, core.MatchTypeAlias, core.MatchTypeCoreAcronym,
			core.MatchTypeCoreMatch, core.MatchTypeWordMatch, core.MatchTypeFuzzy,
			core.MatchTypePartial,
		}
		for _, mt := range types {
			q := f.Quality("Acme Widgets Industrial", "Acme Widgets", mt, "")
			assert.GreaterOrEqual(t, q, 0.0, "type %s", mt)
			assert.LessOrEqual(t, q, 1.0, "type %s", mt)
		}
	})

	t.Run("exact on distinctive name scores high", func(t *testing.T) {
		q := f.Quality("Jiuquan Satellite Launch Center", "Jiuquan Satellite Launch Center", core.MatchTypeExact, "")
		assert.Greater(t, q, 0.7)
	})

	t.Run("exact on vague name is penalized", func(t *testing.T) {
		vague := f.Quality("China", "China", core.MatchTypeExact, "")
		distinctive := f.Quality("Jiuquan Satellite Launch Center", "Jiuquan Satellite Launch Center", core.MatchTypeExact, "")
		assert.Less(t, vague, distinctive)
	})

	t.Run("partial scores below exact for the same pair", func(t *testing.T) {
		exact := f.Quality("Acme Widgets", "Acme Widgets", core.MatchTypeExact, "")
		partial := f.Quality("Acme Widgets", "Acme Widgets", core.MatchTypePartial, "")
		assert.Less(t, partial, exact)
	})
}

func TestPassesThreshold(t *testing.T) {
	f := newTestFilter(t)

	assert.True(t, f.PassesThreshold("Jiuquan Satellite Launch Center", "Jiuquan Satellite Launch Center", core.MatchTypeExact, ""))
	assert.False(t, f.PassesThreshold("China", "Zenith Industrial Partners", core.MatchTypePartial, ""))
}

func TestIsGeographicFalsePositive(t *testing.T) {
	f := newTestFilter(t)

	t.Run("vague geographic entity flagged", func(t *testing.T) {
		match := core.DatasetMatch{OrganizationName: "China Shipbuilding Industry", MatchType: core.MatchTypePartial}
		assert.True(t, f.IsGeographicFalsePositive(match, "China"))
	})

	t.Run("distinctive exact match passes", func(t *testing.T) {
		match := core.DatasetMatch{OrganizationName: "Jiuquan Satellite Launch Center", MatchType: core.MatchTypeExact}
		assert.False(t, f.IsGeographicFalsePositive(match, "Jiuquan Satellite Launch Center"))
	})
}

func TestApply(t *testing.T) {
	f := newTestFilter(t)

	t.Run("partial with low word overlap excluded", func(t *testing.T) {
		// Word overlap between these is 1/3, below the 0.5 floor, so the
		// partial match must be dropped regardless of its quality score.
		matches := []core.DatasetMatch{
			{OrganizationName: "Acme Widgets Industrial Holdings", MatchType: core.MatchTypePartial, Confidence: 0.9},
		}
		kept := f.Apply(matches, "Acme Precision Tooling", "")
		assert.Empty(t, kept)
	})

	t.Run("survivors sorted by priority then confidence", func(t *testing.T) {
		matches := []core.DatasetMatch{
			{OrganizationName: "Jiuquan Launch Services", MatchType: core.MatchTypeCoreMatch, Confidence: 0.72},
			{OrganizationName: "Jiuquan Satellite Launch Center", MatchType: core.MatchTypeExact, Confidence: 0.99},
			{OrganizationName: "Jiuquan Satellite Launch Centre", MatchType: core.MatchTypeAlias, Confidence: 0.9},
		}
		kept := f.Apply(matches, "Jiuquan Satellite Launch Center", "")
		require.NotEmpty(t, kept)
		for i := 1; i < len(kept); i++ {
			pi, pj := kept[i-1].MatchType.Priority(), kept[i].MatchType.Priority()
			assert.LessOrEqual(t, pi, pj)
		}
		assert.Equal(t, core.MatchTypeExact, kept[0].MatchType)
	})

	t.Run("quality metrics attached to survivors", func(t *testing.T) {
		matches := []core.DatasetMatch{
			{OrganizationName: "Jiuquan Satellite Launch Center", MatchType: core.MatchTypeExact, Confidence: 0.99},
		}
		kept := f.Apply(matches, "Jiuquan Satellite Launch Center", "")
		require.Len(t, kept, 1)
		require.NotNil(t, kept[0].Quality)
		assert.Equal(t, 1.0, kept[0].Quality.MatchCoverage)
	})
}

func TestApplyAcademic(t *testing.T) {
	f := newTestFilter(t)

	strong := core.DatasetMatch{OrganizationName: "A", MatchType: core.MatchTypeExact, Confidence: 0.99}
	weak := core.DatasetMatch{OrganizationName: "B", MatchType: core.MatchTypePartial, Confidence: 0.45}

	t.Run("non-academic passes through", func(t *testing.T) {
		matches := []core.DatasetMatch{strong, weak}
		assert.Equal(t, matches, f.ApplyAcademic("Acme Widgets", matches))
	})

	t.Run("oversized academic result set restricted to strong matches", func(t *testing.T) {
		matches := make([]core.DatasetMatch, 0, 12)
		matches = append(matches, strong)
		for i := 0; i < 11; i++ {
			matches = append(matches, weak)
		}
		kept := f.ApplyAcademic("Journal of Applied Physics", matches)
		assert.Len(t, kept, 1)
		assert.Equal(t, core.MatchTypeExact, kept[0].MatchType)
	})
}
