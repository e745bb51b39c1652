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


package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchTypePriority(t *testing.T) {
	t.Run("total order from strongest to weakest", func(t *testing.T) {
		ordered := []MatchType{
			MatchTypeExact,
			MatchTypeAlias,
			MatchTypeAliasPartial,
			MatchTypeCoreAcronym,
			MatchTypeCoreMatch,
			MatchTypeWordMatch,
			MatchTypeFuzzy,
			MatchTypePartial,
		}
		for i := 1; i < len(ordered); i++ {
			assert.Less(t, ordered[i-1].Priority(), ordered[i].Priority(),
				"%s must rank above %s", ordered[i-1], ordered[i])
		}
	})

	t.Run("core acronym sits between alias partial and core match", func(t *testing.T) {
		assert.Greater(t, MatchTypeCoreAcronym.Priority(), MatchTypeAliasPartial.Priority())
		assert.Less(t, MatchTypeCoreAcronym.Priority(), MatchTypeCoreMatch.Priority())
	})

	t.Run("unknown types rank last", func(t *testing.T) {
		unknown := MatchType("nonsense")
		assert.False(t, unknown.Known())
		assert.Greater(t, unknown.Priority(), MatchTypePartial.Priority())
	})

	t.Run("known types", func(t *testing.T) {
		assert.True(t, MatchTypeExact.Known())
		assert.True(t, MatchTypeWordMatch.Known())
	})
}

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, IDFromContent("acme widgets"), IDFromContent("acme widgets"))
	})

	t.Run("distinct content distinct IDs", func(t *testing.T) {
		assert.NotEqual(t, IDFromContent("acme widgets"), IDFromContent("globex industrial"))
	})
}

func TestCacheKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, CacheKey("acme", "germany", ""), CacheKey("acme", "germany", ""))
	})

	t.Run("part boundaries matter", func(t *testing.T) {
		assert.NotEqual(t, CacheKey("ab", "c"), CacheKey("a", "bc"))
	})

	t.Run("part order matters", func(t *testing.T) {
		assert.NotEqual(t, CacheKey("a", "b"), CacheKey("b", "a"))
	})
}
