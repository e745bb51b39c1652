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


package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newClockedCache returns a cache with a controllable clock.
func newClockedCache(cfg Config) (*ResultCache[string], *time.Time) {
	c := New[string](cfg)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }
	return c, &current
}

func TestGetSet(t *testing.T) {
	t.Run("round trip within TTL and matching version", func(t *testing.T) {
		c, _ := newClockedCache(DefaultConfig())
		c.Set("k", "v", "v1")

		value, negative, ok := c.Get("k", "v1")
		require.True(t, ok)
		assert.False(t, negative)
		assert.Equal(t, "v", value)
	})

	t.Run("plain miss", func(t *testing.T) {
		c, _ := newClockedCache(DefaultConfig())
		_, _, ok := c.Get("absent", "v1")
		assert.False(t, ok)
	})

	t.Run("expired after TTL", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DefaultTTL = time.Minute
		c, clock := newClockedCache(cfg)

		c.Set("k", "v", "v1")
		*clock = clock.Add(2 * time.Minute)

		_, _, ok := c.Get("k", "v1")
		assert.False(t, ok)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("version mismatch invalidates", func(t *testing.T) {
		c, _ := newClockedCache(DefaultConfig())
		c.Set("k", "v", "v1")

		_, _, ok := c.Get("k", "v2")
		assert.False(t, ok)
		// The stale entry is gone even under the old version.
		_, _, ok = c.Get("k", "v1")
		assert.False(t, ok)
	})

	t.Run("empty version skips the version check", func(t *testing.T) {
		c, _ := newClockedCache(DefaultConfig())
		c.Set("k", "v", "")

		_, _, ok := c.Get("k", "v7")
		assert.True(t, ok)
	})

	t.Run("overwrite updates in place", func(t *testing.T) {
		c, _ := newClockedCache(DefaultConfig())
		c.Set("k", "old", "v1")
		c.Set("k", "new", "v1")

		value, _, ok := c.Get("k", "v1")
		require.True(t, ok)
		assert.Equal(t, "new", value)
		assert.Equal(t, 1, c.Len())
	})
}

func TestNegativeCaching(t *testing.T) {
	t.Run("negative entry round trip", func(t *testing.T) {
		c, _ := newClockedCache(DefaultConfig())
		c.SetNegative("k", "v1")

		_, negative, ok := c.Get("k", "v1")
		require.True(t, ok)
		assert.True(t, negative)
	})

	t.Run("negative TTL is independent and shorter", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DefaultTTL = time.Hour
		cfg.NegativeTTL = time.Minute
		c, clock := newClockedCache(cfg)

		c.Set("pos", "v", "v1")
		c.SetNegative("neg", "v1")
		*clock = clock.Add(5 * time.Minute)

		_, _, ok := c.Get("pos", "v1")
		assert.True(t, ok)
		_, _, ok = c.Get("neg", "v1")
		assert.False(t, ok)
	})

	t.Run("disabled negative caching is a no-op", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.NegativeCaching = false
		c, _ := newClockedCache(cfg)

		c.SetNegative("k", "v1")
		_, _, ok := c.Get("k", "v1")
		assert.False(t, ok)
	})
}

func TestLRUEviction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSize = 3
	c, _ := newClockedCache(cfg)

	c.Set("a", "1", "")
	c.Set("b", "2", "")
	c.Set("c", "3", "")

	// Touch "a" so "b" becomes the least recently used.
	_, _, ok := c.Get("a", "")
	require.True(t, ok)

	c.Set("d", "4", "")

	_, _, ok = c.Get("b", "")
	assert.False(t, ok, "least recently used entry should be evicted")
	for _, key := range []string{"a", "c", "d"} {
		_, _, ok = c.Get(key, "")
		assert.True(t, ok, "key %q should survive", key)
	}
	assert.Equal(t, 3, c.Len())
}

func TestDeleteAndClear(t *testing.T) {
	c, _ := newClockedCache(DefaultConfig())
	c.Set("a", "1", "")
	c.Set("b", "2", "")

	c.Delete("a")
	_, _, ok := c.Get("a", "")
	assert.False(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, _, ok = c.Get("b", "")
	assert.False(t, ok)
}

func TestCleanup(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultTTL = time.Minute
	c, clock := newClockedCache(cfg)

	c.Set("old", "1", "")
	*clock = clock.Add(2 * time.Minute)
	c.Set("fresh", "2", "")

	c.Cleanup()
	assert.Equal(t, 1, c.Len())
	_, _, ok := c.Get("fresh", "")
	assert.True(t, ok)
}

func TestStats(t *testing.T) {
	c, _ := newClockedCache(DefaultConfig())
	c.Set("k", "v", "")

	c.Get("k", "")
	c.Get("k", "")
	c.Get("absent", "")

	stats := c.Stats()
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
	assert.InDelta(t, 2.0/3.0, stats.HitRate, 1e-9)
}

func TestMemoryEstimate(t *testing.T) {
	c, _ := newClockedCache(DefaultConfig())
	assert.Equal(t, 0, c.MemoryEstimate())

	c.Set("abcd", "v", "")
	assert.Equal(t, 4+96, c.MemoryEstimate())
}

func TestConcurrentAccess(t *testing.T) {
	c := New[int](Config{MaxSize: 100})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%50)
				c.Set(key, i, "")
				c.Get(key, "")
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 100)
}
