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


// Package cache provides a generic LRU result cache with TTL expiry,
// negative-result caching, and version-token invalidation. Caching is
// strictly an optimization: operations never return errors to callers.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// cleanupOccupancy is the fill fraction above which Set opportunistically
// sweeps expired entries instead of relying on a timer.
const cleanupOccupancy = 0.9

// Config configures a ResultCache.
type Config struct {
	// MaxSize is the entry capacity before LRU eviction kicks in.
	MaxSize int

	// DefaultTTL bounds the life of positive entries.
	DefaultTTL time.Duration

	// NegativeCaching enables storing "looked up, found nothing" markers.
	NegativeCaching bool

	// NegativeTTL bounds the life of negative entries. It is configured
	// independently and is typically much shorter than DefaultTTL.
	NegativeTTL time.Duration
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		MaxSize:         1000,
		DefaultTTL:      30 * time.Minute,
		NegativeCaching: true,
		NegativeTTL:     5 * time.Minute,
	}
}

// Stats reports cumulative cache effectiveness counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
	HitRate   float64
}

type entry[V any] struct {
	key        string
	value      V
	insertedAt time.Time
	ttl        time.Duration
	version    string
	negative   bool
}

// ResultCache is a thread-safe least-recently-used cache with TTL and
// version-based invalidation. Every access refreshes recency.
type ResultCache[V any] struct {
	mu        sync.Mutex
	cfg       Config
	items     map[string]*list.Element
	order     *list.List
	hits      uint64
	misses    uint64
	evictions uint64
	now       func() time.Time
}

// New creates a ResultCache. Non-positive sizes and TTLs fall back to
// defaults.
func New[V any](cfg Config) *ResultCache[V] {
	defaults := DefaultConfig()
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = defaults.MaxSize
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = defaults.DefaultTTL
	}
	if cfg.NegativeTTL <= 0 {
		cfg.NegativeTTL = defaults.NegativeTTL
	}
	return &ResultCache[V]{
		cfg:   cfg,
		items: make(map[string]*list.Element),
		order: list.New(),
		now:   time.Now,
	}
}

// Get retrieves a value and marks it as recently used. The caller supplies
// the current version token; an entry written under a different token is
// treated as expired. The negative return distinguishes a cached empty
// result from a plain miss.
func (c *ResultCache[V]) Get(key, currentVersion string) (value V, negative, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, found := c.items[key]
	if !found {
		c.misses++
		return value, false, false
	}

	ent := elem.Value.(*entry[V])
	if c.expired(ent) || (ent.version != "" && currentVersion != "" && ent.version != currentVersion) {
		c.removeElement(elem)
		c.misses++
		return value, false, false
	}

	c.order.MoveToFront(elem)
	c.hits++
	return ent.value, ent.negative, true
}

// Set stores a value under the default TTL, tagged with the given version
// token.
func (c *ResultCache[V]) Set(key string, value V, version string) {
	c.set(key, value, c.cfg.DefaultTTL, version, false)
}

// SetWithTTL stores a value with an explicit TTL.
func (c *ResultCache[V]) SetWithTTL(key string, value V, ttl time.Duration, version string) {
	if ttl <= 0 {
		ttl = c.cfg.DefaultTTL
	}
	c.set(key, value, ttl, version, false)
}

// SetNegative stores a negative marker recording that the lookup ran and
// found nothing. No-op when negative caching is disabled.
func (c *ResultCache[V]) SetNegative(key, version string) {
	if !c.cfg.NegativeCaching {
		return
	}
	var zero V
	c.set(key, zero, c.cfg.NegativeTTL, version, true)
}

func (c *ResultCache[V]) set(key string, value V, ttl time.Duration, version string, negative bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, found := c.items[key]; found {
		c.order.MoveToFront(elem)
		ent := elem.Value.(*entry[V])
		ent.value = value
		ent.insertedAt = c.now()
		ent.ttl = ttl
		ent.version = version
		ent.negative = negative
		return
	}

	if c.order.Len() >= c.cfg.MaxSize {
		c.evictOldest()
	}

	elem := c.order.PushFront(&entry[V]{
		key:        key,
		value:      value,
		insertedAt: c.now(),
		ttl:        ttl,
		version:    version,
		negative:   negative,
	})
	c.items[key] = elem

	if float64(c.order.Len()) > cleanupOccupancy*float64(c.cfg.MaxSize) {
		c.cleanupLocked()
	}
}

// Delete removes a single entry.
func (c *ResultCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, found := c.items[key]; found {
		c.removeElement(elem)
	}
}

// Clear removes all entries. Counters are preserved.
func (c *ResultCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order = list.New()
}

// Cleanup proactively removes every logically expired entry.
func (c *ResultCache[V]) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupLocked()
}

func (c *ResultCache[V]) cleanupLocked() {
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if c.expired(elem.Value.(*entry[V])) {
			c.removeElement(elem)
		}
		elem = prev
	}
}

// Len returns the current number of entries.
func (c *ResultCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns cumulative hit/miss/eviction counters.
func (c *ResultCache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Entries:   c.order.Len(),
	}
	if total := c.hits + c.misses; total > 0 {
		stats.HitRate = float64(c.hits) / float64(total)
	}
	return stats
}

// MemoryEstimate returns a rough byte estimate of cache occupancy based on
// key sizes and fixed per-entry overhead. Values are not traversed.
func (c *ResultCache[V]) MemoryEstimate() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	const perEntryOverhead = 96
	total := 0
	for key := range c.items {
		total += len(key) + perEntryOverhead
	}
	return total
}

func (c *ResultCache[V]) expired(ent *entry[V]) bool {
	return c.now().Sub(ent.insertedAt) > ent.ttl
}

func (c *ResultCache[V]) evictOldest() {
	if oldest := c.order.Back(); oldest != nil {
		c.removeElement(oldest)
		c.evictions++
	}
}

func (c *ResultCache[V]) removeElement(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.items, elem.Value.(*entry[V]).key)
}
