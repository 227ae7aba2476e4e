package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/debdutisardar8903/wallineex-backend/internal/clock"
)

// Cache is the read/write surface handed to the verification path. The raw
// map never leaves this package.
type Cache[K comparable, V any] interface {
	Get(key K) (V, time.Duration, bool)
	Set(key K, value V, ttl time.Duration)
	Delete(key K)
	Clear()
	Len() int
}

type cacheEntry[V any] struct {
	value     V
	writtenAt time.Time
	expiresAt time.Time
}

// TTLCache stores values in-memory with per-entry TTLs. Expired entries are
// dropped lazily on read and by Sweep; Sweep also enforces the entry ceiling
// so orders that are never re-queried cannot grow the map without bound.
type TTLCache[K comparable, V any] struct {
	mu         sync.RWMutex
	items      map[K]cacheEntry[V]
	maxEntries int
	clk        clock.Clock
}

// NewTTLCache constructs a TTLCache. maxEntries <= 0 disables the ceiling.
func NewTTLCache[K comparable, V any](maxEntries int, clk clock.Clock) *TTLCache[K, V] {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &TTLCache[K, V]{
		items:      make(map[K]cacheEntry[V]),
		maxEntries: maxEntries,
		clk:        clk,
	}
}

// Get returns a cached value and its age if it exists and has not expired.
// A stale read evicts the entry.
func (c *TTLCache[K, V]) Get(key K) (V, time.Duration, bool) {
	var zero V
	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return zero, 0, false
	}
	now := c.clk.Now()
	if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
		c.deleteExpired(key, now)
		return zero, 0, false
	}
	return entry.value, now.Sub(entry.writtenAt), true
}

// deleteExpired removes key only if the entry is still expired at now. A
// fresh Set racing the stale read stays in place.
func (c *TTLCache[K, V]) deleteExpired(key K, now time.Time) {
	c.mu.Lock()
	entry, ok := c.items[key]
	if ok && !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
		delete(c.items, key)
	}
	c.mu.Unlock()
}

// Set stores a value with the provided TTL. Last write wins.
func (c *TTLCache[K, V]) Set(key K, value V, ttl time.Duration) {
	now := c.clk.Now()
	entry := cacheEntry[V]{value: value, writtenAt: now}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}
	c.mu.Lock()
	c.items[key] = entry
	c.mu.Unlock()
}

// Delete removes a cached entry.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Clear drops every entry.
func (c *TTLCache[K, V]) Clear() {
	c.mu.Lock()
	c.items = make(map[K]cacheEntry[V])
	c.mu.Unlock()
}

// Len returns the current entry count, expired entries included.
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Sweep removes expired entries, then evicts oldest-written entries until the
// map is back under the ceiling. Keys are collected under a read lock and
// deleted under short write locks, so inserts arriving mid-sweep are fine.
// Returns the number of evicted entries.
func (c *TTLCache[K, V]) Sweep() int {
	now := c.clk.Now()

	c.mu.RLock()
	expired := make([]K, 0)
	for key, entry := range c.items {
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			expired = append(expired, key)
		}
	}
	c.mu.RUnlock()

	evicted := 0
	for _, key := range expired {
		c.mu.Lock()
		entry, ok := c.items[key]
		if ok && !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			delete(c.items, key)
			evicted++
		}
		c.mu.Unlock()
	}

	if c.maxEntries <= 0 {
		return evicted
	}

	c.mu.Lock()
	overflow := len(c.items) - c.maxEntries
	if overflow <= 0 {
		c.mu.Unlock()
		return evicted
	}
	type aged struct {
		key       K
		writtenAt time.Time
	}
	all := make([]aged, 0, len(c.items))
	for key, entry := range c.items {
		all = append(all, aged{key: key, writtenAt: entry.writtenAt})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].writtenAt.Before(all[j].writtenAt)
	})
	for i := 0; i < overflow && i < len(all); i++ {
		delete(c.items, all[i].key)
		evicted++
	}
	c.mu.Unlock()
	return evicted
}
