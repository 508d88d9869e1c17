// Package summary caches AI-generated post summaries to avoid redundant
// calls to the paid text-completion service. Entries are invalidated by
// content hash (the source post changed) or by TTL expiry.
package summary

import (
	"crypto/sha256"
	"encoding/base64"
	"sort"
	"sync"
	"time"
)

// Entry is one cached summary.
type Entry struct {
	Summary        string
	ContentHash    string
	CreatedAt      time.Time
	LastAccessedAt time.Time
	HitCount       int
}

// Stats holds cache counters for observability. Hash mismatches are
// reported as invalidations, TTL expiry and capacity pressure as evictions.
type Stats struct {
	Hits          int64
	Misses        int64
	Invalidations int64
	Evictions     int64
}

// HitRate returns hits / (hits + misses), or 0 when the cache is cold.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache maps post id to a cached summary, bounded at maxEntries. When full,
// a Put first evicts the least-recently-accessed 10% of entries.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*Entry
	maxEntries int
	ttl        time.Duration
	stats      Stats

	now func() time.Time // overridable in tests
}

// New creates a Cache with the given capacity and TTL.
func New(maxEntries int, ttl time.Duration) *Cache {
	return &Cache{
		entries:    make(map[string]*Entry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// ComputeKey returns a deterministic digest over title and content.
// Equal inputs always produce equal keys; changing either part changes
// the key with overwhelming probability.
func ComputeKey(title, content string) string {
	sum := sha256.Sum256([]byte(title + "|" + content))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// Get returns the cached summary for postID if it is still valid against
// currentHash and within the TTL. Any failing condition removes the stale
// entry and reports a miss.
func (c *Cache) Get(postID, currentHash string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[postID]
	if !ok {
		c.stats.Misses++
		return Entry{}, false
	}

	if e.ContentHash != currentHash {
		delete(c.entries, postID)
		c.stats.Invalidations++
		c.stats.Misses++
		return Entry{}, false
	}

	if c.now().Sub(e.CreatedAt) > c.ttl {
		delete(c.entries, postID)
		c.stats.Evictions++
		c.stats.Misses++
		return Entry{}, false
	}

	e.LastAccessedAt = c.now()
	e.HitCount++
	c.stats.Hits++
	return *e, true
}

// Put stores a summary, evicting the least-recently-accessed 10% of entries
// first when the cache is at capacity. Two concurrent Puts for the same id
// resolve last-write-wins.
func (c *Cache) Put(postID, summaryText, contentHash string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[postID]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLeastRecentLocked()
	}

	now := c.now()
	c.entries[postID] = &Entry{
		Summary:        summaryText,
		ContentHash:    contentHash,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
}

// Invalidate removes the entry unconditionally. Used when the owning post
// is known to have changed or was removed.
func (c *Cache) Invalidate(postID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, postID)
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry)
}

// Size returns the number of cached entries.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// evictLeastRecentLocked removes the 10% of entries with the oldest
// last-access time. Caller holds c.mu.
func (c *Cache) evictLeastRecentLocked() {
	n := c.maxEntries / 10
	if n < 1 {
		n = 1
	}

	type aged struct {
		id string
		at time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for id, e := range c.entries {
		all = append(all, aged{id: id, at: e.LastAccessedAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].at.Before(all[j].at) })

	if n > len(all) {
		n = len(all)
	}
	for _, v := range all[:n] {
		delete(c.entries, v.id)
		c.stats.Evictions++
	}
}
