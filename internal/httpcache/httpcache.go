// Package httpcache is an in-process, URL-keyed response cache for the
// fetcher, modelled on docsaf's CacheEntry shape but scoped to one
// process's memory rather than disk (see DESIGN.md for why persistence
// was dropped for this spec's single-run ingestion usage).
package httpcache

import (
	"sync"
	"time"
)

// Entry is one cached response.
type Entry struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
	ETag        string
	LastModified string
	Expires     time.Time
	CachedAt    time.Time
}

// IsExpired reports whether the entry's Expires time has passed.
func (e Entry) IsExpired(now time.Time) bool {
	if e.Expires.IsZero() {
		return false
	}
	return now.After(e.Expires)
}

// Cache is a size-capped, TTL-bounded in-memory response cache.
type Cache struct {
	mu       sync.Mutex
	ttl      time.Duration
	maxItems int
	entries  map[string]Entry
	order    []string // insertion order, for simple FIFO eviction
}

// New constructs a Cache with the given TTL and item cap. maxItems <= 0
// means unlimited.
func New(ttl time.Duration, maxItems int) *Cache {
	return &Cache{
		ttl:      ttl,
		maxItems: maxItems,
		entries:  make(map[string]Entry),
	}
}

// Get returns the cached entry for url, if present and not expired.
func (c *Cache) Get(url string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[url]
	if !ok {
		return Entry{}, false
	}
	if e.IsExpired(time.Now()) {
		delete(c.entries, url)
		return Entry{}, false
	}
	return e, true
}

// Put stores an entry, evicting the oldest insertion if the cache is full.
func (c *Cache) Put(url string, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e.CachedAt.IsZero() {
		e.CachedAt = time.Now()
	}
	if e.Expires.IsZero() && c.ttl > 0 {
		e.Expires = e.CachedAt.Add(c.ttl)
	}

	if _, exists := c.entries[url]; !exists {
		c.order = append(c.order, url)
	}
	c.entries[url] = e

	if c.maxItems > 0 {
		for len(c.order) > c.maxItems {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
	}
}

// Len reports the current number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
