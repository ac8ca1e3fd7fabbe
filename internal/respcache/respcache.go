// Package respcache is the short-TTL in-memory cache of fully assembled
// query results. Age counts from insertion, not last read; when the cache
// grows past its cap the oldest-inserted entries go first. A disposable,
// derived view: dropping it entirely loses nothing but latency.
package respcache

import (
	"sync"
	"time"

	"github.com/deusflow/uynews/internal/article"
)

type entry struct {
	payload    []article.Article
	insertedAt time.Time
}

// Cache is safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]entry
	order      []string // insertion order, oldest first

	now func() time.Time // test hook
}

// New builds a cache with the given freshness window and entry cap.
// ttl <= 0 disables caching entirely.
func New(ttl time.Duration, maxEntries int) *Cache {
	return &Cache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]entry),
		now:        time.Now,
	}
}

// Get returns a deep copy of the cached payload and its age. Entries past
// the TTL are treated as absent and removed on access.
func (c *Cache) Get(key string) ([]article.Article, time.Duration, bool) {
	if c.ttl <= 0 {
		return nil, 0, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, 0, false
	}
	age := c.now().Sub(e.insertedAt)
	if age > c.ttl {
		c.remove(key)
		return nil, 0, false
	}
	return article.CloneAll(e.payload), age, true
}

// Set stores a deep copy of payload under key. A no-op when caching is
// disabled.
func (c *Cache) Set(key string, payload []article.Article) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.remove(key)
	}
	c.entries[key] = entry{payload: article.CloneAll(payload), insertedAt: c.now()}
	c.order = append(c.order, key)

	for c.maxEntries > 0 && len(c.entries) > c.maxEntries {
		c.remove(c.order[0])
	}
}

// Len returns the number of cached entries, counting expired ones not yet
// purged.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// TTL returns the configured freshness window.
func (c *Cache) TTL() time.Duration { return c.ttl }

// MaxEntries returns the configured entry cap.
func (c *Cache) MaxEntries() int { return c.maxEntries }

// remove deletes key from both the map and the order slice. Caller holds
// the lock.
func (c *Cache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
