package thumbnail

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Entry is a generated thumbnail.
type Entry struct {
	Path        string
	UpdatedTime time.Time
	LastAccess  time.Time
	AccessCount int
}

// Cache maps resource ids to generated thumbnails. Entries are bounded by
// capacity and expire after ttl; an evicted entry is handed to onEvict so
// its file can be removed.
type Cache struct {
	mu  sync.Mutex
	lru *expirable.LRU[string, Entry]
	now func() time.Time
}

// NewCache creates a cache. A capacity of 0 means unbounded and a ttl of 0
// disables expiry.
//
// With a ttl the underlying LRU runs an expiry goroutine that cannot be
// stopped, so a process should build one cache (one Service) and keep it.
func NewCache(capacity int, ttl time.Duration, onEvict func(id string, e Entry)) *Cache {
	var cb expirable.EvictCallback[string, Entry]
	if onEvict != nil {
		cb = func(id string, e Entry) { onEvict(id, e) }
	}
	return &Cache{
		lru: expirable.NewLRU[string, Entry](capacity, cb, ttl),
		now: time.Now,
	}
}

// Get returns the thumbnail path for id if it was generated from the
// resource version updated at updated.
func (c *Cache) Get(id string, updated time.Time) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Get(id)
	if !ok || !e.UpdatedTime.Equal(updated) {
		return "", false
	}
	e.LastAccess = c.now()
	e.AccessCount++
	c.lru.Add(id, e)
	return e.Path, true
}

// Put stores or overwrites the entry for id.
func (c *Cache) Put(id, path string, updated time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(id, Entry{
		Path:        path,
		UpdatedTime: updated,
		LastAccess:  c.now(),
		AccessCount: 1,
	})
}

// Peek returns the entry for id without touching its recency.
func (c *Cache) Peek(id string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Peek(id)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Clear removes every entry, passing each to the eviction callback.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}
