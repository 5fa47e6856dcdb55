// Package memory provides a bounded in-process implementation of the
// postgrid.NameCache interface.
package memory

import "sync"

// DefaultMaxEntries bounds the cache when no explicit size is given.
const DefaultMaxEntries = 1024

// Cache is a mutex-guarded, size-capped id-to-name memo. At capacity new
// entries are dropped rather than evicting old ones: display names change
// rarely and correctness never depends on the cache, so a full cache simply
// stops absorbing new ids until the process restarts.
type Cache struct {
	mu    sync.Mutex
	max   int
	names map[string]string
}

// New creates a cache holding at most max entries. Non-positive max falls
// back to DefaultMaxEntries.
func New(max int) *Cache {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	return &Cache{
		max:   max,
		names: make(map[string]string),
	}
}

// Get returns the memoized name for id.
func (c *Cache) Get(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name, ok := c.names[id]
	return name, ok
}

// Set memoizes the name for id, unless the cache is full and id is new.
func (c *Cache) Set(id, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.names[id]; !ok && len(c.names) >= c.max {
		return
	}
	c.names[id] = name
}

// Len returns the number of memoized entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.names)
}
