package relink

import (
	"sync"

	"github.com/wippyai/ilkit/il"
)

type cacheKey struct {
	src il.Operand
	ctx il.GenericProvider
}

// Cache memoizes resolver results by (reference, context) identity. It is
// safe for concurrent use. When two goroutines resolve the same key the
// first stored result wins, so every caller observes one destination
// object per key. The zero value is an empty cache.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]il.Operand
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]il.Operand)}
}

// Lookup returns the cached result for ref under ctx.
func (c *Cache) Lookup(ref il.Operand, ctx il.GenericProvider) (il.Operand, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[cacheKey{ref, ctx}]
	return v, ok
}

// LoadOrStore returns the existing result for ref under ctx if present.
// Otherwise it stores and returns v. The loaded result is true if v was
// not stored.
func (c *Cache) LoadOrStore(ref il.Operand, ctx il.GenericProvider, v il.Operand) (il.Operand, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := cacheKey{ref, ctx}
	if c.entries == nil {
		c.entries = make(map[cacheKey]il.Operand)
	}
	if old, ok := c.entries[k]; ok {
		return old, true
	}
	c.entries[k] = v
	return v, false
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
