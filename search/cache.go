package search

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of documents kept in memory by default.
const DefaultCacheSize = 100

// Cache policies accepted by NewCache.
const (
	PolicyFill = "fill" // Insert while there is room, never evict.
	PolicyLRU  = "lru"  // Evict the least recently used document.
)

// Cache memoizes extracted text keyed by document path.
// A cached value is never invalidated when the file changes on disk; call
// Clear to force re-extraction.
type Cache interface {
	Get(path string) (*Text, bool)
	// Put stores text for path and reports whether it was stored.
	Put(path string, text *Text) bool
	Len() int
	Clear()
}

// NewCache returns a cache for the named policy. An empty policy means PolicyFill.
func NewCache(policy string, capacity int) (Cache, error) {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}

	switch policy {
	case "", PolicyFill:
		return NewBoundedCache(capacity), nil
	case PolicyLRU:
		return NewLRUCache(capacity)
	}
	return nil, fmt.Errorf("unknown cache policy %q", policy)
}

// BoundedCache holds at most capacity entries. Once full, new documents are
// not stored and existing ones are never evicted.
type BoundedCache struct {
	mu       sync.RWMutex
	capacity int
	entries  map[string]*Text
}

func NewBoundedCache(capacity int) *BoundedCache {
	return &BoundedCache{
		capacity: capacity,
		entries:  make(map[string]*Text, capacity),
	}
}

func (c *BoundedCache) Get(path string) (*Text, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	text, ok := c.entries[path]
	return text, ok
}

func (c *BoundedCache) Put(path string, text *Text) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[path]; ok {
		return true
	}

	if len(c.entries) >= c.capacity {
		return false
	}
	c.entries[path] = text
	return true
}

func (c *BoundedCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *BoundedCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Text, c.capacity)
}

// LRUCache evicts the least recently used document when full.
type LRUCache struct {
	lru *lru.Cache[string, *Text]
}

func NewLRUCache(capacity int) (*LRUCache, error) {
	c, err := lru.New[string, *Text](capacity)
	if err != nil {
		return nil, fmt.Errorf("unable to create lru cache: %w", err)
	}
	return &LRUCache{lru: c}, nil
}

func (c *LRUCache) Get(path string) (*Text, bool) {
	return c.lru.Get(path)
}

func (c *LRUCache) Put(path string, text *Text) bool {
	c.lru.Add(path, text)
	return true
}

func (c *LRUCache) Len() int {
	return c.lru.Len()
}

func (c *LRUCache) Clear() {
	c.lru.Purge()
}
