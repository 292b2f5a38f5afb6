package cache

import (
	"container/list"
	"context"
	"time"
)

// DefaultMemoryEntries is the entry limit used when NewMemoryCache gets a
// non-positive size.
const DefaultMemoryEntries = 4096

// MemoryCache is a bounded LRU cache held in process memory.
// It is not safe for concurrent use; sessions are single-threaded.
type MemoryCache struct {
	max       int
	items     map[string]*list.Element
	evictList *list.List
	now       func() time.Time
}

type memEntry struct {
	key       string
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates an LRU cache holding at most maxEntries values.
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryEntries
	}
	return &MemoryCache{
		max:       maxEntries,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
		now:       time.Now,
	}
}

// Get returns a cached value and marks it most recently used.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	el, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}
	ent := el.Value.(*memEntry)
	if !ent.expiresAt.IsZero() && c.now().After(ent.expiresAt) {
		c.remove(el)
		return nil, false, nil
	}
	c.evictList.MoveToFront(el)
	return ent.data, true, nil
}

// Set stores a value, evicting the least recently used entry when full.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}
	if el, ok := c.items[key]; ok {
		ent := el.Value.(*memEntry)
		ent.data, ent.expiresAt = data, expiresAt
		c.evictList.MoveToFront(el)
		return nil
	}
	c.items[key] = c.evictList.PushFront(&memEntry{key: key, data: data, expiresAt: expiresAt})
	for c.evictList.Len() > c.max {
		c.remove(c.evictList.Back())
	}
	return nil
}

// Delete removes a value.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if el, ok := c.items[key]; ok {
		c.remove(el)
	}
	return nil
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int { return c.evictList.Len() }

// Close drops every entry.
func (c *MemoryCache) Close() error {
	c.items = make(map[string]*list.Element)
	c.evictList.Init()
	return nil
}

func (c *MemoryCache) remove(el *list.Element) {
	c.evictList.Remove(el)
	delete(c.items, el.Value.(*memEntry).key)
}

// Ensure MemoryCache implements Cache.
var _ Cache = (*MemoryCache)(nil)
