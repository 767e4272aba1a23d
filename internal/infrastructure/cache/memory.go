package cache

import (
	"context"
	"sync"
	"time"

	"github.com/watchlens/scraper/internal/domain"
)

// entry is a cached value with its expiry; a zero expiry never expires
type entry struct {
	value   interface{}
	expires time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

// MemoryCache is a thread-safe in-process cache with optional per-key TTL.
// One is created per valuation run and dropped with it.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

// NewMemoryCache creates an empty cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

// Get returns the value for key or domain.ErrCacheMiss. Expired keys are
// dropped on read.
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()

	if !ok {
		return nil, domain.ErrCacheMiss
	}
	if e.expired(c.now()) {
		c.mu.Lock()
		if cur, ok := c.data[key]; ok && cur.expired(c.now()) {
			delete(c.data, key)
		}
		c.mu.Unlock()
		return nil, domain.ErrCacheMiss
	}
	return e.value, nil
}

// Set stores value under key. ttl <= 0 keeps it for the life of the cache.
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.data[key] = e
	c.mu.Unlock()
	return nil
}
