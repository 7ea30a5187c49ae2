package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryResultCache is an in-process ResultCache for single-node setups.
type MemoryResultCache struct {
	cache *ttlcache.Cache[string, []byte]
}

// NewMemoryResultCache starts a cache holding at most capacity entries
// (0 means unbounded).
func NewMemoryResultCache(capacity uint64) *MemoryResultCache {
	opts := []ttlcache.Option[string, []byte]{
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	}
	if capacity > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, []byte](capacity))
	}

	c := ttlcache.New[string, []byte](opts...)
	go c.Start()

	return &MemoryResultCache{cache: c}
}

func (c *MemoryResultCache) Get(ctx context.Context, key string) ([]byte, error) {
	item := c.cache.Get(key)
	if item == nil || item.IsExpired() {
		return nil, ErrCacheMiss
	}
	return append([]byte(nil), item.Value()...), nil
}

func (c *MemoryResultCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.cache.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

func (c *MemoryResultCache) Close() error {
	c.cache.Stop()
	return nil
}
