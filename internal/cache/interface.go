package cache

import (
	"context"
	"errors"
	"time"
)

// Outcomes of a cache operation other than success. None of them is fatal:
// callers treat every error from Get as a miss and every error from Set as
// a skipped write.
var (
	ErrCacheMiss        = errors.New("cache miss")
	ErrCacheDisabled    = errors.New("cache disabled")
	ErrCacheUnavailable = errors.New("cache unavailable")
)

// ResultCache is a byte cache with per-entry expiry.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrCacheDisabled
}

func (NoopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return ErrCacheDisabled
}

func (NoopCache) Close() error {
	return nil
}
