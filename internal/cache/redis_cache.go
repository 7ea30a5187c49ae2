package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/weiawesome/wes-dashboard/internal/config"
	"github.com/weiawesome/wes-dashboard/pkg/log"
)

const defaultTimeout = 100 * time.Millisecond

// RedisResultCache is a ResultCache backed by Redis. If Redis cannot be
// reached when the cache is created it stays disabled for the lifetime of
// the process.
type RedisResultCache struct {
	client   *redis.Client
	disabled bool
}

// NewRedisResultCache connects to Redis with timeout bounding dial, read
// and write. It never fails: an unreachable server yields a disabled cache.
func NewRedisResultCache(ctx context.Context, cfg config.RedisConfig, timeout time.Duration) *RedisResultCache {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		PoolTimeout:  timeout,
		MaxRetries:   -1,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str("addr", cfg.Address()).Msg("redis unreachable, result cache disabled")
		_ = client.Close()
		return &RedisResultCache{disabled: true}
	}

	return &RedisResultCache{client: client}
}

// Disabled reports whether the cache gave up on Redis at startup.
func (c *RedisResultCache) Disabled() bool {
	return c.disabled
}

func (c *RedisResultCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.disabled {
		return nil, ErrCacheDisabled
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("%w: get: %v", ErrCacheUnavailable, err)
	}

	return data, nil
}

func (c *RedisResultCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.disabled {
		return ErrCacheDisabled
	}

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set: %v", ErrCacheUnavailable, err)
	}

	return nil
}

func (c *RedisResultCache) Close() error {
	if c.disabled {
		return nil
	}
	return c.client.Close()
}
