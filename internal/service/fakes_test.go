package service

import (
	"context"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-dashboard/internal/cache"
	"github.com/weiawesome/wes-dashboard/internal/config"
	"github.com/weiawesome/wes-dashboard/internal/domain"
	"github.com/weiawesome/wes-dashboard/internal/index"
	"github.com/weiawesome/wes-dashboard/internal/repository"
)

// countingStore wraps an index.Store, counting calls and injecting failures.
type countingStore struct {
	index.Store
	queries  atomic.Int32
	indexes  atomic.Int32
	queryErr error
	indexErr error
}

func newCountingStore() *countingStore {
	return &countingStore{Store: index.NewMemoryStore(10)}
}

func (s *countingStore) Index(ctx context.Context, id int64, doc domain.IndexDocument) error {
	s.indexes.Add(1)
	if s.indexErr != nil {
		return s.indexErr
	}
	return s.Store.Index(ctx, id, doc)
}

func (s *countingStore) Query(ctx context.Context, text string) ([]domain.IndexedDocument, error) {
	s.queries.Add(1)
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.Store.Query(ctx, text)
}

// stubCache is a map-backed cache that ignores TTLs.
type stubCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error
	sets   int
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string][]byte)}
}

func (c *stubCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	v, ok := c.data[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return v, nil
}

func (c *stubCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	return nil
}

func (c *stubCache) Close() error { return nil }

func (c *stubCache) setCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets
}

// memoryRepo assigns sequential ids starting at 1.
type memoryRepo struct {
	mu      sync.Mutex
	items   map[int64]domain.Item
	next    int64
	creates int
	err     error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[int64]domain.Item)}
}

func (r *memoryRepo) Create(ctx context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.err != nil {
		return r.err
	}
	r.next++
	item.ID = r.next
	r.items[item.ID] = *item
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, repository.ErrItemNotFound
	}
	return &item, nil
}

// fixedName always generates the same name.
type fixedName string

func (n fixedName) Generate() (string, error) { return string(n), nil }

func redisConfigFor(t *testing.T, addr string) config.RedisConfig {
	t.Helper()
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return config.RedisConfig{Host: host, Port: p}
}

func strPtr(s string) *string { return &s }
