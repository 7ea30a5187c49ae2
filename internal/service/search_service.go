package service

import (
	"context"
	"errors"
	"time"

	"github.com/weiawesome/wes-dashboard/internal/cache"
	"github.com/weiawesome/wes-dashboard/internal/domain"
	"github.com/weiawesome/wes-dashboard/internal/index"
	"github.com/weiawesome/wes-dashboard/pkg/log"
)

// DefaultCacheTTL is how long a cached result set stays valid.
const DefaultCacheTTL = 15 * time.Second

type searchServiceImpl struct {
	index     index.Store
	cache     cache.ResultCache
	keyPrefix string
	cacheTTL  time.Duration
}

// NewSearchService creates a cache-aside search service. Results are cached
// under "<keyPrefix>:<query>" for cacheTTL.
func NewSearchService(store index.Store, resultCache cache.ResultCache, keyPrefix string, cacheTTL time.Duration) SearchService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &searchServiceImpl{
		index:     store,
		cache:     resultCache,
		keyPrefix: keyPrefix,
		cacheTTL:  cacheTTL,
	}
}

// CacheKey derives the cache key for a raw query. The query is used verbatim.
func CacheKey(prefix, query string) string {
	return prefix + ":" + query
}

// Search returns cached hits when present and decodable, otherwise queries
// the index and caches what it returned. Writes to the index never
// invalidate entries, so results can lag behind new items by up to the TTL.
func (s *searchServiceImpl) Search(ctx context.Context, query string) ([]domain.SearchHit, error) {
	key := CacheKey(s.keyPrefix, query)

	if hits, ok := s.cachedHits(ctx, key); ok {
		return hits, nil
	}

	docs, err := s.index.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	hits := make([]domain.SearchHit, 0, len(docs))
	for _, d := range docs {
		hits = append(hits, domain.NewSearchHit(d.ID, d.Document))
	}

	s.storeHits(ctx, key, hits)

	return hits, nil
}

// cachedHits reports a hit only for an entry that exists and decodes.
func (s *searchServiceImpl) cachedHits(ctx context.Context, key string) ([]domain.SearchHit, bool) {
	l := log.Ctx(ctx)

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		switch {
		case errors.Is(err, cache.ErrCacheMiss), errors.Is(err, cache.ErrCacheDisabled):
			l.Debug().Err(err).Str(log.FieldCacheKey, key).Msg("search cache miss")
		default:
			l.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("cache get error")
		}
		return nil, false
	}

	hits, err := domain.DecodeHits(data)
	if err != nil {
		l.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("discarding corrupt cache entry")
		return nil, false
	}

	l.Debug().Str(log.FieldCacheKey, key).Int(log.FieldHits, len(hits)).Msg("search cache hit")
	return hits, true
}

// storeHits populates the cache. Failures only cost a future index query.
func (s *searchServiceImpl) storeHits(ctx context.Context, key string, hits []domain.SearchHit) {
	l := log.Ctx(ctx)

	data, err := domain.EncodeHits(hits)
	if err != nil {
		l.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("failed to encode search hits")
		return
	}

	if err := s.cache.Set(context.WithoutCancel(ctx), key, data, s.cacheTTL); err != nil {
		if errors.Is(err, cache.ErrCacheDisabled) {
			return
		}
		l.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("cache set error")
	}
}
