package service

import (
	"context"

	"dominik-store/internal/catalog"
	"dominik-store/internal/metrics"

	"go.uber.org/zap"
)

// PageCache is the storage the caching decorator needs
type PageCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any) error
}

type cachedCatalogService struct {
	CatalogService
	cache   PageCache
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewCachedCatalogService wraps next so product listings are served from cache
// when an equivalent FilterSpec was answered recently. Cache failures degrade
// to uncached reads. Random orderings are never cached.
func NewCachedCatalogService(next CatalogService, cache PageCache, m *metrics.Metrics, logger *zap.Logger) CatalogService {
	return &cachedCatalogService{
		CatalogService: next,
		cache:          cache,
		metrics:        m,
		logger:         logger,
	}
}

func (s *cachedCatalogService) ListProducts(ctx context.Context, spec catalog.FilterSpec) (*catalog.Page, error) {
	if spec.Sort == catalog.SortRandom {
		return s.CatalogService.ListProducts(ctx, spec)
	}

	key := spec.Key()

	var cached catalog.Page
	found, err := s.cache.GetJSON(ctx, key, &cached)
	switch {
	case err != nil:
		s.logger.Warn("Catalog cache read failed", zap.String("key", key), zap.Error(err))
		s.metrics.RecordCacheLookup(metrics.CacheError)
	case found:
		s.metrics.RecordCacheLookup(metrics.CacheHit)
		s.metrics.RecordCatalogQuery(spec.FeedMode())
		return &cached, nil
	default:
		s.metrics.RecordCacheLookup(metrics.CacheMiss)
	}

	page, err := s.CatalogService.ListProducts(ctx, spec)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, key, page); err != nil {
		s.logger.Warn("Catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
	return page, nil
}
