package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dominik-store/internal/catalog"
	"dominik-store/internal/domain"
	"dominik-store/internal/metrics"
	"dominik-store/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService answers storefront catalog queries
type CatalogService interface {
	ListProducts(ctx context.Context, spec catalog.FilterSpec) (*catalog.Page, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

type catalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	decoder    rowDecoder
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService. m may be nil.
func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		products:   products,
		categories: categories,
		decoder:    rowDecoder{logger: logger, metrics: m},
		metrics:    m,
		logger:     logger,
	}
}

// ListProducts compiles spec, executes it and shapes the result. Paged
// requests count first; when the requested page lies past the end the select
// is skipped.
func (s *catalogService) ListProducts(ctx context.Context, spec catalog.FilterSpec) (*catalog.Page, error) {
	q := catalog.BuildQuery(spec)

	total := 0
	if q.Plan.Paged {
		start := time.Now()
		n, err := s.products.Count(ctx, q)
		s.metrics.ObserveStore("count", start)
		if err != nil {
			return nil, fmt.Errorf("failed to count products: %w", err)
		}
		total = n
	}

	var rows []catalog.Row
	if !q.Plan.Paged || q.Plan.Offset < total {
		start := time.Now()
		var err error
		rows, err = s.products.Query(ctx, q)
		s.metrics.ObserveStore("query", start)
		if err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}
	}

	s.metrics.RecordCatalogQuery(spec.FeedMode())

	page := catalog.NewPage(s.decoder.decodeRows(rows), q.Plan, total)
	return &page, nil
}

// GetProduct returns one product. A stored product that cannot be decoded is
// reported as not found.
func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	start := time.Now()
	row, err := s.products.FindByID(ctx, id)
	s.metrics.ObserveStore("find", start)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	p, err := s.decoder.decode(*row)
	if err != nil {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	start := time.Now()
	categories, err := s.categories.List(ctx)
	s.metrics.ObserveStore("categories", start)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
