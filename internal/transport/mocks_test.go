package transport

import (
	"context"
	"net/http"

	"dominik-store/internal/catalog"
	"dominik-store/internal/domain"
	"dominik-store/internal/middleware"
	"dominik-store/internal/repository"
	"dominik-store/internal/service"

	"github.com/google/uuid"
)

// mockCatalogService records the last filter and serves canned answers
type mockCatalogService struct {
	page       *catalog.Page
	products   map[uuid.UUID]domain.Product
	categories []domain.Category
	err        error
	lastSpec   *catalog.FilterSpec
	listCalls  int
}

func (m *mockCatalogService) ListProducts(ctx context.Context, spec catalog.FilterSpec) (*catalog.Page, error) {
	m.listCalls++
	m.lastSpec = &spec
	if m.err != nil {
		return nil, m.err
	}
	if m.page == nil {
		return &catalog.Page{Products: []domain.Product{}}, nil
	}
	return m.page, nil
}

func (m *mockCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (m *mockCatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.categories, nil
}

// mockWishlistService keeps wishlists in memory keyed by user id
type mockWishlistService struct {
	known map[uuid.UUID]domain.Product
	items map[string][]uuid.UUID
	err   error
}

func newMockWishlistService(products ...domain.Product) *mockWishlistService {
	m := &mockWishlistService{
		known: make(map[uuid.UUID]domain.Product),
		items: make(map[string][]uuid.UUID),
	}
	for _, p := range products {
		m.known[p.ID] = p
	}
	return m
}

func (m *mockWishlistService) List(ctx context.Context, caller domain.Caller) ([]domain.Product, error) {
	if !caller.Identified() {
		return nil, service.ErrAnonymousCaller
	}
	if m.err != nil {
		return nil, m.err
	}
	products := []domain.Product{}
	for _, id := range m.items[caller.UserID] {
		products = append(products, m.known[id])
	}
	return products, nil
}

func (m *mockWishlistService) Add(ctx context.Context, caller domain.Caller, productID uuid.UUID) (*domain.WishlistItem, error) {
	if !caller.Identified() {
		return nil, service.ErrAnonymousCaller
	}
	if m.err != nil {
		return nil, m.err
	}
	if _, ok := m.known[productID]; !ok {
		return nil, repository.ErrProductNotFound
	}
	for _, id := range m.items[caller.UserID] {
		if id == productID {
			return &domain.WishlistItem{UserID: caller.UserID, ProductID: productID}, nil
		}
	}
	m.items[caller.UserID] = append(m.items[caller.UserID], productID)
	return &domain.WishlistItem{UserID: caller.UserID, ProductID: productID}, nil
}

func (m *mockWishlistService) Remove(ctx context.Context, caller domain.Caller, productID uuid.UUID) error {
	if !caller.Identified() {
		return service.ErrAnonymousCaller
	}
	if m.err != nil {
		return m.err
	}
	ids := m.items[caller.UserID]
	for i, id := range ids {
		if id == productID {
			m.items[caller.UserID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return repository.ErrWishlistItemNotFound
}

// asCaller stands in for IdentifyCaller in handler tests
func asCaller(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := domain.AnonymousCaller()
			if userID != "" {
				caller = domain.Caller{UserID: userID}
			}
			next.ServeHTTP(w, r.WithContext(middleware.WithCaller(r.Context(), caller)))
		})
	}
}

func strPtr(s string) *string { return &s }
