package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"dominik-store/internal/catalog"
	"dominik-store/internal/domain"
	"dominik-store/internal/repository"

	"github.com/google/uuid"
)

// mockProductRepository answers every query with the same rows and total
type mockProductRepository struct {
	mu         sync.Mutex
	rows       []catalog.Row
	total      int
	err        error
	queryCalls int
	countCalls int
	lastQuery  catalog.Query
}

func (m *mockProductRepository) Query(ctx context.Context, q catalog.Query) ([]catalog.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryCalls++
	m.lastQuery = q
	if m.err != nil {
		return nil, m.err
	}
	rows := m.rows
	if q.Plan.Limit < len(rows) {
		rows = rows[:q.Plan.Limit]
	}
	return rows, nil
}

func (m *mockProductRepository) Count(ctx context.Context, q catalog.Query) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countCalls++
	if m.err != nil {
		return 0, m.err
	}
	return m.total, nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Row, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.rows {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := m.FindByID(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.rows = append(m.rows, rowFor(*product))
	return nil
}

type mockCategoryRepository struct {
	categories []domain.Category
	err        error
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	return m.categories, m.err
}

type wishlistKey struct {
	userID    string
	productID uuid.UUID
}

type mockWishlistRepository struct {
	products *mockProductRepository
	items    map[wishlistKey]*domain.WishlistItem
	order    []wishlistKey
	addErr   error
}

func newMockWishlistRepository(products *mockProductRepository) *mockWishlistRepository {
	return &mockWishlistRepository{products: products, items: make(map[wishlistKey]*domain.WishlistItem)}
}

func (m *mockWishlistRepository) Add(ctx context.Context, userID string, productID uuid.UUID) (*domain.WishlistItem, error) {
	if m.addErr != nil {
		return nil, m.addErr
	}
	key := wishlistKey{userID, productID}
	if item, ok := m.items[key]; ok {
		return item, nil
	}
	item := &domain.WishlistItem{UserID: userID, ProductID: productID}
	m.items[key] = item
	m.order = append(m.order, key)
	return item, nil
}

func (m *mockWishlistRepository) Remove(ctx context.Context, userID string, productID uuid.UUID) error {
	key := wishlistKey{userID, productID}
	if _, ok := m.items[key]; !ok {
		return repository.ErrWishlistItemNotFound
	}
	delete(m.items, key)
	return nil
}

func (m *mockWishlistRepository) ListProducts(ctx context.Context, userID string) ([]catalog.Row, error) {
	rows := []catalog.Row{}
	for i := len(m.order) - 1; i >= 0; i-- {
		key := m.order[i]
		if _, ok := m.items[key]; !ok || key.userID != userID {
			continue
		}
		row, err := m.products.FindByID(ctx, key.productID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, *row)
	}
	return rows, nil
}

func rowFor(p domain.Product) catalog.Row {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return catalog.Row{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Subcategory: p.Subcategory,
		Price:       p.Price,
		Discount:    sql.NullString{String: deref(p.Discount), Valid: p.Discount != nil},
		Images:      sql.NullString{String: catalog.EncodeList(p.Images), Valid: true},
		Colors:      sql.NullString{String: catalog.EncodeList(p.Colors), Valid: true},
		Sizes:       sql.NullString{String: catalog.EncodeList(p.Sizes), Valid: true},
		Reviews:     sql.NullInt64{Int64: int64(p.Reviews), Valid: true},
	}
}

func brokenRow(name string) catalog.Row {
	r := rowFor(domain.Product{Name: name, Category: "Одежда", Price: 100})
	r.Colors = sql.NullString{String: "Черный, Белый", Valid: true}
	return r
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string { return &s }
