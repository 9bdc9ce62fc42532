package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dominik-store/internal/catalog"
	"dominik-store/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
	errUnpagedCount    = errors.New("count requested for an unpaged query")
)

// StoreError reports a failure of the backing store itself, as opposed to a
// missing record. Handlers map it to 500.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// ProductRepository executes compiled catalog queries
type ProductRepository interface {
	Query(ctx context.Context, q catalog.Query) ([]catalog.Row, error)
	Count(ctx context.Context, q catalog.Query) (int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*catalog.Row, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, product *domain.Product) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(s rowScanner) (catalog.Row, error) {
	var r catalog.Row
	err := s.Scan(
		&r.ID,
		&r.Name,
		&r.Category,
		&r.Subcategory,
		&r.Price,
		&r.OldPrice,
		&r.Discount,
		&r.Images,
		&r.Colors,
		&r.Sizes,
		&r.Brand,
		&r.Material,
		&r.Country,
		&r.Rating,
		&r.Reviews,
		&r.CreatedAt,
	)
	return r, err
}

func collectRows(rows *sql.Rows, op string) ([]catalog.Row, error) {
	defer rows.Close()

	result := []catalog.Row{}
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, storeError(op, fmt.Errorf("scan product: %w", err))
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError(op, err)
	}
	return result, nil
}

// Query runs the select statement and returns the raw rows in store order
func (r *productRepository) Query(ctx context.Context, q catalog.Query) ([]catalog.Row, error) {
	rows, err := r.db.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, storeError("query products", err)
	}
	return collectRows(rows, "query products")
}

// Count returns how many products match the query's predicates
func (r *productRepository) Count(ctx context.Context, q catalog.Query) (int, error) {
	if q.CountSQL == "" {
		return 0, errUnpagedCount
	}

	var total int
	if err := r.db.QueryRowContext(ctx, q.CountSQL, q.CountArgs...).Scan(&total); err != nil {
		return 0, storeError("count products", err)
	}
	return total, nil
}

// FindByID retrieves a single product row
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Row, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE id = $1
	`, catalog.ProductColumns)

	row, err := scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, storeError("find product by ID", err)
	}
	return &row, nil
}

func (r *productRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, storeError("check product", err)
	}
	return exists, nil
}

// Create inserts a product, filling in ID and CreatedAt when unset
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.CreatedAt == nil {
		now := time.Now().UTC()
		product.CreatedAt = &now
	}

	query := `
		INSERT INTO products (id, name, category, subcategory, price, old_price, discount,
			images, colors, sizes, brand, material, country, rating, reviews, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Category,
		product.Subcategory,
		product.Price,
		product.OldPrice,
		product.Discount,
		catalog.EncodeList(product.Images),
		catalog.EncodeList(product.Colors),
		catalog.EncodeList(product.Sizes),
		product.Brand,
		product.Material,
		product.Country,
		product.Rating,
		product.Reviews,
		*product.CreatedAt,
	)
	if err != nil {
		return storeError("create product", err)
	}

	return nil
}
