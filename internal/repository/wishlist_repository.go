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
	"github.com/jackc/pgx/v5/pgconn"
)

// foreignKeyViolation is the SQLSTATE postgres reports when a referenced row is missing
const foreignKeyViolation = "23503"

var ErrWishlistItemNotFound = errors.New("wishlist item not found")

// WishlistRepository stores the products each user has saved
type WishlistRepository interface {
	// Add is idempotent. The returned item carries the original save time.
	// A product that does not exist yields ErrProductNotFound.
	Add(ctx context.Context, userID string, productID uuid.UUID) (*domain.WishlistItem, error)
	Remove(ctx context.Context, userID string, productID uuid.UUID) error
	// ListProducts returns the saved products, most recently saved first
	ListProducts(ctx context.Context, userID string) ([]catalog.Row, error)
}

type wishlistRepository struct {
	db *sql.DB
}

// NewWishlistRepository creates a new instance of WishlistRepository
func NewWishlistRepository(db *sql.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) Add(ctx context.Context, userID string, productID uuid.UUID) (*domain.WishlistItem, error) {
	query := `
		WITH inserted AS (
			INSERT INTO wishlist_items (user_id, product_id, created_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, product_id) DO NOTHING
			RETURNING created_at
		)
		SELECT created_at FROM inserted
		UNION ALL
		SELECT created_at FROM wishlist_items WHERE user_id = $1 AND product_id = $2
		LIMIT 1
	`

	item := &domain.WishlistItem{UserID: userID, ProductID: productID}
	err := r.db.QueryRowContext(ctx, query, userID, productID, time.Now().UTC()).Scan(&item.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return nil, ErrProductNotFound
		}
		return nil, storeError("add wishlist item", err)
	}
	return item, nil
}

func (r *wishlistRepository) Remove(ctx context.Context, userID string, productID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return storeError("remove wishlist item", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storeError("remove wishlist item", fmt.Errorf("rows affected: %w", err))
	}
	if rowsAffected == 0 {
		return ErrWishlistItemNotFound
	}
	return nil
}

func (r *wishlistRepository) ListProducts(ctx context.Context, userID string) ([]catalog.Row, error) {
	query := `
		SELECT p.id, p.name, p.category, p.subcategory, p.price, p.old_price, p.discount,
			p.images, p.colors, p.sizes, p.brand, p.material, p.country, p.rating, p.reviews, p.created_at
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC, p.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, storeError("list wishlist", err)
	}
	return collectRows(rows, "list wishlist")
}
