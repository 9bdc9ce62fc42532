package repository

import (
	"context"
	"database/sql"

	"dominik-store/internal/domain"
)

// CategoryRepository derives the category tree from the labels products carry
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// List returns every category ordered by name, each with its subcategories
// and product counts. Blank subcategories count toward the category only.
func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	query := `
		SELECT category, subcategory, COUNT(*)
		FROM products
		GROUP BY category, subcategory
		ORDER BY category ASC, subcategory ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeError("list categories", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var name, sub string
		var count int
		if err := rows.Scan(&name, &sub, &count); err != nil {
			return nil, storeError("list categories", err)
		}

		if len(categories) == 0 || categories[len(categories)-1].Name != name {
			categories = append(categories, domain.Category{Name: name, Subcategories: []domain.Subcategory{}})
		}
		current := &categories[len(categories)-1]
		current.ProductCount += count
		if sub != "" {
			current.Subcategories = append(current.Subcategories, domain.Subcategory{Name: sub, ProductCount: count})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("list categories", err)
	}

	return categories, nil
}
