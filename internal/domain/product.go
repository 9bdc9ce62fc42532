package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a product in the catalog
type Product struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Subcategory string     `json:"subcategory"`
	Price       int64      `json:"price"`
	OldPrice    *int64     `json:"oldPrice"`
	Discount    *string    `json:"discount"`
	Images      []string   `json:"images"`
	Colors      []string   `json:"colors"`
	Sizes       []string   `json:"sizes"`
	Brand       *string    `json:"brand"`
	Material    *string    `json:"material"`
	Country     *string    `json:"country"`
	Rating      float64    `json:"rating"`
	Reviews     int        `json:"reviews"`
	CreatedAt   *time.Time `json:"-"`
}

// HasDiscount reports whether the product carries a non-empty discount label
func (p Product) HasDiscount() bool {
	return p.Discount != nil && *p.Discount != ""
}

// Category is a category label together with the subcategories used under it
type Category struct {
	Name          string        `json:"name"`
	ProductCount  int           `json:"productCount"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Subcategory is a subcategory label with the number of products filed under it
type Subcategory struct {
	Name         string `json:"name"`
	ProductCount int    `json:"productCount"`
}
