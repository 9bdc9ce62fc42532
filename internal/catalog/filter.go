// Package catalog turns storefront query parameters into SQL against the
// products table and turns the resulting rows back into products.
//
// The pipeline is ParseFilter -> Compile + PlanFor -> BuildQuery -> DecodeRow.
// Every stage is a pure function; executing the statement is left to the
// repository package.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// SortMode is the normalized ordering requested by a caller
type SortMode string

const (
	SortNewest       SortMode = "newest"
	SortPriceDesc    SortMode = "price_desc"
	SortPriceAsc     SortMode = "price_asc"
	SortDiscountDesc SortMode = "discount_desc"
	SortRandom       SortMode = "random"
	SortReviewsDesc  SortMode = "reviews_desc"
)

// sortKeys maps every accepted sortBy/sort value to its mode. The Russian
// labels are what the shop page sends; the ASCII keys are used by feeds.
var sortKeys = map[string]SortMode{
	"Новинки":            SortNewest,
	"Сначала дороже":     SortPriceDesc,
	"Сначала дешевле":    SortPriceAsc,
	"По величине скидки": SortDiscountDesc,
	"newest":             SortNewest,
	"price_desc":         SortPriceDesc,
	"price_asc":          SortPriceAsc,
	"discount_desc":      SortDiscountDesc,
	"random":             SortRandom,
	"reviews_desc":       SortReviewsDesc,
}

// PriceRange is one price band. A nil bound is open-ended.
type PriceRange struct {
	Min *int64 `json:"min,omitempty"`
	Max *int64 `json:"max,omitempty"`
}

// FilterSpec is the typed, normalized form of a catalog query.
//
// Multi-value dimensions are sorted and de-duplicated so that two requests
// with the same meaning produce equal specs and therefore equal cache keys.
type FilterSpec struct {
	Category    *string      `json:"category,omitempty"`
	Subcategory *string      `json:"subcategory,omitempty"`
	Discount    bool         `json:"discount,omitempty"`
	Brands      []string     `json:"brands,omitempty"`
	Materials   []string     `json:"materials,omitempty"`
	Colors      []string     `json:"colors,omitempty"`
	Countries   []string     `json:"countries,omitempty"`
	Size        *string      `json:"size,omitempty"`
	PriceRanges []PriceRange `json:"priceRanges,omitempty"`
	Search      *string      `json:"search,omitempty"`
	MinReviews  *int         `json:"minReviews,omitempty"`
	Sort        SortMode     `json:"sort"`
	Page        int          `json:"page"`
	PageSize    int          `json:"pageSize"`
	Limit       *int         `json:"limit,omitempty"`
}

// FeedMode reports whether the filter asks for a single capped page without a
// total count
func (s FilterSpec) FeedMode() bool {
	return s.Limit != nil
}

// Key returns the cache key for the filter. Equal filters always share a key.
func (s FilterSpec) Key() string {
	// FilterSpec holds no maps, so encoding/json output is stable
	b, _ := json.Marshal(s)
	sum := sha256.Sum256(b)
	return "catalog:products:" + hex.EncodeToString(sum[:])
}

// Options bounds the sizes a caller may request
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
	MaxFeedLimit    int
}

// DefaultOptions returns the limits used when none are configured
func DefaultOptions() Options {
	return Options{
		DefaultPageSize: 20,
		MaxPageSize:     100,
		MaxFeedLimit:    100,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.DefaultPageSize <= 0 {
		o.DefaultPageSize = d.DefaultPageSize
	}
	if o.MaxPageSize <= 0 {
		o.MaxPageSize = d.MaxPageSize
	}
	if o.MaxFeedLimit <= 0 {
		o.MaxFeedLimit = d.MaxFeedLimit
	}
	if o.DefaultPageSize > o.MaxPageSize {
		o.DefaultPageSize = o.MaxPageSize
	}
	return o
}
