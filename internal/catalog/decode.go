package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"dominik-store/internal/domain"

	"github.com/google/uuid"
)

// ErrRowDecode marks a stored product whose list-encoded fields do not parse.
// Such rows are dropped from listings rather than failing the request.
var ErrRowDecode = errors.New("row decode failure")

// Row is a products row as stored. Images, colors and sizes hold JSON arrays.
type Row struct {
	ID          uuid.UUID
	Name        string
	Category    string
	Subcategory string
	Price       int64
	OldPrice    sql.NullInt64
	Discount    sql.NullString
	Images      sql.NullString
	Colors      sql.NullString
	Sizes       sql.NullString
	Brand       sql.NullString
	Material    sql.NullString
	Country     sql.NullString
	Rating      sql.NullFloat64
	Reviews     sql.NullInt64
	CreatedAt   sql.NullTime
}

// DecodeError reports which field of which row failed to decode
type DecodeError struct {
	ProductID uuid.UUID
	Field     string
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s of product %s: %v", e.Field, e.ProductID, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrRowDecode, e.Err}
}

// DecodeRow reshapes a stored row into the public product representation
func DecodeRow(r Row) (domain.Product, error) {
	p := domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Price:       r.Price,
		Discount:    optionalText(r.Discount),
		Brand:       optionalText(r.Brand),
		Material:    optionalText(r.Material),
		Country:     optionalText(r.Country),
		Rating:      coerceRating(r.Rating),
		Reviews:     coerceReviews(r.Reviews),
	}

	if r.OldPrice.Valid && r.OldPrice.Int64 > 0 {
		old := r.OldPrice.Int64
		p.OldPrice = &old
	}
	if r.CreatedAt.Valid {
		created := r.CreatedAt.Time
		p.CreatedAt = &created
	}

	var err error
	if p.Images, err = decodeList(r.ID, "images", r.Images); err != nil {
		return domain.Product{}, err
	}
	if p.Colors, err = decodeList(r.ID, "colors", r.Colors); err != nil {
		return domain.Product{}, err
	}
	if p.Sizes, err = decodeList(r.ID, "sizes", r.Sizes); err != nil {
		return domain.Product{}, err
	}

	return p, nil
}

// EncodeList is the storage form of a list field. HTML escaping is off so
// containment filters see the labels exactly as written.
func EncodeList(values []string) string {
	if values == nil {
		values = []string{}
	}
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(values)
	return strings.TrimSuffix(b.String(), "\n")
}

func decodeList(id uuid.UUID, field string, raw sql.NullString) ([]string, error) {
	if !raw.Valid || strings.TrimSpace(raw.String) == "" {
		return []string{}, nil
	}

	var values []string
	if err := json.Unmarshal([]byte(raw.String), &values); err != nil {
		return nil, &DecodeError{ProductID: id, Field: field, Err: err}
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

func optionalText(s sql.NullString) *string {
	if !s.Valid || s.String == "" {
		return nil
	}
	v := s.String
	return &v
}

func coerceRating(f sql.NullFloat64) float64 {
	if !f.Valid || math.IsNaN(f.Float64) || math.IsInf(f.Float64, 0) {
		return 0
	}
	return math.Min(math.Max(f.Float64, 0), 5)
}

func coerceReviews(n sql.NullInt64) int {
	if !n.Valid || n.Int64 < 0 {
		return 0
	}
	return int(n.Int64)
}
