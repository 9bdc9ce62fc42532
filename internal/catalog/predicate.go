package catalog

import (
	"strconv"
	"strings"
)

// Dimension names the filter dimension a predicate was compiled from
type Dimension string

const (
	DimAll         Dimension = "all"
	DimCategory    Dimension = "category"
	DimSubcategory Dimension = "subcategory"
	DimDiscount    Dimension = "discount"
	DimBrand       Dimension = "brand"
	DimMaterial    Dimension = "material"
	DimColor       Dimension = "color"
	DimCountry     Dimension = "country"
	DimSize        Dimension = "size"
	DimPrice       Dimension = "price"
	DimSearch      Dimension = "search"
	DimMinReviews  Dimension = "min_reviews"
)

// Predicate is one boolean SQL fragment with "?" placeholders and the values
// bound to them, in order
type Predicate struct {
	Dimension Dimension
	SQL       string
	Args      []any
}

// universal matches every product
var universal = Predicate{Dimension: DimAll, SQL: "TRUE"}

// Compile turns a filter into predicates to be AND-ed together. A filter with no
// active dimension compiles to the single universal predicate.
//
// Colors and sizes are matched by substring against the serialized list while
// brand, material and country use exact membership. Storefront clients rely
// on the containment behaviour ("Черн" matches "Черный"), so it is kept even
// though it is inconsistent with the other list-like dimensions.
func Compile(spec FilterSpec) []Predicate {
	var preds []Predicate

	if spec.Category != nil {
		preds = append(preds, equals(DimCategory, "category", *spec.Category))
	}
	if spec.Subcategory != nil {
		preds = append(preds, equals(DimSubcategory, "subcategory", *spec.Subcategory))
	}
	if spec.Discount {
		preds = append(preds, Predicate{
			Dimension: DimDiscount,
			SQL:       "COALESCE(discount, '') <> ''",
		})
	}
	if len(spec.Brands) > 0 {
		preds = append(preds, in(DimBrand, "brand", spec.Brands))
	}
	if len(spec.Materials) > 0 {
		preds = append(preds, in(DimMaterial, "material", spec.Materials))
	}
	if len(spec.Countries) > 0 {
		preds = append(preds, in(DimCountry, "country", spec.Countries))
	}
	if len(spec.Colors) > 0 {
		preds = append(preds, containsAny(DimColor, "colors", spec.Colors))
	}
	if spec.Size != nil {
		preds = append(preds, containsAny(DimSize, "sizes", []string{*spec.Size}))
	}
	if len(spec.PriceRanges) > 0 {
		preds = append(preds, priceBands(spec.PriceRanges))
	}
	if spec.Search != nil {
		preds = append(preds, Predicate{
			Dimension: DimSearch,
			SQL:       `name ILIKE ? ESCAPE '\'`,
			Args:      []any{likePattern(*spec.Search)},
		})
	}
	if spec.MinReviews != nil {
		preds = append(preds, Predicate{
			Dimension: DimMinReviews,
			SQL:       "COALESCE(reviews, 0) >= ?::bigint",
			Args:      []any{*spec.MinReviews},
		})
	}

	if len(preds) == 0 {
		return []Predicate{universal}
	}
	return preds
}

func equals(dim Dimension, column, value string) Predicate {
	return Predicate{Dimension: dim, SQL: column + " = ?", Args: []any{value}}
}

func in(dim Dimension, column string, values []string) Predicate {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	return Predicate{Dimension: dim, SQL: column + " IN (" + marks + ")", Args: args}
}

func containsAny(dim Dimension, column string, values []string) Predicate {
	clauses := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		clauses[i] = "COALESCE(" + column + `, '') LIKE ? ESCAPE '\'`
		args[i] = likePattern(v)
	}
	return Predicate{Dimension: dim, SQL: group(clauses), Args: args}
}

// priceBands ORs every requested band together
func priceBands(ranges []PriceRange) Predicate {
	var clauses []string
	var args []any
	for _, r := range ranges {
		switch {
		case r.Min != nil && r.Max != nil:
			clauses = append(clauses, "price BETWEEN ? AND ?")
			args = append(args, *r.Min, *r.Max)
		case r.Min != nil:
			clauses = append(clauses, "price >= ?")
			args = append(args, *r.Min)
		case r.Max != nil:
			clauses = append(clauses, "price <= ?")
			args = append(args, *r.Max)
		}
	}
	return Predicate{Dimension: DimPrice, SQL: group(clauses), Args: args}
}

func group(clauses []string) string {
	if len(clauses) == 1 {
		return clauses[0]
	}
	return "(" + strings.Join(clauses, " OR ") + ")"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// Where joins predicates with AND and rewrites placeholders to $n, numbering
// from firstArg. Arguments are returned in placeholder order, so any ordering
// of preds yields an equivalent clause.
func Where(preds []Predicate, firstArg int) (string, []any) {
	if len(preds) == 0 {
		return universal.SQL, nil
	}

	var b strings.Builder
	var args []any
	n := firstArg
	for i, p := range preds {
		if i > 0 {
			b.WriteString(" AND ")
		}
		for _, r := range p.SQL {
			if r != '?' {
				b.WriteRune(r)
				continue
			}
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			n++
		}
		args = append(args, p.Args...)
	}
	return b.String(), args
}
