package catalog

import (
	"fmt"
	"strings"
)

// ProductColumns is the column list every product read selects, in the order
// Row scanning expects
const ProductColumns = `id, name, category, subcategory, price, old_price, discount,
		images, colors, sizes, brand, material, country, rating, reviews, created_at`

// Query is a compiled catalog request ready to execute
type Query struct {
	SQL       string
	Args      []any
	CountSQL  string
	CountArgs []any
	Plan      Plan
}

// BuildQuery compiles the filter into a select statement and, for paged
// requests, a count statement sharing the same predicates
func BuildQuery(spec FilterSpec) Query {
	return Assemble(Compile(spec), PlanFor(spec))
}

// Assemble builds the statements for an already compiled predicate list
func Assemble(preds []Predicate, plan Plan) Query {
	where, args := Where(preds, 1)

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s\n\t\tFROM products\n\t\tWHERE %s\n\t\tORDER BY %s\n\t\tLIMIT $%d",
		ProductColumns, where, plan.OrderBy, len(args)+1)
	selectArgs := append(append([]any{}, args...), plan.Limit)
	if plan.Paged {
		fmt.Fprintf(&b, " OFFSET $%d", len(args)+2)
		selectArgs = append(selectArgs, plan.Offset)
	}

	q := Query{SQL: b.String(), Args: selectArgs, Plan: plan}
	if plan.Paged {
		q.CountSQL = "SELECT COUNT(*) FROM products WHERE " + where
		q.CountArgs = args
	}
	return q
}
