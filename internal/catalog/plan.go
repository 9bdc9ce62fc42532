package catalog

// Plan is the ordering and windowing applied to a filtered product set
type Plan struct {
	OrderBy string
	Limit   int
	Offset  int
	// Paged plans need a count query to report totalPages
	Paged bool
}

// discountValue is the first run of digits in the discount label, 0 when the
// label is absent or has no digits. "-69%" sorts as 69. numeric takes runs of
// any length.
const discountValue = `COALESCE(substring(discount FROM '[0-9]+')::numeric, 0)`

// orderings always end on id so equal sort keys still have a stable order
var orderings = map[SortMode]string{
	SortNewest:       "created_at DESC NULLS LAST, id ASC",
	SortPriceDesc:    "price DESC, id ASC",
	SortPriceAsc:     "price ASC, id ASC",
	SortDiscountDesc: discountValue + " DESC, id ASC",
	SortReviewsDesc:  "COALESCE(reviews, 0) DESC, id ASC",
	SortRandom:       "random()",
}

// PlanFor picks ordering and LIMIT/OFFSET for a filter
func PlanFor(spec FilterSpec) Plan {
	order, ok := orderings[spec.Sort]
	if !ok {
		order = orderings[SortNewest]
	}

	if spec.FeedMode() {
		return Plan{OrderBy: order, Limit: *spec.Limit}
	}

	page := max(spec.Page, 1)
	return Plan{
		OrderBy: order,
		Limit:   spec.PageSize,
		Offset:  (page - 1) * spec.PageSize,
		Paged:   true,
	}
}

// TotalPages is ceil(total / pageSize)
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
