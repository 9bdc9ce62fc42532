package catalog

import "dominik-store/internal/domain"

// Page is the response envelope for both paged and feed requests. In feed
// mode TotalPages is 1 when anything was returned and 0 otherwise.
type Page struct {
	Products   []domain.Product `json:"products"`
	TotalPages int              `json:"totalPages"`
}

// NewPage wraps decoded products. total is the store's match count and is
// ignored for feed plans.
func NewPage(products []domain.Product, plan Plan, total int) Page {
	if products == nil {
		products = []domain.Product{}
	}

	if !plan.Paged {
		pages := 0
		if len(products) > 0 {
			pages = 1
		}
		return Page{Products: products, TotalPages: pages}
	}

	return Page{Products: products, TotalPages: TotalPages(total, plan.Limit)}
}
