package transport

import (
	"errors"
	"net/http"

	"dominik-store/internal/catalog"
	"dominik-store/internal/domain"
	"dominik-store/internal/middleware"
	"dominik-store/internal/repository"
	"dominik-store/internal/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoriesResponse wraps the category tree
type CategoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

// ProductHandler handles HTTP requests for catalog reads
type ProductHandler struct {
	catalog service.CatalogService
	options catalog.Options
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService service.CatalogService, options catalog.Options, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalogService,
		options: options,
		logger:  logger,
	}
}

// RegisterRoutes registers all catalog routes. They are public.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)
	})
	r.Get("/api/categories", h.ListCategories)
}

// ListProducts handles filtered, sorted and paginated product listings
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	spec, ignored := catalog.ParseFilter(r.URL.Query(), h.options)
	for _, name := range ignored {
		h.logger.Debug("Ignoring query parameter",
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.String("param", name),
			zap.String("value", r.URL.Query().Get(name)),
		)
	}

	page, err := h.catalog.ListProducts(r.Context(), spec)
	if err != nil {
		h.logger.Error("Failed to list products",
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.String("query", r.URL.RawQuery),
			zap.Error(err),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, page)
}

// GetProduct handles single product lookups. Ids that are not UUIDs cannot
// name a product and are reported as not found.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.String("product_id", id.String()), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// ListCategories returns every category with its subcategories
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	if categories == nil {
		categories = []domain.Category{}
	}

	middleware.RespondWithJSON(w, http.StatusOK, CategoriesResponse{Categories: categories})
}
