package transport

import (
	"errors"
	"net/http"

	"dominik-store/internal/domain"
	"dominik-store/internal/middleware"
	"dominik-store/internal/repository"
	"dominik-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddWishlistItemRequest represents the add-to-wishlist payload
type AddWishlistItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
}

// WishlistResponse lists the caller's saved products
type WishlistResponse struct {
	Products []domain.Product `json:"products"`
}

// WishlistHandler handles HTTP requests for the caller's wishlist
type WishlistHandler struct {
	wishlist service.WishlistService
	logger   *zap.Logger
}

// NewWishlistHandler creates a new WishlistHandler
func NewWishlistHandler(wishlistService service.WishlistService, logger *zap.Logger) *WishlistHandler {
	return &WishlistHandler{
		wishlist: wishlistService,
		logger:   logger,
	}
}

// RegisterRoutes registers the wishlist routes behind requireCaller
func (h *WishlistHandler) RegisterRoutes(r chi.Router, requireCaller func(http.Handler) http.Handler) {
	r.Route("/api/wishlist", func(r chi.Router) {
		r.Use(requireCaller)
		r.Get("/", h.List)
		r.Post("/", h.Add)
		r.Delete("/{productId}", h.Remove)
	})
}

func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.wishlist.List(r.Context(), middleware.CallerFrom(r.Context()))
	if err != nil {
		h.respondWithServiceError(w, err, "failed to list wishlist")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, WishlistResponse{Products: products})
}

func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddWishlistItemRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Wishlist validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.wishlist.Add(r.Context(), middleware.CallerFrom(r.Context()), uuid.MustParse(req.ProductID))
	if err != nil {
		h.respondWithServiceError(w, err, "failed to add wishlist item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, item)
}

func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "wishlist item not found")
		return
	}

	if err := h.wishlist.Remove(r.Context(), middleware.CallerFrom(r.Context()), productID); err != nil {
		h.respondWithServiceError(w, err, "failed to remove wishlist item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "removed from wishlist"})
}

func (h *WishlistHandler) respondWithServiceError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, service.ErrAnonymousCaller):
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, repository.ErrWishlistItemNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "wishlist item not found")
	default:
		h.logger.Error(message, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, message)
	}
}
