package service

import (
	"context"
	"errors"
	"fmt"

	"dominik-store/internal/domain"
	"dominik-store/internal/metrics"
	"dominik-store/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrAnonymousCaller = errors.New("caller is not identified")

// WishlistService manages the products a caller has saved
type WishlistService interface {
	List(ctx context.Context, caller domain.Caller) ([]domain.Product, error)
	Add(ctx context.Context, caller domain.Caller, productID uuid.UUID) (*domain.WishlistItem, error)
	Remove(ctx context.Context, caller domain.Caller, productID uuid.UUID) error
}

type wishlistService struct {
	wishlist repository.WishlistRepository
	products repository.ProductRepository
	decoder  rowDecoder
}

// NewWishlistService creates a new instance of WishlistService
func NewWishlistService(
	wishlist repository.WishlistRepository,
	products repository.ProductRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) WishlistService {
	return &wishlistService{
		wishlist: wishlist,
		products: products,
		decoder:  rowDecoder{logger: logger, metrics: m},
	}
}

func (s *wishlistService) List(ctx context.Context, caller domain.Caller) ([]domain.Product, error) {
	if !caller.Identified() {
		return nil, ErrAnonymousCaller
	}

	rows, err := s.wishlist.ListProducts(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return s.decoder.decodeRows(rows), nil
}

// Add saves productID for the caller. Saving an already saved product is not an error.
func (s *wishlistService) Add(ctx context.Context, caller domain.Caller, productID uuid.UUID) (*domain.WishlistItem, error) {
	if !caller.Identified() {
		return nil, ErrAnonymousCaller
	}

	exists, err := s.products.Exists(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}
	if !exists {
		return nil, repository.ErrProductNotFound
	}

	item, err := s.wishlist.Add(ctx, caller.UserID, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to add wishlist item: %w", err)
	}
	return item, nil
}

func (s *wishlistService) Remove(ctx context.Context, caller domain.Caller, productID uuid.UUID) error {
	if !caller.Identified() {
		return ErrAnonymousCaller
	}

	if err := s.wishlist.Remove(ctx, caller.UserID, productID); err != nil {
		if errors.Is(err, repository.ErrWishlistItemNotFound) {
			return err
		}
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	return nil
}
