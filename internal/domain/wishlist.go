package domain

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem is a product saved by a user
type WishlistItem struct {
	UserID    string    `json:"userId"`
	ProductID uuid.UUID `json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}
