package entity

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem is a (user, product) unique bookmark. Wishlist rows drive
// the discount notification mails sent when a sales admin discounts a product.
type WishlistItem struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	CreatedAt time.Time
}
