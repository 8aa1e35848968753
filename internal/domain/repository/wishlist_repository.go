package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrWishlistItemNotFound is returned when a wishlist item does not exist.
var ErrWishlistItemNotFound = errors.New("wishlist item not found")

// WishlistRepository defines persistence for wishlist bookmarks.
// The (user, product) pair is unique.
type WishlistRepository interface {
	// ListByUser retrieves a user's wishlist.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.WishlistItem, error)

	// ListByProduct retrieves every wishlist entry for a product
	// (discount notification fan-out).
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.WishlistItem, error)

	// Create persists a new wishlist item.
	Create(ctx context.Context, item *entity.WishlistItem) error

	// Delete removes the (user, product) wishlist entry.
	Delete(ctx context.Context, userID, productID uuid.UUID) error
}
