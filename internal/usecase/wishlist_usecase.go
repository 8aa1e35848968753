package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// WishlistItemOutput is one wishlist entry joined with its product.
type WishlistItemOutput struct {
	Item    *entity.WishlistItem
	Product *entity.Product
}

// WishlistUsecase defines the wishlist operations.
type WishlistUsecase interface {
	// Add bookmarks a product for the user. The (user, product) pair is
	// unique; a repeat add is a conflict.
	Add(ctx context.Context, userID, productID uuid.UUID) error

	// Remove deletes the bookmark.
	Remove(ctx context.Context, userID, productID uuid.UUID) error

	// List returns the user's wishlist joined with product details.
	List(ctx context.Context, userID uuid.UUID) ([]*WishlistItemOutput, error)
}
