package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// AddCartItemInput adds (or merges) a product into the user's cart.
type AddCartItemInput struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

// UpdateCartItemInput replaces the quantity of an existing cart line.
type UpdateCartItemInput struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

// --- Output DTOs ---

// CartItemOutput is one cart line joined with its product for display.
type CartItemOutput struct {
	Line      *entity.CartLine
	Product   *entity.Product
	UnitPrice float64 // Effective unit price (discounted when applicable).
	LineTotal float64
}

// CartOutput is the full cart view with the running grand total.
type CartOutput struct {
	Items      []*CartItemOutput
	GrandTotal float64
}

// CartUsecase defines the shopping-cart operations.
type CartUsecase interface {
	// AddItem inserts a new line or merges into an existing one by summing
	// quantities. The product must exist and be priced.
	AddItem(ctx context.Context, input *AddCartItemInput) error

	// UpdateQuantity sets the quantity of an existing line to an absolute
	// value of at least 1.
	UpdateQuantity(ctx context.Context, input *UpdateCartItemInput) error

	// RemoveItem deletes the (user, product) line.
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error

	// ListCart returns the cart lines joined with products plus totals.
	ListCart(ctx context.Context, userID uuid.UUID) (*CartOutput, error)
}
