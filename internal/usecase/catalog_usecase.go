package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// ListProductsInput narrows the public catalog listing.
type ListProductsInput struct {
	Category string
	Search   string
}

// CreateProductInput defines the data required to create a catalog entry.
// Products are created unpriced; a sales admin prices them later.
type CreateProductInput struct {
	Code        string
	Name        string
	Category    string
	Description string
	Stock       int
}

// SetPriceInput moves a product from pending pricing to set.
type SetPriceInput struct {
	ProductID uuid.UUID
	Price     float64
}

// SetDiscountInput applies a percentage discount to a priced product.
type SetDiscountInput struct {
	ProductID uuid.UUID
	Rate      float64 // Percentage off, within (0, 100).
}

// RestockInput adjusts the stock level by a signed delta.
type RestockInput struct {
	ProductID uuid.UUID
	Delta     int
}

// CatalogUsecase defines catalog operations across all three audiences.
// Public reads exclude unpriced products; the back-office listing sees
// everything.
type CatalogUsecase interface {
	// ListProducts returns priced products matching the filter.
	ListProducts(ctx context.Context, input *ListProductsInput) ([]*entity.Product, error)

	// GetProduct returns one priced product for customer-facing detail pages.
	GetProduct(ctx context.Context, productID uuid.UUID) (*entity.Product, error)

	// ListAllProducts returns every product including those awaiting pricing.
	ListAllProducts(ctx context.Context, input *ListProductsInput) ([]*entity.Product, error)

	// CreateProduct adds an unpriced catalog entry.
	CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error)

	// DeleteProduct removes a catalog entry.
	DeleteProduct(ctx context.Context, productID uuid.UUID) error

	// Restock adjusts stock by a signed delta, never below zero.
	Restock(ctx context.Context, input *RestockInput) (*entity.Product, error)

	// SetPrice assigns the selling price and makes the product visible.
	SetPrice(ctx context.Context, input *SetPriceInput) (*entity.Product, error)

	// SetDiscount stores the discount rate and discounted price together and
	// notifies wishlist holders best-effort.
	SetDiscount(ctx context.Context, input *SetDiscountInput) (*entity.Product, error)

	// ClearDiscount removes the discount rate and discounted price together.
	ClearDiscount(ctx context.Context, productID uuid.UUID) (*entity.Product, error)
}
