package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrProductNotFound is returned when a product does not exist.
var ErrProductNotFound = errors.New("product not found")

// ErrInsufficientStock is returned when a reservation would drive stock
// below zero. The conditional update guarantees no observer ever sees a
// negative count.
var ErrInsufficientStock = errors.New("insufficient stock")

// ProductFilter narrows catalog queries.
type ProductFilter struct {
	Category string
	Search   string // Case-insensitive match on name or description.
	// PricedOnly excludes products whose pricing is still pending.
	// Every customer-facing query sets it.
	PricedOnly bool
}

// ProductRepository defines catalog persistence including the inventory
// ledger operations. ReserveStock and ReleaseStock are the only writers of
// Product.Stock.
type ProductRepository interface {
	// FindByID retrieves a single product by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// List retrieves products matching the filter.
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)

	// Create persists a new product.
	Create(ctx context.Context, product *entity.Product) error

	// Update modifies an existing product (price, discount, metadata).
	Update(ctx context.Context, product *entity.Product) error

	// Delete removes a product from the catalog.
	Delete(ctx context.Context, id uuid.UUID) error

	// ReserveStock atomically checks stock >= qty and decrements it as a
	// single conditional update. Returns ErrInsufficientStock when the check
	// fails and ErrProductNotFound when the product does not exist.
	ReserveStock(ctx context.Context, id uuid.UUID, qty int) error

	// ReleaseStock increments stock by qty. Invoked at most once per refund
	// request transition into approved.
	ReleaseStock(ctx context.Context, id uuid.UUID, qty int) error

	// AdjustStock adds delta to stock, guarded so the result never goes
	// negative. Used by back-office restocking.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error

	// UpdateAverageRating stores the recomputed mean rating.
	UpdateAverageRating(ctx context.Context, id uuid.UUID, average float64) error
}
