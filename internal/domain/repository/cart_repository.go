package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrCartLineNotFound is returned when a cart line does not exist.
var ErrCartLineNotFound = errors.New("cart line not found")

// CartRepository defines persistence for shopping cart lines.
// The (user, product) pair is unique.
type CartRepository interface {
	// FindLine retrieves the line for a (user, product) pair.
	FindLine(ctx context.Context, userID, productID uuid.UUID) (*entity.CartLine, error)

	// ListByUser retrieves all cart lines of a user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CartLine, error)

	// Create persists a new cart line.
	Create(ctx context.Context, line *entity.CartLine) error

	// UpdateQuantity sets the quantity of an existing line.
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error

	// Delete removes a single cart line.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByUser removes every cart line of a user (successful checkout).
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
