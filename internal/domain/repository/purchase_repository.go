package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrPurchaseNotFound is returned when a purchase line does not exist.
var ErrPurchaseNotFound = errors.New("purchase not found")

// PurchaseRepository defines persistence for order line items. Purchases are
// created only by the checkout workflow; their status fields are transitioned
// only by the order and refund workflows.
type PurchaseRepository interface {
	// FindByID retrieves a single purchase line.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error)

	// ListByUser retrieves all purchase lines of a user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Purchase, error)

	// ListByOrder retrieves all lines sharing one order identifier.
	ListByOrder(ctx context.Context, orderID string) ([]*entity.Purchase, error)

	// Create persists a new purchase line.
	Create(ctx context.Context, purchase *entity.Purchase) error

	// UpdateStatus sets the delivery status; deliveredAt is recorded when
	// the line reaches delivered.
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.DeliveryStatus, deliveredAt *time.Time) error

	// UpdateRefundStatus sets the refund annotation on the line.
	UpdateRefundStatus(ctx context.Context, id uuid.UUID, status entity.RefundStatus) error

	// ExistsByUserAndProduct reports whether the user has any purchase line
	// for the product, regardless of status (review proof-of-purchase).
	ExistsByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}
