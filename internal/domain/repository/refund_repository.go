package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrRefundRequestNotFound is returned when a refund request does not exist.
var ErrRefundRequestNotFound = errors.New("refund request not found")

// RefundRequestRepository defines persistence for refund requests.
type RefundRequestRepository interface {
	// FindByID retrieves a single refund request.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.RefundRequest, error)

	// HasPendingForPurchase reports whether a pending request already exists
	// for the purchase. At most one may be pending at a time.
	HasPendingForPurchase(ctx context.Context, purchaseID uuid.UUID) (bool, error)

	// ListByStatus retrieves requests in the given state, oldest first.
	ListByStatus(ctx context.Context, status entity.RefundRequestStatus) ([]*entity.RefundRequest, error)

	// Create persists a new refund request.
	Create(ctx context.Context, request *entity.RefundRequest) error

	// Update persists a decision transition (status, notes, decision date).
	Update(ctx context.Context, request *entity.RefundRequest) error
}
