package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RequestRefundInput opens a refund request for one purchase line.
type RequestRefundInput struct {
	PurchaseID uuid.UUID
	UserID     uuid.UUID
	Reason     string
}

// DecideRefundInput carries a sales-admin decision on a pending request.
type DecideRefundInput struct {
	RequestID uuid.UUID
	Notes     string
}

// RefundUsecase defines the refund request and decision operations.
type RefundUsecase interface {
	// Request opens a refund request. The purchase must belong to the user,
	// be delivered within the trailing refund window, and have no pending
	// request already.
	Request(ctx context.Context, input *RequestRefundInput) (*entity.RefundRequest, error)

	// ListPending returns the undecided requests, oldest first.
	ListPending(ctx context.Context) ([]*entity.RefundRequest, error)

	// Approve decides a pending request: restores the reserved stock exactly
	// once, marks the purchase refunded and mails the buyer best-effort.
	Approve(ctx context.Context, input *DecideRefundInput) (*entity.RefundRequest, error)

	// Reject decides a pending request negatively and mails the buyer
	// best-effort. Stock is not touched.
	Reject(ctx context.Context, input *DecideRefundInput) (*entity.RefundRequest, error)
}
