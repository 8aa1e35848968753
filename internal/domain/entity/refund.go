package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefundRequestStatus is the decision state of a refund request.
// pending is the only non-terminal state.
type RefundRequestStatus string

const (
	RefundRequestPending  RefundRequestStatus = "pending"
	RefundRequestApproved RefundRequestStatus = "approved"
	RefundRequestRejected RefundRequestStatus = "rejected"
)

// IsTerminal reports whether the request has already been decided.
func (s RefundRequestStatus) IsTerminal() bool {
	return s == RefundRequestApproved || s == RefundRequestRejected
}

// RefundRequest references one Purchase and snapshots the quantity and amount
// being refunded. At most one pending request may exist per purchase.
type RefundRequest struct {
	ID         uuid.UUID
	PurchaseID uuid.UUID
	UserID     uuid.UUID
	ProductID  uuid.UUID
	Quantity   int     // Snapshot of the purchased quantity.
	Amount     float64 // Snapshot of the purchase line total.
	Reason     string
	Status     RefundRequestStatus
	AdminNotes string
	// DecidedAt is set when the request transitions to approved or rejected.
	DecidedAt *time.Time
	CreatedAt time.Time
}
