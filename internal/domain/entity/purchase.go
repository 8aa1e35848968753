package entity

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus is the fulfillment state of one purchase line.
// It moves forward through processing -> inTransit -> delivered;
// refunded is reachable only through refund approval.
type DeliveryStatus string

const (
	DeliveryProcessing DeliveryStatus = "processing"
	DeliveryInTransit  DeliveryStatus = "in-transit"
	DeliveryDelivered  DeliveryStatus = "delivered"
	DeliveryRefunded   DeliveryStatus = "refunded"
)

// IsValid checks if the DeliveryStatus is a valid value.
func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryProcessing, DeliveryInTransit, DeliveryDelivered, DeliveryRefunded:
		return true
	default:
		return false
	}
}

// Next returns the forward successor of the status, or "" when the status is
// terminal for manual advancement. Refunded is excluded: only the refund
// workflow may set it.
func (s DeliveryStatus) Next() DeliveryStatus {
	switch s {
	case DeliveryProcessing:
		return DeliveryInTransit
	case DeliveryInTransit:
		return DeliveryDelivered
	default:
		return ""
	}
}

// CanAdvanceTo reports whether a manual status update from s to next is a
// legal forward transition.
func (s DeliveryStatus) CanAdvanceTo(next DeliveryStatus) bool {
	return s.Next() == next && next != ""
}

// RefundStatus is the refund annotation on a purchase line. It is owned by
// the refund workflow; no other component writes it.
type RefundStatus string

const (
	RefundNone      RefundStatus = "none"
	RefundRequested RefundStatus = "requested"
	RefundApproved  RefundStatus = "approved"
	RefundRejected  RefundStatus = "rejected"
)

// Purchase is one immutable line item of one order. All lines of a single
// checkout share the same OrderID. Created only by the checkout workflow.
type Purchase struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	OrderID   string // Opaque identifier grouping the lines of one checkout.
	Quantity  int
	UnitPrice float64 // Effective unit price at checkout time.
	LineTotal float64 // Quantity x UnitPrice, exact as computed at checkout.
	Status    DeliveryStatus
	Refund    RefundStatus
	// DeliveredAt is set when the line reaches delivered and anchors the
	// 30-day refund eligibility window.
	DeliveredAt *time.Time
	CreatedAt   time.Time
}

// RefundWindow is the trailing period after delivery during which a refund
// may be requested.
const RefundWindow = 30 * 24 * time.Hour

// RefundableAt reports whether a refund request for this purchase is
// eligible at the given instant: the line must be delivered and the delivery
// must fall within the trailing refund window.
func (p *Purchase) RefundableAt(now time.Time) bool {
	if p.Status != DeliveryDelivered || p.DeliveredAt == nil {
		return false
	}

	return now.Sub(*p.DeliveredAt) <= RefundWindow
}
