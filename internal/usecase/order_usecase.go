package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Output DTOs ---

// CheckoutOutput summarizes one committed checkout.
type CheckoutOutput struct {
	OrderID    string
	Purchases  []*entity.Purchase
	GrandTotal float64
}

// OrderOutput groups the purchase lines of one order.
type OrderOutput struct {
	OrderID    string
	Purchases  []*entity.Purchase
	GrandTotal float64
}

// OrderUsecase defines the checkout and order-tracking operations.
type OrderUsecase interface {
	// Checkout converts the user's cart into purchase lines. Lines are
	// processed in cart order; when a reservation fails mid-way the earlier
	// lines stay committed and the error names the failing product.
	Checkout(ctx context.Context, userID uuid.UUID) (*CheckoutOutput, error)

	// ListPurchases returns the user's purchase history, newest first.
	ListPurchases(ctx context.Context, userID uuid.UUID) ([]*entity.Purchase, error)

	// GetOrder returns the lines of one order. Customers may only read
	// their own orders; requesterID carries the caller for that check.
	GetOrder(ctx context.Context, requesterID uuid.UUID, orderID string) (*OrderOutput, error)

	// AdvanceDelivery moves one purchase line to the next fulfillment state,
	// forward only. Refunded is never reachable through this path.
	AdvanceDelivery(ctx context.Context, purchaseID uuid.UUID, next entity.DeliveryStatus) (*entity.Purchase, error)
}
