package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OrderHandler holds dependencies for checkout and order-tracking handlers.
type OrderHandler struct {
	uc     usecase.OrderUsecase
	logger *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: logger}
}

type advanceDeliveryRequest struct {
	Status string `json:"status" validate:"required"`
}

// Checkout converts the caller's cart into an order.
func (h *OrderHandler) Checkout(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "TOKEN_MISSING", "Authentication required")
	}

	output, err := h.uc.Checkout(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output, "Order placed")
}

// ListPurchases returns the caller's purchase history.
func (h *OrderHandler) ListPurchases(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "TOKEN_MISSING", "Authentication required")
	}

	purchases, err := h.uc.ListPurchases(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, purchases, "")
}

// GetOrder returns the lines of one of the caller's orders.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "TOKEN_MISSING", "Authentication required")
	}

	orderID := c.Param("orderId")
	if orderID == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Order id is required")
	}

	output, err := h.uc.GetOrder(c.Request().Context(), userID, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "")
}

// AdvanceDelivery moves one purchase line forward (back-office chain).
func (h *OrderHandler) AdvanceDelivery(c echo.Context) error {
	purchaseID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid purchase id")
	}

	var req advanceDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid status input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	next := entity.DeliveryStatus(req.Status)
	if !next.IsValid() {
		return response.BadRequest(c, "INVALID_INPUT", "Unknown delivery status")
	}

	purchase, err := h.uc.AdvanceDelivery(c.Request().Context(), purchaseID, next)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, purchase, "Delivery status updated")
}
