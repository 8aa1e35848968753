package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// RefundHandler holds dependencies for refund-related handlers.
type RefundHandler struct {
	uc     usecase.RefundUsecase
	logger *slog.Logger
}

// NewRefundHandler is the constructor for RefundHandler, injected by Fx.
func NewRefundHandler(uc usecase.RefundUsecase, logger *slog.Logger) *RefundHandler {
	return &RefundHandler{uc: uc, logger: logger}
}

type requestRefundRequest struct {
	PurchaseID string `json:"purchaseId" validate:"required,uuid"`
	Reason     string `json:"reason"`
}

type decideRefundRequest struct {
	Notes string `json:"notes"`
}

// Request opens a refund request for one of the caller's purchases.
func (h *RefundHandler) Request(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "TOKEN_MISSING", "Authentication required")
	}

	var req requestRefundRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refund input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	purchaseID, err := parseUUIDField(req.PurchaseID)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid purchase id")
	}

	request, err := h.uc.Request(c.Request().Context(), &usecase.RequestRefundInput{
		PurchaseID: purchaseID,
		UserID:     userID,
		Reason:     req.Reason,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, request, "Refund requested")
}

// ListPending returns the undecided refund requests (sales chain).
func (h *RefundHandler) ListPending(c echo.Context) error {
	requests, err := h.uc.ListPending(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, requests, "")
}

// Approve decides a pending refund request positively (sales chain).
func (h *RefundHandler) Approve(c echo.Context) error {
	requestID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid request id")
	}

	var req decideRefundRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid decision input")
	}

	request, err := h.uc.Approve(c.Request().Context(), &usecase.DecideRefundInput{
		RequestID: requestID,
		Notes:     req.Notes,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, request, "Refund approved")
}

// Reject decides a pending refund request negatively (sales chain).
func (h *RefundHandler) Reject(c echo.Context) error {
	requestID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid request id")
	}

	var req decideRefundRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid decision input")
	}

	request, err := h.uc.Reject(c.Request().Context(), &usecase.DecideRefundInput{
		RequestID: requestID,
		Notes:     req.Notes,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, request, "Refund rejected")
}
