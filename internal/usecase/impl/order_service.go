package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// orderService implements the OrderUsecase interface. Checkout is the only
// writer of purchase lines; delivery advancement is the only manual writer of
// their status.
type orderService struct {
	txManager       repository.TransactionManager
	cartRepo        repository.CartRepository
	productRepo     repository.ProductRepository
	purchaseRepo    repository.PurchaseRepository
	userRepo        repository.UserRepository
	receiptRenderer service.ReceiptRenderer
	mailSender      service.MailSender
	logger          *slog.Logger
}

// OrderServiceParams holds dependencies for orderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager       repository.TransactionManager
	CartRepo        repository.CartRepository
	ProductRepo     repository.ProductRepository
	PurchaseRepo    repository.PurchaseRepository
	UserRepo        repository.UserRepository
	ReceiptRenderer service.ReceiptRenderer
	MailSender      service.MailSender
	Logger          *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager:       params.TxManager,
		cartRepo:        params.CartRepo,
		productRepo:     params.ProductRepo,
		purchaseRepo:    params.PurchaseRepo,
		userRepo:        params.UserRepo,
		receiptRenderer: params.ReceiptRenderer,
		mailSender:      params.MailSender,
		logger:          params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// newOrderID builds the order identifier shared by every line of one
// checkout: a UTC timestamp plus a short random suffix.
func newOrderID(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102150405"), uuid.New().String()[:8])
}

// Checkout converts the user's cart into purchase lines, one line at a time.
// Each line reserves its stock and creates its purchase in one transaction,
// so a single line is always all-or-nothing. Lines are independent of each
// other on purpose: when a reservation fails mid-way the earlier lines stay
// committed and the buyer is told exactly which product ran out.
func (srv *orderService) Checkout(ctx context.Context, userID uuid.UUID) (*usecase.CheckoutOutput, error) {
	lines, err := srv.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cart")
	}
	if len(lines) == 0 {
		return nil, domainerrors.ErrCartEmpty
	}

	orderID := newOrderID(time.Now())
	srv.log(ctx).Info("Checkout started",
		slog.Any("userID", userID),
		slog.String("orderID", orderID),
		slog.Int("lines", len(lines)))

	output := &usecase.CheckoutOutput{OrderID: orderID}
	receiptLines := make([]service.ReceiptLine, 0, len(lines))

	for _, line := range lines {
		product, err := srv.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, domainerrors.ErrProductNotFound.WithDetails(
					fmt.Sprintf("product %s is no longer available", line.ProductID))
			}

			return nil, errors.Wrap(err, "failed to load cart product")
		}

		unitPrice := product.EffectiveUnitPrice()
		purchase := &entity.Purchase{
			UserID:    userID,
			ProductID: product.ID,
			OrderID:   orderID,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
			LineTotal: unitPrice * float64(line.Quantity),
			Status:    entity.DeliveryProcessing,
			Refund:    entity.RefundNone,
		}

		err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			if err := repoFactory.NewProductRepository().ReserveStock(ctx, product.ID, line.Quantity); err != nil {
				return err
			}

			return repoFactory.NewPurchaseRepository().Create(ctx, purchase)
		})
		if err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				srv.log(ctx).Warn("Checkout aborted on insufficient stock",
					slog.String("orderID", orderID),
					slog.Any("productID", product.ID),
					slog.Int("committedLines", len(output.Purchases)))

				return nil, domainerrors.ErrInsufficientStock.WithDetails(
					fmt.Sprintf("insufficient stock for %s", product.Name))
			}

			return nil, errors.Wrap(err, "failed to commit checkout line")
		}

		output.Purchases = append(output.Purchases, purchase)
		output.GrandTotal += purchase.LineTotal
		receiptLines = append(receiptLines, service.ReceiptLine{
			ProductName: product.Name,
			Quantity:    purchase.Quantity,
			UnitPrice:   purchase.UnitPrice,
			LineTotal:   purchase.LineTotal,
		})
	}

	if err := srv.cartRepo.DeleteByUser(ctx, userID); err != nil {
		// The order is already committed; a stale cart is recoverable.
		srv.log(ctx).Error("Failed to clear cart after checkout",
			slog.Any("userID", userID), slog.String("orderID", orderID), slog.Any("error", err))
	}

	srv.sendReceipt(ctx, userID, service.ReceiptData{
		OrderID:    orderID,
		Date:       time.Now().UTC(),
		Lines:      receiptLines,
		GrandTotal: output.GrandTotal,
	})

	srv.log(ctx).Info("Checkout completed",
		slog.String("orderID", orderID),
		slog.Float64("grandTotal", output.GrandTotal))

	return output, nil
}

// sendReceipt renders and mails the receipt best-effort. Rendering happens on
// the request path because the data is already in hand; the send is async.
func (srv *orderService) sendReceipt(ctx context.Context, userID uuid.UUID, data service.ReceiptData) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		srv.log(ctx).Error("Failed to load buyer for receipt mail",
			slog.Any("userID", userID), slog.Any("error", err))

		return
	}

	html, err := srv.receiptRenderer.Render(data)
	if err != nil {
		srv.log(ctx).Error("Failed to render receipt",
			slog.String("orderID", data.OrderID), slog.Any("error", err))

		return
	}

	subject := fmt.Sprintf("您的訂單 %s 收據", data.OrderID)
	body := fmt.Sprintf("感謝您的購買，訂單編號 %s，總金額 %.2f。", data.OrderID, data.GrandTotal)
	notifyAsync(ctx, srv.logger, srv.mailSender, user.Email, subject, body, string(html))
}

// ListPurchases returns the user's purchase history, newest first.
func (srv *orderService) ListPurchases(ctx context.Context, userID uuid.UUID) ([]*entity.Purchase, error) {
	purchases, err := srv.purchaseRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list purchases")
	}

	return purchases, nil
}

// GetOrder returns the lines of one order. Only the buyer may read it.
func (srv *orderService) GetOrder(ctx context.Context, requesterID uuid.UUID, orderID string) (*usecase.OrderOutput, error) {
	purchases, err := srv.purchaseRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load order")
	}
	if len(purchases) == 0 {
		return nil, domainerrors.ErrPurchaseNotFound
	}
	if purchases[0].UserID != requesterID {
		return nil, domainerrors.ErrForbidden
	}

	output := &usecase.OrderOutput{OrderID: orderID, Purchases: purchases}
	for _, purchase := range purchases {
		output.GrandTotal += purchase.LineTotal
	}

	return output, nil
}

// AdvanceDelivery moves one purchase line forward through
// processing -> in-transit -> delivered. Refunded is never reachable here.
func (srv *orderService) AdvanceDelivery(ctx context.Context, purchaseID uuid.UUID, next entity.DeliveryStatus) (*entity.Purchase, error) {
	purchase, err := srv.purchaseRepo.FindByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, repository.ErrPurchaseNotFound) {
			return nil, domainerrors.ErrPurchaseNotFound
		}

		return nil, errors.Wrap(err, "failed to find purchase")
	}

	if !purchase.Status.CanAdvanceTo(next) {
		return nil, domainerrors.ErrDeliveryTransition.WithDetails(
			fmt.Sprintf("cannot advance from %s to %s", purchase.Status, next))
	}

	var deliveredAt *time.Time
	if next == entity.DeliveryDelivered {
		now := time.Now().UTC()
		deliveredAt = &now
	}

	if err := srv.purchaseRepo.UpdateStatus(ctx, purchaseID, next, deliveredAt); err != nil {
		return nil, errors.Wrap(err, "failed to update delivery status")
	}

	purchase.Status = next
	purchase.DeliveredAt = deliveredAt

	srv.log(ctx).Info("Delivery advanced",
		slog.Any("purchaseID", purchaseID), slog.String("status", string(next)))

	return purchase, nil
}
