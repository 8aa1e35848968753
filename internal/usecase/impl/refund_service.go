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

// refundService implements the RefundUsecase interface. Approval is the only
// path that returns reserved stock to the shelf and the only writer of the
// refunded delivery status.
type refundService struct {
	txManager    repository.TransactionManager
	purchaseRepo repository.PurchaseRepository
	refundRepo   repository.RefundRequestRepository
	userRepo     repository.UserRepository
	mailSender   service.MailSender
	logger       *slog.Logger
}

// RefundServiceParams holds dependencies for refundService, injected by Fx.
type RefundServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	PurchaseRepo repository.PurchaseRepository
	RefundRepo   repository.RefundRequestRepository
	UserRepo     repository.UserRepository
	MailSender   service.MailSender
	Logger       *slog.Logger
}

// NewRefundService is the constructor for refundService.
func NewRefundService(params RefundServiceParams) usecase.RefundUsecase {
	return &refundService{
		txManager:    params.TxManager,
		purchaseRepo: params.PurchaseRepo,
		refundRepo:   params.RefundRepo,
		userRepo:     params.UserRepo,
		mailSender:   params.MailSender,
		logger:       params.Logger,
	}
}

func (srv *refundService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Request opens a refund request for one purchase line. Eligibility: the line
// belongs to the caller, is delivered, the delivery falls within the trailing
// refund window, and no pending request exists for it yet.
func (srv *refundService) Request(ctx context.Context, input *usecase.RequestRefundInput) (*entity.RefundRequest, error) {
	purchase, err := srv.purchaseRepo.FindByID(ctx, input.PurchaseID)
	if err != nil {
		if errors.Is(err, repository.ErrPurchaseNotFound) {
			return nil, domainerrors.ErrPurchaseNotFound
		}

		return nil, errors.Wrap(err, "failed to find purchase")
	}

	if purchase.UserID != input.UserID {
		return nil, domainerrors.ErrForbidden
	}
	if !purchase.RefundableAt(time.Now()) {
		return nil, domainerrors.ErrRefundNotEligible
	}

	pending, err := srv.refundRepo.HasPendingForPurchase(ctx, input.PurchaseID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check pending refund request")
	}
	if pending {
		return nil, domainerrors.ErrRefundAlreadyPending
	}

	request := &entity.RefundRequest{
		PurchaseID: purchase.ID,
		UserID:     purchase.UserID,
		ProductID:  purchase.ProductID,
		Quantity:   purchase.Quantity,
		Amount:     purchase.LineTotal,
		Reason:     input.Reason,
		Status:     entity.RefundRequestPending,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NewRefundRequestRepository().Create(ctx, request); err != nil {
			return err
		}

		return repoFactory.NewPurchaseRepository().UpdateRefundStatus(ctx, purchase.ID, entity.RefundRequested)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to open refund request",
			slog.Any("purchaseID", purchase.ID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Refund requested",
		slog.Any("requestID", request.ID), slog.Any("purchaseID", purchase.ID))

	return request, nil
}

// ListPending returns the undecided requests, oldest first.
func (srv *refundService) ListPending(ctx context.Context) ([]*entity.RefundRequest, error) {
	requests, err := srv.refundRepo.ListByStatus(ctx, entity.RefundRequestPending)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list pending refund requests")
	}

	return requests, nil
}

// Approve decides a pending request positively: the request, the purchase and
// the stock move together in one transaction, so the stock release happens
// exactly once even under concurrent decisions.
func (srv *refundService) Approve(ctx context.Context, input *usecase.DecideRefundInput) (*entity.RefundRequest, error) {
	request, err := srv.loadPending(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	request.Status = entity.RefundRequestApproved
	request.AdminNotes = input.Notes
	request.DecidedAt = &now

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		// The update predicate only matches a pending row; a concurrent
		// decision makes it miss and the transaction rolls back.
		if err := repoFactory.NewRefundRequestRepository().Update(ctx, request); err != nil {
			if errors.Is(err, repository.ErrRefundRequestNotFound) {
				return domainerrors.ErrAlreadyProcessed
			}

			return err
		}

		purchaseRepo := repoFactory.NewPurchaseRepository()
		if err := purchaseRepo.UpdateRefundStatus(ctx, request.PurchaseID, entity.RefundApproved); err != nil {
			return err
		}
		if err := purchaseRepo.UpdateStatus(ctx, request.PurchaseID, entity.DeliveryRefunded, nil); err != nil {
			return err
		}

		return repoFactory.NewProductRepository().ReleaseStock(ctx, request.ProductID, request.Quantity)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to approve refund request",
			slog.Any("requestID", request.ID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Refund approved",
		slog.Any("requestID", request.ID),
		slog.Any("purchaseID", request.PurchaseID),
		slog.Int("restoredQuantity", request.Quantity))

	srv.notifyDecision(ctx, request)

	return request, nil
}

// Reject decides a pending request negatively. Stock is not touched.
func (srv *refundService) Reject(ctx context.Context, input *usecase.DecideRefundInput) (*entity.RefundRequest, error) {
	request, err := srv.loadPending(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	request.Status = entity.RefundRequestRejected
	request.AdminNotes = input.Notes
	request.DecidedAt = &now

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NewRefundRequestRepository().Update(ctx, request); err != nil {
			if errors.Is(err, repository.ErrRefundRequestNotFound) {
				return domainerrors.ErrAlreadyProcessed
			}

			return err
		}

		return repoFactory.NewPurchaseRepository().UpdateRefundStatus(ctx, request.PurchaseID, entity.RefundRejected)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to reject refund request",
			slog.Any("requestID", request.ID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Refund rejected", slog.Any("requestID", request.ID))

	srv.notifyDecision(ctx, request)

	return request, nil
}

func (srv *refundService) loadPending(ctx context.Context, requestID uuid.UUID) (*entity.RefundRequest, error) {
	request, err := srv.refundRepo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrRefundRequestNotFound) {
			return nil, domainerrors.ErrRefundNotFound
		}

		return nil, errors.Wrap(err, "failed to find refund request")
	}

	if request.Status.IsTerminal() {
		return nil, domainerrors.ErrAlreadyProcessed
	}

	return request, nil
}

// notifyDecision mails the buyer about the decision, best-effort.
func (srv *refundService) notifyDecision(ctx context.Context, request *entity.RefundRequest) {
	user, err := srv.userRepo.FindByID(ctx, request.UserID)
	if err != nil {
		srv.log(ctx).Error("Failed to load buyer for refund decision mail",
			slog.Any("userID", request.UserID), slog.Any("error", err))

		return
	}

	var subject, body string
	if request.Status == entity.RefundRequestApproved {
		subject = "退款申請已核准"
		body = fmt.Sprintf("您的退款申請已核准，退款金額 %.2f。", request.Amount)
	} else {
		subject = "退款申請未核准"
		body = "很抱歉，您的退款申請未獲核准。"
	}
	if request.AdminNotes != "" {
		body = fmt.Sprintf("%s\n備註：%s", body, request.AdminNotes)
	}

	notifyAsync(ctx, srv.logger, srv.mailSender, user.Email, subject, body, "")
}
