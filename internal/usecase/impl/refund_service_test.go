package impl

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type refundServiceFixtures struct {
	service      usecase.RefundUsecase
	purchaseRepo *mockPurchaseRepository
	refundRepo   *mockRefundRequestRepository
	productRepo  *mockProductRepository
	userRepo     *mockUserRepository
	mailSender   *mockMailSender
}

func createTestRefundService(t *testing.T) refundServiceFixtures {
	t.Helper()

	purchaseRepo := new(mockPurchaseRepository)
	refundRepo := new(mockRefundRequestRepository)
	productRepo := new(mockProductRepository)
	userRepo := new(mockUserRepository)
	mailSender := new(mockMailSender)

	service := NewRefundService(RefundServiceParams{
		TxManager: &stubTxManager{factory: &stubRepositoryFactory{
			purchaseRepo: purchaseRepo,
			refundRepo:   refundRepo,
			productRepo:  productRepo,
		}},
		PurchaseRepo: purchaseRepo,
		RefundRepo:   refundRepo,
		UserRepo:     userRepo,
		MailSender:   mailSender,
		Logger:       newDiscardLogger(),
	})

	return refundServiceFixtures{
		service:      service,
		purchaseRepo: purchaseRepo,
		refundRepo:   refundRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		mailSender:   mailSender,
	}
}

func deliveredPurchase(userID uuid.UUID, deliveredAgo time.Duration) *entity.Purchase {
	deliveredAt := time.Now().Add(-deliveredAgo)

	return &entity.Purchase{
		ID:          uuid.New(),
		UserID:      userID,
		ProductID:   uuid.New(),
		OrderID:     "ORD-T",
		Quantity:    2,
		UnitPrice:   40,
		LineTotal:   80,
		Status:      entity.DeliveryDelivered,
		Refund:      entity.RefundNone,
		DeliveredAt: &deliveredAt,
	}
}

func TestRefundService_Request_Success(t *testing.T) {
	fx := createTestRefundService(t)
	ctx := context.Background()
	userID := uuid.New()
	purchase := deliveredPurchase(userID, 5*24*time.Hour)

	fx.purchaseRepo.On("FindByID", ctx, purchase.ID).Return(purchase, nil)
	fx.refundRepo.On("HasPendingForPurchase", ctx, purchase.ID).Return(false, nil)
	fx.refundRepo.On("Create", ctx, mock.AnythingOfType("*entity.RefundRequest")).Return(nil)
	fx.purchaseRepo.On("UpdateRefundStatus", ctx, purchase.ID, entity.RefundRequested).Return(nil)

	request, err := fx.service.Request(ctx, &usecase.RequestRefundInput{
		PurchaseID: purchase.ID,
		UserID:     userID,
		Reason:     "damaged",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RefundRequestPending, request.Status)
	assert.Equal(t, purchase.Quantity, request.Quantity)
	assert.InDelta(t, purchase.LineTotal, request.Amount, 1e-9)
}

func TestRefundService_Request_OutsideWindow(t *testing.T) {
	fx := createTestRefundService(t)
	ctx := context.Background()
	userID := uuid.New()
	purchase := deliveredPurchase(userID, entity.RefundWindow+time.Hour)

	fx.purchaseRepo.On("FindByID", ctx, purchase.ID).Return(purchase, nil)

	_, err := fx.service.Request(ctx, &usecase.RequestRefundInput{PurchaseID: purchase.ID, UserID: userID})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrRefundNotEligible)
}

func TestRefundService_Request_NotDelivered(t *testing.T) {
	fx := createTestRefundService(t)
	ctx := context.Background()
	userID := uuid.New()
	purchase := deliveredPurchase(userID, time.Hour)
	purchase.Status = entity.DeliveryInTransit

	fx.purchaseRepo.On("FindByID", ctx, purchase.ID).Return(purchase, nil)

	_, err := fx.service.Request(ctx, &usecase.RequestRefundInput{PurchaseID: purchase.ID, UserID: userID})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrRefundNotEligible)
}

func TestRefundService_Request_NotOwner(t *testing.T) {
	fx := createTestRefundService(t)
	ctx := context.Background()
	purchase := deliveredPurchase(uuid.New(), time.Hour)

	fx.purchaseRepo.On("FindByID", ctx, purchase.ID).Return(purchase, nil)

	_, err := fx.service.Request(ctx, &usecase.RequestRefundInput{PurchaseID: purchase.ID, UserID: uuid.New()})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestRefundService_Request_PendingAlreadyExists(t *testing.T) {
	fx := createTestRefundService(t)
	ctx := context.Background()
	userID := uuid.New()
	purchase := deliveredPurchase(userID, time.Hour)

	fx.purchaseRepo.On("FindByID", ctx, purchase.ID).Return(purchase, nil)
	fx.refundRepo.On("HasPendingForPurchase", ctx, purchase.ID).Return(true, nil)

	_, err := fx.service.Request(ctx, &usecase.RequestRefundInput{PurchaseID: purchase.ID, UserID: userID})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrRefundAlreadyPending)
	fx.refundRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func pendingRequest() *entity.RefundRequest {
	return &entity.RefundRequest{
		ID:         uuid.New(),
		PurchaseID: uuid.New(),
		UserID:     uuid.New(),
		ProductID:  uuid.New(),
		Quantity:   3,
		Amount:     120,
		Status:     entity.RefundRequestPending,
	}
}

func TestRefundService_Approve_RestoresStockOnce(t *testing.T) {
	fx := createTestRefundService(t)
	ctx := context.Background()
	request := pendingRequest()

	fx.refundRepo.On("FindByID", ctx, request.ID).Return(request, nil)
	fx.refundRepo.On("Update", ctx, mock.AnythingOfType("*entity.RefundRequest")).Return(nil)
	fx.purchaseRepo.On("UpdateRefundStatus", ctx, request.PurchaseID, entity.RefundApproved).Return(nil)
	fx.purchaseRepo.On("UpdateStatus", ctx, request.PurchaseID, entity.DeliveryRefunded, (*time.Time)(nil)).Return(nil)
	fx.productRepo.On("ReleaseStock", ctx, request.ProductID, request.Quantity).Return(nil)
	fx.userRepo.On("FindByID", ctx, request.UserID).
		Return(&entity.User{ID: request.UserID, Email: "buyer@example.com"}, nil)
	fx.mailSender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Maybe()

	decided, err := fx.service.Approve(ctx, &usecase.DecideRefundInput{RequestID: request.ID, Notes: "ok"})
	require.NoError(t, err)
	assert.Equal(t, entity.RefundRequestApproved, decided.Status)
	assert.NotNil(t, decided.DecidedAt)
	fx.productRepo.AssertNumberOfCalls(t, "ReleaseStock", 1)
}

func TestRefundService_Approve_AlreadyDecided(t *testing.T) {
	fx := createTestRefundService(t)
	ctx := context.Background()
	request := pendingRequest()
	request.Status = entity.RefundRequestRejected

	fx.refundRepo.On("FindByID", ctx, request.ID).Return(request, nil)

	_, err := fx.service.Approve(ctx, &usecase.DecideRefundInput{RequestID: request.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyProcessed)
	fx.productRepo.AssertNotCalled(t, "ReleaseStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefundService_Approve_ConcurrentDecisionLosesRace(t *testing.T) {
	fx := createTestRefundService(t)
	ctx := context.Background()
	request := pendingRequest()

	fx.refundRepo.On("FindByID", ctx, request.ID).Return(request, nil)
	// Another decision slipped in between the read and the update.
	fx.refundRepo.On("Update", ctx, mock.AnythingOfType("*entity.RefundRequest")).
		Return(repository.ErrRefundRequestNotFound)

	_, err := fx.service.Approve(ctx, &usecase.DecideRefundInput{RequestID: request.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyProcessed)
	fx.productRepo.AssertNotCalled(t, "ReleaseStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefundService_Reject_DoesNotTouchStock(t *testing.T) {
	fx := createTestRefundService(t)
	ctx := context.Background()
	request := pendingRequest()

	fx.refundRepo.On("FindByID", ctx, request.ID).Return(request, nil)
	fx.refundRepo.On("Update", ctx, mock.AnythingOfType("*entity.RefundRequest")).Return(nil)
	fx.purchaseRepo.On("UpdateRefundStatus", ctx, request.PurchaseID, entity.RefundRejected).Return(nil)
	fx.userRepo.On("FindByID", ctx, request.UserID).
		Return(&entity.User{ID: request.UserID, Email: "buyer@example.com"}, nil)
	fx.mailSender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Maybe()

	decided, err := fx.service.Reject(ctx, &usecase.DecideRefundInput{RequestID: request.ID, Notes: "no"})
	require.NoError(t, err)
	assert.Equal(t, entity.RefundRequestRejected, decided.Status)
	fx.productRepo.AssertNotCalled(t, "ReleaseStock", mock.Anything, mock.Anything, mock.Anything)
	fx.purchaseRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
