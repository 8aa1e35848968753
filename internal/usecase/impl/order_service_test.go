package impl

import (
	"context"
	"strings"
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

type orderServiceFixtures struct {
	service         usecase.OrderUsecase
	cartRepo        *mockCartRepository
	productRepo     *mockProductRepository
	purchaseRepo    *mockPurchaseRepository
	userRepo        *mockUserRepository
	receiptRenderer *mockReceiptRenderer
	mailSender      *mockMailSender
}

func createTestOrderService(t *testing.T) orderServiceFixtures {
	t.Helper()

	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	purchaseRepo := new(mockPurchaseRepository)
	userRepo := new(mockUserRepository)
	receiptRenderer := new(mockReceiptRenderer)
	mailSender := new(mockMailSender)

	service := NewOrderService(OrderServiceParams{
		TxManager: &stubTxManager{factory: &stubRepositoryFactory{
			productRepo:  productRepo,
			purchaseRepo: purchaseRepo,
		}},
		CartRepo:        cartRepo,
		ProductRepo:     productRepo,
		PurchaseRepo:    purchaseRepo,
		UserRepo:        userRepo,
		ReceiptRenderer: receiptRenderer,
		MailSender:      mailSender,
		Logger:          newDiscardLogger(),
	})

	return orderServiceFixtures{
		service:         service,
		cartRepo:        cartRepo,
		productRepo:     productRepo,
		purchaseRepo:    purchaseRepo,
		userRepo:        userRepo,
		receiptRenderer: receiptRenderer,
		mailSender:      mailSender,
	}
}

func pricedProduct(name string, price float64, stock int) *entity.Product {
	return &entity.Product{
		ID:           uuid.New(),
		Code:         "SKU-" + name,
		Name:         name,
		Price:        price,
		PricingState: entity.PricingSet,
		Stock:        stock,
	}
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()
	userID := uuid.New()

	fx.cartRepo.On("ListByUser", ctx, userID).Return([]*entity.CartLine{}, nil)

	output, err := fx.service.Checkout(ctx, userID)
	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrCartEmpty)
	fx.productRepo.AssertNotCalled(t, "ReserveStock", mock.Anything, mock.Anything, mock.Anything)
	fx.purchaseRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_Checkout_Success(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()
	userID := uuid.New()

	book := pricedProduct("book", 100, 10)
	discount := 20.0
	discounted := 80.0
	book.DiscountRate = &discount
	book.DiscountedPrice = &discounted
	pen := pricedProduct("pen", 5, 10)

	lines := []*entity.CartLine{
		{ID: uuid.New(), UserID: userID, ProductID: book.ID, Quantity: 2},
		{ID: uuid.New(), UserID: userID, ProductID: pen.ID, Quantity: 3},
	}

	fx.cartRepo.On("ListByUser", ctx, userID).Return(lines, nil)
	fx.productRepo.On("FindByID", ctx, book.ID).Return(book, nil)
	fx.productRepo.On("FindByID", ctx, pen.ID).Return(pen, nil)
	fx.productRepo.On("ReserveStock", ctx, book.ID, 2).Return(nil)
	fx.productRepo.On("ReserveStock", ctx, pen.ID, 3).Return(nil)
	fx.purchaseRepo.On("Create", ctx, mock.AnythingOfType("*entity.Purchase")).Return(nil)
	fx.cartRepo.On("DeleteByUser", ctx, userID).Return(nil)

	fx.userRepo.On("FindByID", ctx, userID).
		Return(&entity.User{ID: userID, Email: "buyer@example.com"}, nil)
	fx.receiptRenderer.On("Render", mock.AnythingOfType("service.ReceiptData")).
		Return([]byte("<html>receipt</html>"), nil)
	fx.mailSender.On("Send", mock.Anything, "buyer@example.com", mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Maybe()

	output, err := fx.service.Checkout(ctx, userID)
	require.NoError(t, err)
	require.Len(t, output.Purchases, 2)

	// The discounted price wins for the book line.
	assert.InDelta(t, 80.0, output.Purchases[0].UnitPrice, 1e-9)
	assert.InDelta(t, 160.0, output.Purchases[0].LineTotal, 1e-9)
	assert.InDelta(t, 5.0, output.Purchases[1].UnitPrice, 1e-9)
	assert.InDelta(t, 175.0, output.GrandTotal, 1e-9)

	for _, purchase := range output.Purchases {
		assert.Equal(t, output.OrderID, purchase.OrderID)
		assert.Equal(t, entity.DeliveryProcessing, purchase.Status)
		assert.Equal(t, entity.RefundNone, purchase.Refund)
	}

	assert.True(t, strings.HasPrefix(output.OrderID, "ORD-"))
	fx.cartRepo.AssertCalled(t, "DeleteByUser", ctx, userID)
}

func TestOrderService_Checkout_InsufficientStockKeepsEarlierLines(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()
	userID := uuid.New()

	first := pricedProduct("first", 10, 10)
	second := pricedProduct("second", 20, 0)

	lines := []*entity.CartLine{
		{ID: uuid.New(), UserID: userID, ProductID: first.ID, Quantity: 1},
		{ID: uuid.New(), UserID: userID, ProductID: second.ID, Quantity: 1},
	}

	fx.cartRepo.On("ListByUser", ctx, userID).Return(lines, nil)
	fx.productRepo.On("FindByID", ctx, first.ID).Return(first, nil)
	fx.productRepo.On("FindByID", ctx, second.ID).Return(second, nil)
	fx.productRepo.On("ReserveStock", ctx, first.ID, 1).Return(nil)
	fx.productRepo.On("ReserveStock", ctx, second.ID, 1).Return(repository.ErrInsufficientStock)
	fx.purchaseRepo.On("Create", ctx, mock.AnythingOfType("*entity.Purchase")).Return(nil)

	output, err := fx.service.Checkout(ctx, userID)
	require.Error(t, err)
	assert.Nil(t, output)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrInsufficientStock.ErrorCode(), appErr.ErrorCode())
	assert.Contains(t, appErr.Details(), "second")

	// The first line was committed before the failure and stays committed.
	fx.purchaseRepo.AssertNumberOfCalls(t, "Create", 1)
	// The cart is not cleared on an aborted checkout.
	fx.cartRepo.AssertNotCalled(t, "DeleteByUser", mock.Anything, mock.Anything)
}

func TestOrderService_Checkout_ReceiptFailureIsNotFatal(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()
	userID := uuid.New()

	item := pricedProduct("item", 50, 5)
	lines := []*entity.CartLine{
		{ID: uuid.New(), UserID: userID, ProductID: item.ID, Quantity: 1},
	}

	fx.cartRepo.On("ListByUser", ctx, userID).Return(lines, nil)
	fx.productRepo.On("FindByID", ctx, item.ID).Return(item, nil)
	fx.productRepo.On("ReserveStock", ctx, item.ID, 1).Return(nil)
	fx.purchaseRepo.On("Create", ctx, mock.AnythingOfType("*entity.Purchase")).Return(nil)
	fx.cartRepo.On("DeleteByUser", ctx, userID).Return(nil)

	fx.userRepo.On("FindByID", ctx, userID).
		Return(&entity.User{ID: userID, Email: "buyer@example.com"}, nil)
	fx.receiptRenderer.On("Render", mock.AnythingOfType("service.ReceiptData")).
		Return(nil, assert.AnError)

	output, err := fx.service.Checkout(ctx, userID)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, output.GrandTotal, 1e-9)
	fx.mailSender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_AdvanceDelivery_ForwardOnly(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()
	purchaseID := uuid.New()

	fx.purchaseRepo.On("FindByID", ctx, purchaseID).
		Return(&entity.Purchase{ID: purchaseID, Status: entity.DeliveryProcessing}, nil)
	fx.purchaseRepo.On("UpdateStatus", ctx, purchaseID, entity.DeliveryInTransit, (*time.Time)(nil)).
		Return(nil)

	purchase, err := fx.service.AdvanceDelivery(ctx, purchaseID, entity.DeliveryInTransit)
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryInTransit, purchase.Status)
}

func TestOrderService_AdvanceDelivery_RejectsSkipAndRefunded(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		from entity.DeliveryStatus
		to   entity.DeliveryStatus
	}{
		{"skip ahead", entity.DeliveryProcessing, entity.DeliveryDelivered},
		{"backwards", entity.DeliveryDelivered, entity.DeliveryInTransit},
		{"refunded via manual path", entity.DeliveryDelivered, entity.DeliveryRefunded},
		{"terminal", entity.DeliveryRefunded, entity.DeliveryProcessing},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			purchaseID := uuid.New()
			fx.purchaseRepo.On("FindByID", ctx, purchaseID).
				Return(&entity.Purchase{ID: purchaseID, Status: tc.from}, nil)

			_, err := fx.service.AdvanceDelivery(ctx, purchaseID, tc.to)
			require.Error(t, err)

			var appErr domainerrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, domainerrors.ErrDeliveryTransition.ErrorCode(), appErr.ErrorCode())
		})
	}

	fx.purchaseRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_GetOrder_OwnershipEnforced(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	purchases := []*entity.Purchase{
		{ID: uuid.New(), UserID: owner, OrderID: "ORD-X", LineTotal: 30},
		{ID: uuid.New(), UserID: owner, OrderID: "ORD-X", LineTotal: 70},
	}
	fx.purchaseRepo.On("ListByOrder", ctx, "ORD-X").Return(purchases, nil)

	output, err := fx.service.GetOrder(ctx, owner, "ORD-X")
	require.NoError(t, err)
	assert.InDelta(t, 100.0, output.GrandTotal, 1e-9)

	_, err = fx.service.GetOrder(ctx, stranger, "ORD-X")
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrForbidden.ErrorCode(), appErr.ErrorCode())
}
