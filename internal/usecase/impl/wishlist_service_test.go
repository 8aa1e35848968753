package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type wishlistServiceFixtures struct {
	service      usecase.WishlistUsecase
	wishlistRepo *mockWishlistRepository
	productRepo  *mockProductRepository
}

func createTestWishlistService(t *testing.T) wishlistServiceFixtures {
	t.Helper()

	wishlistRepo := new(mockWishlistRepository)
	productRepo := new(mockProductRepository)

	service := NewWishlistService(WishlistServiceParams{
		WishlistRepo: wishlistRepo,
		ProductRepo:  productRepo,
		Logger:       newDiscardLogger(),
	})

	return wishlistServiceFixtures{
		service:      service,
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

func TestWishlistService_Add_RejectsUnpricedProduct(t *testing.T) {
	fx := createTestWishlistService(t)
	ctx := context.Background()
	productID := uuid.New()

	fx.productRepo.On("FindByID", ctx, productID).
		Return(&entity.Product{ID: productID, PricingState: entity.PricingPending}, nil)

	err := fx.service.Add(ctx, uuid.New(), productID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
	fx.wishlistRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWishlistService_Add_Success(t *testing.T) {
	fx := createTestWishlistService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := pricedProduct("widget", 50, 10)

	fx.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	fx.wishlistRepo.On("Create", ctx, mock.MatchedBy(func(item *entity.WishlistItem) bool {
		return item.UserID == userID && item.ProductID == product.ID
	})).Return(nil)

	err := fx.service.Add(ctx, userID, product.ID)
	require.NoError(t, err)
}

func TestWishlistService_Remove_MissingItem(t *testing.T) {
	fx := createTestWishlistService(t)
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	fx.wishlistRepo.On("Delete", ctx, userID, productID).
		Return(repository.ErrWishlistItemNotFound)

	err := fx.service.Remove(ctx, userID, productID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrWishlistNotFound)
}

func TestWishlistService_List_SkipsVanishedProducts(t *testing.T) {
	fx := createTestWishlistService(t)
	ctx := context.Background()
	userID := uuid.New()

	kept := pricedProduct("kept", 30, 3)
	goneID := uuid.New()

	items := []*entity.WishlistItem{
		{ID: uuid.New(), UserID: userID, ProductID: kept.ID},
		{ID: uuid.New(), UserID: userID, ProductID: goneID},
	}

	fx.wishlistRepo.On("ListByUser", ctx, userID).Return(items, nil)
	fx.productRepo.On("FindByID", ctx, kept.ID).Return(kept, nil)
	fx.productRepo.On("FindByID", ctx, goneID).Return(nil, repository.ErrProductNotFound)

	output, err := fx.service.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, output, 1)
	assert.Equal(t, kept.ID, output[0].Product.ID)
}
