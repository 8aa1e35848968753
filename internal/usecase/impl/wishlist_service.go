package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// wishlistService implements the WishlistUsecase interface.
type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
	logger       *slog.Logger
}

// WishlistServiceParams holds dependencies for wishlistService, injected by Fx.
type WishlistServiceParams struct {
	fx.In

	WishlistRepo repository.WishlistRepository
	ProductRepo  repository.ProductRepository
	Logger       *slog.Logger
}

// NewWishlistService is the constructor for wishlistService.
func NewWishlistService(params WishlistServiceParams) usecase.WishlistUsecase {
	return &wishlistService{
		wishlistRepo: params.WishlistRepo,
		productRepo:  params.ProductRepo,
		logger:       params.Logger,
	}
}

func (srv *wishlistService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Add bookmarks a priced product for the user.
func (srv *wishlistService) Add(ctx context.Context, userID, productID uuid.UUID) error {
	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domainerrors.ErrProductNotFound
		}

		return errors.Wrap(err, "failed to find product")
	}
	if !product.Priced() {
		return domainerrors.ErrProductNotFound
	}

	item := &entity.WishlistItem{UserID: userID, ProductID: productID}
	if err := srv.wishlistRepo.Create(ctx, item); err != nil {
		return err
	}

	srv.log(ctx).Debug("Wishlist item added",
		slog.Any("userID", userID), slog.Any("productID", productID))

	return nil
}

// Remove deletes the bookmark.
func (srv *wishlistService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if err := srv.wishlistRepo.Delete(ctx, userID, productID); err != nil {
		if errors.Is(err, repository.ErrWishlistItemNotFound) {
			return domainerrors.ErrWishlistNotFound
		}

		return errors.Wrap(err, "failed to delete wishlist item")
	}

	return nil
}

// List returns the user's wishlist joined with product details. Entries whose
// product vanished from the catalog are skipped.
func (srv *wishlistService) List(ctx context.Context, userID uuid.UUID) ([]*usecase.WishlistItemOutput, error) {
	items, err := srv.wishlistRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list wishlist")
	}

	output := make([]*usecase.WishlistItemOutput, 0, len(items))
	for _, item := range items {
		product, err := srv.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				continue
			}

			return nil, errors.Wrap(err, "failed to find wishlist product")
		}

		output = append(output, &usecase.WishlistItemOutput{Item: item, Product: product})
	}

	return output, nil
}
