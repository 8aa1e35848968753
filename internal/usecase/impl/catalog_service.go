package impl

import (
	"context"
	"fmt"
	"log/slog"

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

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	productRepo  repository.ProductRepository
	wishlistRepo repository.WishlistRepository
	userRepo     repository.UserRepository
	mailSender   service.MailSender
	logger       *slog.Logger
}

// CatalogServiceParams holds dependencies for catalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	ProductRepo  repository.ProductRepository
	WishlistRepo repository.WishlistRepository
	UserRepo     repository.UserRepository
	MailSender   service.MailSender
	Logger       *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		productRepo:  params.ProductRepo,
		wishlistRepo: params.WishlistRepo,
		userRepo:     params.UserRepo,
		mailSender:   params.MailSender,
		logger:       params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListProducts returns priced products matching the filter. Unpriced products
// never reach customers; the repository filter enforces it.
func (srv *catalogService) ListProducts(ctx context.Context, input *usecase.ListProductsInput) ([]*entity.Product, error) {
	products, err := srv.productRepo.List(ctx, repository.ProductFilter{
		Category:   input.Category,
		Search:     input.Search,
		PricedOnly: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

// GetProduct returns one product for customer-facing detail pages. An
// unpriced product is reported as not found, same as a missing one.
func (srv *catalogService) GetProduct(ctx context.Context, productID uuid.UUID) (*entity.Product, error) {
	product, err := srv.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Priced() {
		return nil, domainerrors.ErrProductNotFound
	}

	return product, nil
}

// ListAllProducts returns every product, including those awaiting pricing.
func (srv *catalogService) ListAllProducts(ctx context.Context, input *usecase.ListProductsInput) ([]*entity.Product, error) {
	products, err := srv.productRepo.List(ctx, repository.ProductFilter{
		Category: input.Category,
		Search:   input.Search,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

// CreateProduct adds an unpriced catalog entry. Pricing is a separate
// sales-admin step; until then the product is invisible to customers.
func (srv *catalogService) CreateProduct(ctx context.Context, input *usecase.CreateProductInput) (*entity.Product, error) {
	if input.Stock < 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("stock cannot be negative")
	}

	product := &entity.Product{
		Code:         input.Code,
		Name:         input.Name,
		Category:     input.Category,
		Description:  input.Description,
		Stock:        input.Stock,
		PricingState: entity.PricingPending,
	}
	if err := srv.productRepo.Create(ctx, product); err != nil {
		srv.log(ctx).Error("Failed to create product", slog.String("code", input.Code), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Product created", slog.Any("productID", product.ID), slog.String("code", product.Code))

	return product, nil
}

// DeleteProduct removes a catalog entry.
func (srv *catalogService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if err := srv.productRepo.Delete(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domainerrors.ErrProductNotFound
		}

		return errors.Wrap(err, "failed to delete product")
	}

	srv.log(ctx).Info("Product deleted", slog.Any("productID", productID))

	return nil
}

// Restock adjusts stock by a signed delta. The repository guard rejects any
// adjustment that would drive the count below zero.
func (srv *catalogService) Restock(ctx context.Context, input *usecase.RestockInput) (*entity.Product, error) {
	if input.Delta == 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("stock adjustment cannot be zero")
	}

	if err := srv.productRepo.AdjustStock(ctx, input.ProductID, input.Delta); err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			return nil, domainerrors.ErrProductNotFound
		case errors.Is(err, repository.ErrInsufficientStock):
			return nil, domainerrors.ErrInsufficientStock.WrapMessage("adjustment would drive stock below zero")
		default:
			return nil, errors.Wrap(err, "failed to adjust stock")
		}
	}

	srv.log(ctx).Info("Stock adjusted", slog.Any("productID", input.ProductID), slog.Int("delta", input.Delta))

	return srv.findProduct(ctx, input.ProductID)
}

// SetPrice assigns the selling price and moves the product out of pending
// pricing, making it visible to customers.
func (srv *catalogService) SetPrice(ctx context.Context, input *usecase.SetPriceInput) (*entity.Product, error) {
	if input.Price <= 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("price must be positive")
	}

	product, err := srv.findProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	product.Price = input.Price
	product.PricingState = entity.PricingSet
	// A price change invalidates any discount computed from the old price.
	product.DiscountRate = nil
	product.DiscountedPrice = nil

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to set price")
	}

	srv.log(ctx).Info("Price set", slog.Any("productID", product.ID), slog.Float64("price", product.Price))

	return product, nil
}

// SetDiscount stores the discount rate and the discounted price together and
// notifies wishlist holders best-effort.
func (srv *catalogService) SetDiscount(ctx context.Context, input *usecase.SetDiscountInput) (*entity.Product, error) {
	if input.Rate <= 0 || input.Rate >= 100 {
		return nil, domainerrors.ErrDiscountInvalid
	}

	product, err := srv.findProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Priced() {
		return nil, domainerrors.ErrProductNotPriced
	}

	rate := input.Rate
	discounted := product.Price * (100 - rate) / 100
	product.DiscountRate = &rate
	product.DiscountedPrice = &discounted

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to set discount")
	}

	srv.log(ctx).Info("Discount set",
		slog.Any("productID", product.ID),
		slog.Float64("rate", rate),
		slog.Float64("discountedPrice", discounted))

	srv.notifyWishlistHolders(ctx, product)

	return product, nil
}

// ClearDiscount removes the discount rate and the discounted price together.
func (srv *catalogService) ClearDiscount(ctx context.Context, productID uuid.UUID) (*entity.Product, error) {
	product, err := srv.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	product.DiscountRate = nil
	product.DiscountedPrice = nil

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to clear discount")
	}

	srv.log(ctx).Info("Discount cleared", slog.Any("productID", product.ID))

	return product, nil
}

func (srv *catalogService) findProduct(ctx context.Context, productID uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	return product, nil
}

// notifyWishlistHolders fans a discount announcement out to everyone who
// wishlisted the product. Lookups run on the request path but the sends are
// asynchronous; any failure only logs.
func (srv *catalogService) notifyWishlistHolders(ctx context.Context, product *entity.Product) {
	items, err := srv.wishlistRepo.ListByProduct(ctx, product.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to list wishlist holders for discount mail",
			slog.Any("productID", product.ID), slog.Any("error", err))

		return
	}

	subject := fmt.Sprintf("您收藏的商品「%s」特價中", product.Name)
	body := fmt.Sprintf("您收藏的商品「%s」現正特價，折扣後價格為 %.2f。", product.Name, *product.DiscountedPrice)

	for _, item := range items {
		user, err := srv.userRepo.FindByID(ctx, item.UserID)
		if err != nil {
			srv.log(ctx).Error("Failed to load wishlist holder for discount mail",
				slog.Any("userID", item.UserID), slog.Any("error", err))

			continue
		}

		notifyAsync(ctx, srv.logger, srv.mailSender, user.Email, subject, body, "")
	}
}
