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

// cartService implements the CartUsecase interface.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// CartServiceParams holds dependencies for cartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	CartRepo    repository.CartRepository
	ProductRepo repository.ProductRepository
	Logger      *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		cartRepo:    params.CartRepo,
		productRepo: params.ProductRepo,
		logger:      params.Logger,
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// AddItem inserts a new cart line or merges into the existing one by summing
// quantities. Only priced products can be carted.
func (srv *cartService) AddItem(ctx context.Context, input *usecase.AddCartItemInput) error {
	if input.Quantity < 1 {
		return domainerrors.ErrValidationFailed.WrapMessage("quantity must be at least 1")
	}

	product, err := srv.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domainerrors.ErrProductNotFound
		}

		return errors.Wrap(err, "failed to find product")
	}
	if !product.Priced() {
		return domainerrors.ErrProductNotFound
	}

	existing, err := srv.cartRepo.FindLine(ctx, input.UserID, input.ProductID)
	if err != nil {
		if !errors.Is(err, repository.ErrCartLineNotFound) {
			return errors.Wrap(err, "failed to find cart line")
		}

		line := &entity.CartLine{
			UserID:    input.UserID,
			ProductID: input.ProductID,
			Quantity:  input.Quantity,
		}
		if err := srv.cartRepo.Create(ctx, line); err != nil {
			return err
		}

		srv.log(ctx).Debug("Cart line created",
			slog.Any("userID", input.UserID), slog.Any("productID", input.ProductID))

		return nil
	}

	if err := srv.cartRepo.UpdateQuantity(ctx, existing.ID, existing.Quantity+input.Quantity); err != nil {
		return err
	}

	srv.log(ctx).Debug("Cart line merged",
		slog.Any("userID", input.UserID),
		slog.Any("productID", input.ProductID),
		slog.Int("quantity", existing.Quantity+input.Quantity))

	return nil
}

// UpdateQuantity sets the quantity of an existing line to an absolute value.
func (srv *cartService) UpdateQuantity(ctx context.Context, input *usecase.UpdateCartItemInput) error {
	if input.Quantity < 1 {
		return domainerrors.ErrValidationFailed.WrapMessage("quantity must be at least 1")
	}

	line, err := srv.cartRepo.FindLine(ctx, input.UserID, input.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrCartLineNotFound) {
			return domainerrors.ErrCartLineNotFound
		}

		return errors.Wrap(err, "failed to find cart line")
	}

	return srv.cartRepo.UpdateQuantity(ctx, line.ID, input.Quantity)
}

// RemoveItem deletes the (user, product) line.
func (srv *cartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	line, err := srv.cartRepo.FindLine(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, repository.ErrCartLineNotFound) {
			return domainerrors.ErrCartLineNotFound
		}

		return errors.Wrap(err, "failed to find cart line")
	}

	return srv.cartRepo.Delete(ctx, line.ID)
}

// ListCart returns the cart joined with products plus line and grand totals.
func (srv *cartService) ListCart(ctx context.Context, userID uuid.UUID) (*usecase.CartOutput, error) {
	lines, err := srv.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cart")
	}

	output := &usecase.CartOutput{Items: make([]*usecase.CartItemOutput, 0, len(lines))}
	for _, line := range lines {
		product, err := srv.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				// The product was removed from the catalog after carting.
				// Skip the orphan line instead of failing the whole view.
				srv.log(ctx).Warn("Cart references missing product",
					slog.Any("userID", userID), slog.Any("productID", line.ProductID))

				continue
			}

			return nil, errors.Wrap(err, "failed to find cart product")
		}

		unitPrice := product.EffectiveUnitPrice()
		lineTotal := unitPrice * float64(line.Quantity)
		output.Items = append(output.Items, &usecase.CartItemOutput{
			Line:      line,
			Product:   product,
			UnitPrice: unitPrice,
			LineTotal: lineTotal,
		})
		output.GrandTotal += lineTotal
	}

	return output, nil
}
