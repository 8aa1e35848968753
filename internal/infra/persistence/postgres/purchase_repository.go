package postgres

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// purchaseRepository implements the domain.PurchaseRepository interface using GORM.
type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository is the constructor for purchaseRepository.
func NewPurchaseRepository(db *gorm.DB) repository.PurchaseRepository {
	return &purchaseRepository{db: db}
}

// FindByID retrieves a single purchase line.
func (repo *purchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	var purchaseM model.PurchaseModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&purchaseM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPurchaseNotFound
		}

		return nil, errors.Wrap(err, "failed to find purchase by id")
	}

	return toPurchaseDomain(&purchaseM), nil
}

// ListByUser retrieves all purchase lines of a user, newest first.
func (repo *purchaseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Purchase, error) {
	var purchaseMs []*model.PurchaseModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchaseMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list purchases by user")
	}

	return toPurchaseDomains(purchaseMs), nil
}

// ListByOrder retrieves all lines sharing one order identifier, in insertion
// order so the receipt matches the cart.
func (repo *purchaseRepository) ListByOrder(ctx context.Context, orderID string) ([]*entity.Purchase, error) {
	var purchaseMs []*model.PurchaseModel
	err := repo.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&purchaseMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list purchases by order")
	}

	return toPurchaseDomains(purchaseMs), nil
}

// Create persists a new purchase line.
func (repo *purchaseRepository) Create(ctx context.Context, purchase *entity.Purchase) error {
	purchaseM := fromPurchaseDomain(purchase)

	if err := repo.db.WithContext(ctx).Create(purchaseM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create purchase")
	}

	purchase.ID = purchaseM.ID
	purchase.CreatedAt = purchaseM.CreatedAt

	return nil
}

// UpdateStatus sets the delivery status; deliveredAt is recorded when the
// line reaches delivered.
func (repo *purchaseRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.DeliveryStatus, deliveredAt *time.Time) error {
	updates := map[string]any{"status": string(status)}
	if deliveredAt != nil {
		updates["delivered_at"] = deliveredAt
	}

	result := repo.db.WithContext(ctx).
		Model(&model.PurchaseModel{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update purchase status")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPurchaseNotFound
	}

	return nil
}

// UpdateRefundStatus sets the refund annotation on the line.
func (repo *purchaseRepository) UpdateRefundStatus(ctx context.Context, id uuid.UUID, status entity.RefundStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PurchaseModel{}).
		Where("id = ?", id).
		Update("refund_status", string(status))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update purchase refund status")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPurchaseNotFound
	}

	return nil
}

// ExistsByUserAndProduct reports whether the user has any purchase line for
// the product, regardless of status.
func (repo *purchaseRepository) ExistsByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.PurchaseModel{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to check purchase existence")
	}

	return count > 0, nil
}

// toPurchaseDomain maps the persistence model to the pure domain entity.
func toPurchaseDomain(purchaseM *model.PurchaseModel) *entity.Purchase {
	return &entity.Purchase{
		ID:          purchaseM.ID,
		UserID:      purchaseM.UserID,
		ProductID:   purchaseM.ProductID,
		OrderID:     purchaseM.OrderID,
		Quantity:    purchaseM.Quantity,
		UnitPrice:   purchaseM.UnitPrice,
		LineTotal:   purchaseM.LineTotal,
		Status:      entity.DeliveryStatus(purchaseM.Status),
		Refund:      entity.RefundStatus(purchaseM.RefundStatus),
		DeliveredAt: purchaseM.DeliveredAt,
		CreatedAt:   purchaseM.CreatedAt,
	}
}

func toPurchaseDomains(purchaseMs []*model.PurchaseModel) []*entity.Purchase {
	purchases := make([]*entity.Purchase, 0, len(purchaseMs))
	for _, purchaseM := range purchaseMs {
		purchases = append(purchases, toPurchaseDomain(purchaseM))
	}

	return purchases
}

// fromPurchaseDomain maps the domain entity to the persistence model.
func fromPurchaseDomain(purchase *entity.Purchase) *model.PurchaseModel {
	return &model.PurchaseModel{
		ID:           purchase.ID,
		UserID:       purchase.UserID,
		ProductID:    purchase.ProductID,
		OrderID:      purchase.OrderID,
		Quantity:     purchase.Quantity,
		UnitPrice:    purchase.UnitPrice,
		LineTotal:    purchase.LineTotal,
		Status:       string(purchase.Status),
		RefundStatus: string(purchase.Refund),
		DeliveredAt:  purchase.DeliveredAt,
		CreatedAt:    purchase.CreatedAt,
	}
}
