package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// wishlistRepository implements the domain.WishlistRepository interface using GORM.
type wishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository is the constructor for wishlistRepository.
func NewWishlistRepository(db *gorm.DB) repository.WishlistRepository {
	return &wishlistRepository{db: db}
}

// ListByUser retrieves a user's wishlist, oldest first.
func (repo *wishlistRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.WishlistItem, error) {
	var itemMs []*model.WishlistItemModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&itemMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list wishlist by user")
	}

	return toWishlistItemDomains(itemMs), nil
}

// ListByProduct retrieves every wishlist entry for a product. The discount
// notification fan-out iterates this list.
func (repo *wishlistRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.WishlistItem, error) {
	var itemMs []*model.WishlistItemModel
	err := repo.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Find(&itemMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list wishlist by product")
	}

	return toWishlistItemDomains(itemMs), nil
}

// Create persists a new wishlist item.
func (repo *wishlistRepository) Create(ctx context.Context, item *entity.WishlistItem) error {
	itemM := fromWishlistItemDomain(item)

	if err := repo.db.WithContext(ctx).Create(itemM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrWishlistDuplicate.WrapMessage("product already on wishlist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create wishlist item")
	}

	item.ID = itemM.ID
	item.CreatedAt = itemM.CreatedAt

	return nil
}

// Delete removes the (user, product) wishlist entry.
func (repo *wishlistRepository) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.WishlistItemModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete wishlist item")
	}
	if result.RowsAffected == 0 {
		return repository.ErrWishlistItemNotFound
	}

	return nil
}

// toWishlistItemDomains maps persistence models to pure domain entities.
func toWishlistItemDomains(itemMs []*model.WishlistItemModel) []*entity.WishlistItem {
	items := make([]*entity.WishlistItem, 0, len(itemMs))
	for _, itemM := range itemMs {
		items = append(items, &entity.WishlistItem{
			ID:        itemM.ID,
			UserID:    itemM.UserID,
			ProductID: itemM.ProductID,
			CreatedAt: itemM.CreatedAt,
		})
	}

	return items
}

// fromWishlistItemDomain maps the domain entity to the persistence model.
func fromWishlistItemDomain(item *entity.WishlistItem) *model.WishlistItemModel {
	return &model.WishlistItemModel{
		ID:        item.ID,
		UserID:    item.UserID,
		ProductID: item.ProductID,
		CreatedAt: item.CreatedAt,
	}
}
