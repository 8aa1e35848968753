package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// roleGrantRepository implements the domain.RoleGrantRepository interface using GORM.
type roleGrantRepository struct {
	db *gorm.DB
}

// NewRoleGrantRepository is the constructor for roleGrantRepository.
func NewRoleGrantRepository(db *gorm.DB) repository.RoleGrantRepository {
	return &roleGrantRepository{db: db}
}

// HasGrant reports whether the user holds the given role grant.
// Grants are provisioned out of band; this is a pure read.
func (repo *roleGrantRepository) HasGrant(ctx context.Context, userID uuid.UUID, role entity.Role) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.RoleGrantModel{}).
		Where("user_id = ? AND role = ?", userID, role.String()).
		Count(&count).Error
	if err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to check role grant")
	}

	return count > 0, nil
}
