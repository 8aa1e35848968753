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

// refundRequestRepository implements the domain.RefundRequestRepository interface using GORM.
type refundRequestRepository struct {
	db *gorm.DB
}

// NewRefundRequestRepository is the constructor for refundRequestRepository.
func NewRefundRequestRepository(db *gorm.DB) repository.RefundRequestRepository {
	return &refundRequestRepository{db: db}
}

// FindByID retrieves a single refund request.
func (repo *refundRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RefundRequest, error) {
	var requestM model.RefundRequestModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&requestM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRefundRequestNotFound
		}

		return nil, errors.Wrap(err, "failed to find refund request by id")
	}

	return toRefundRequestDomain(&requestM), nil
}

// HasPendingForPurchase reports whether a pending request already exists for
// the purchase.
func (repo *refundRequestRepository) HasPendingForPurchase(ctx context.Context, purchaseID uuid.UUID) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.RefundRequestModel{}).
		Where("purchase_id = ? AND status = ?", purchaseID, string(entity.RefundRequestPending)).
		Count(&count).Error
	if err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to check pending refund request")
	}

	return count > 0, nil
}

// ListByStatus retrieves requests in the given state, oldest first so the
// back office works the queue in arrival order.
func (repo *refundRequestRepository) ListByStatus(ctx context.Context, status entity.RefundRequestStatus) ([]*entity.RefundRequest, error) {
	var requestMs []*model.RefundRequestModel
	err := repo.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Find(&requestMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list refund requests")
	}

	requests := make([]*entity.RefundRequest, 0, len(requestMs))
	for _, requestM := range requestMs {
		requests = append(requests, toRefundRequestDomain(requestM))
	}

	return requests, nil
}

// Create persists a new refund request.
func (repo *refundRequestRepository) Create(ctx context.Context, request *entity.RefundRequest) error {
	requestM := fromRefundRequestDomain(request)

	if err := repo.db.WithContext(ctx).Create(requestM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrRefundAlreadyPending.WrapMessage("a pending refund request already exists for this purchase")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create refund request")
	}

	request.ID = requestM.ID
	request.CreatedAt = requestM.CreatedAt

	return nil
}

// Update persists a decision transition. The status predicate keeps the
// decision idempotent: a request already out of pending is not overwritten.
func (repo *refundRequestRepository) Update(ctx context.Context, request *entity.RefundRequest) error {
	result := repo.db.WithContext(ctx).
		Model(&model.RefundRequestModel{}).
		Where("id = ? AND status = ?", request.ID, string(entity.RefundRequestPending)).
		Updates(map[string]any{
			"status":      string(request.Status),
			"admin_notes": request.AdminNotes,
			"decided_at":  request.DecidedAt,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update refund request")
	}
	if result.RowsAffected == 0 {
		return repository.ErrRefundRequestNotFound
	}

	return nil
}

// toRefundRequestDomain maps the persistence model to the pure domain entity.
func toRefundRequestDomain(requestM *model.RefundRequestModel) *entity.RefundRequest {
	return &entity.RefundRequest{
		ID:         requestM.ID,
		PurchaseID: requestM.PurchaseID,
		UserID:     requestM.UserID,
		ProductID:  requestM.ProductID,
		Quantity:   requestM.Quantity,
		Amount:     requestM.Amount,
		Reason:     requestM.Reason,
		Status:     entity.RefundRequestStatus(requestM.Status),
		AdminNotes: requestM.AdminNotes,
		DecidedAt:  requestM.DecidedAt,
		CreatedAt:  requestM.CreatedAt,
	}
}

// fromRefundRequestDomain maps the domain entity to the persistence model.
func fromRefundRequestDomain(request *entity.RefundRequest) *model.RefundRequestModel {
	return &model.RefundRequestModel{
		ID:         request.ID,
		PurchaseID: request.PurchaseID,
		UserID:     request.UserID,
		ProductID:  request.ProductID,
		Quantity:   request.Quantity,
		Amount:     request.Amount,
		Reason:     request.Reason,
		Status:     string(request.Status),
		AdminNotes: request.AdminNotes,
		DecidedAt:  request.DecidedAt,
		CreatedAt:  request.CreatedAt,
	}
}
