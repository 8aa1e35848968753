package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrReviewNotFound is returned when a review does not exist.
var ErrReviewNotFound = errors.New("review not found")

// ReviewRepository defines persistence for product reviews.
// The (user, product) pair is unique.
type ReviewRepository interface {
	// FindByID retrieves a single review.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)

	// FindByUserAndProduct retrieves the review for a (user, product) pair.
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*entity.Review, error)

	// ListByProduct retrieves every review of a product regardless of
	// moderation status (the rating average includes all of them).
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error)

	// Create persists a new review.
	Create(ctx context.Context, review *entity.Review) error

	// UpdateStatus sets the moderation status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ReviewStatus) error
}
