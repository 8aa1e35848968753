package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// SubmitReviewInput carries a new review. Rating is a pointer so "no rating"
// is distinguishable from rating zero; a comment always requires a rating.
type SubmitReviewInput struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Rating    *int
	Comment   string
}

// --- Output DTOs ---

// ProductReviewsOutput is the customer-facing review view of one product.
// Reviews carries only approved entries; the average spans every review.
type ProductReviewsOutput struct {
	Reviews       []*entity.Review
	AverageRating float64
}

// ReviewUsecase defines review submission and moderation operations.
type ReviewUsecase interface {
	// Submit stores a review after the proof-of-purchase check. A bare
	// rating auto-approves; a comment starts pending moderation. Every
	// successful submit recomputes the product's average rating over all
	// reviews regardless of moderation status.
	Submit(ctx context.Context, input *SubmitReviewInput) (*entity.Review, error)

	// ListByProduct returns the approved reviews of a product together with
	// the all-statuses average.
	ListByProduct(ctx context.Context, productID uuid.UUID) (*ProductReviewsOutput, error)

	// Approve publishes a pending review's comment.
	Approve(ctx context.Context, reviewID uuid.UUID) (*entity.Review, error)

	// Decline hides a pending review's comment. The rating keeps counting
	// toward the average either way.
	Decline(ctx context.Context, reviewID uuid.UUID) (*entity.Review, error)
}
