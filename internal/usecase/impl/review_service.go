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

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	reviewRepo   repository.ReviewRepository
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	logger       *slog.Logger
}

// ReviewServiceParams holds dependencies for reviewService, injected by Fx.
type ReviewServiceParams struct {
	fx.In

	ReviewRepo   repository.ReviewRepository
	PurchaseRepo repository.PurchaseRepository
	ProductRepo  repository.ProductRepository
	Logger       *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(params ReviewServiceParams) usecase.ReviewUsecase {
	return &reviewService{
		reviewRepo:   params.ReviewRepo,
		purchaseRepo: params.PurchaseRepo,
		productRepo:  params.ProductRepo,
		logger:       params.Logger,
	}
}

func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Submit stores a review after the proof-of-purchase check. Any purchase
// line for the (user, product) pair counts as proof, regardless of its
// delivery or refund status. A bare rating auto-approves; a comment starts
// pending until moderated.
func (srv *reviewService) Submit(ctx context.Context, input *usecase.SubmitReviewInput) (*entity.Review, error) {
	if input.Rating == nil && input.Comment == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("a rating or a comment is required")
	}
	if input.Comment != "" && input.Rating == nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("a comment requires a rating")
	}
	if *input.Rating < 1 || *input.Rating > 5 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("rating must be between 1 and 5")
	}

	purchased, err := srv.purchaseRepo.ExistsByUserAndProduct(ctx, input.UserID, input.ProductID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check proof of purchase")
	}
	if !purchased {
		return nil, domainerrors.ErrReviewNotPurchased
	}

	if _, err := srv.reviewRepo.FindByUserAndProduct(ctx, input.UserID, input.ProductID); err == nil {
		return nil, domainerrors.ErrReviewAlreadyExists
	} else if !errors.Is(err, repository.ErrReviewNotFound) {
		return nil, errors.Wrap(err, "failed to check existing review")
	}

	status := entity.ReviewApproved
	if input.Comment != "" {
		status = entity.ReviewPending
	}

	review := &entity.Review{
		UserID:    input.UserID,
		ProductID: input.ProductID,
		Rating:    *input.Rating,
		Comment:   input.Comment,
		Status:    status,
	}
	if err := srv.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	srv.recomputeAverage(ctx, input.ProductID)

	srv.log(ctx).Info("Review submitted",
		slog.Any("reviewID", review.ID),
		slog.Any("productID", input.ProductID),
		slog.String("status", string(status)))

	return review, nil
}

// ListByProduct returns the approved reviews together with the all-statuses
// average carried on the product.
func (srv *reviewService) ListByProduct(ctx context.Context, productID uuid.UUID) (*usecase.ProductReviewsOutput, error) {
	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	reviews, err := srv.reviewRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reviews")
	}

	approved := make([]*entity.Review, 0, len(reviews))
	for _, review := range reviews {
		if review.Status == entity.ReviewApproved {
			approved = append(approved, review)
		}
	}

	return &usecase.ProductReviewsOutput{
		Reviews:       approved,
		AverageRating: product.AverageRating,
	}, nil
}

// Approve publishes a pending review's comment. Decided reviews stay decided.
func (srv *reviewService) Approve(ctx context.Context, reviewID uuid.UUID) (*entity.Review, error) {
	return srv.moderate(ctx, reviewID, entity.ReviewApproved)
}

// Decline hides a pending review's comment. The rating keeps counting toward
// the product average either way.
func (srv *reviewService) Decline(ctx context.Context, reviewID uuid.UUID) (*entity.Review, error) {
	return srv.moderate(ctx, reviewID, entity.ReviewDeclined)
}

func (srv *reviewService) moderate(ctx context.Context, reviewID uuid.UUID, decision entity.ReviewStatus) (*entity.Review, error) {
	review, err := srv.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, domainerrors.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review")
	}

	if review.Status.IsTerminal() {
		return nil, domainerrors.ErrAlreadyProcessed
	}

	if err := srv.reviewRepo.UpdateStatus(ctx, reviewID, decision); err != nil {
		return nil, errors.Wrap(err, "failed to update review status")
	}

	review.Status = decision
	srv.log(ctx).Info("Review moderated",
		slog.Any("reviewID", reviewID), slog.String("decision", string(decision)))

	return review, nil
}

// recomputeAverage stores the mean rating over every review of the product,
// regardless of moderation status. A failure only logs: the review itself is
// already committed and the average self-heals on the next submit.
func (srv *reviewService) recomputeAverage(ctx context.Context, productID uuid.UUID) {
	reviews, err := srv.reviewRepo.ListByProduct(ctx, productID)
	if err != nil {
		srv.log(ctx).Error("Failed to list reviews for average",
			slog.Any("productID", productID), slog.Any("error", err))

		return
	}
	if len(reviews) == 0 {
		return
	}

	var sum int
	for _, review := range reviews {
		sum += review.Rating
	}
	average := float64(sum) / float64(len(reviews))

	if err := srv.productRepo.UpdateAverageRating(ctx, productID, average); err != nil {
		srv.log(ctx).Error("Failed to store average rating",
			slog.Any("productID", productID), slog.Any("error", err))
	}
}
