package services

import (
	"context"
	"strings"

	"github.com/joshua-takyi/jirani/internal/apperrors"
	"github.com/joshua-takyi/jirani/internal/models"
)

type ReviewService struct {
	reviews  models.ReviewsRepo
	requests models.RequestRepo
}

func NewReviewService(reviews models.ReviewsRepo, requests models.RequestRepo) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		requests: requests,
	}
}

// CreateReview records a seeker's review of one of their completed requests.
func (rs *ReviewService) CreateReview(ctx context.Context, seekerID int64, in models.ReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperrors.NewValidationError("Rating must be between 1 and 5")
	}
	text := strings.TrimSpace(in.Review)
	if text == "" {
		return nil, apperrors.NewValidationError("Review text is required")
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	req, err := rs.requests.GetRequest(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if req.UserID != seekerID {
		return nil, apperrors.NewForbiddenError("Not authorized to review this request")
	}
	if req.Status != models.StatusCompleted {
		return nil, apperrors.NewConflictError("Only completed requests can be reviewed")
	}

	requestID := req.ID
	return rs.reviews.CreateReview(ctx, &models.Review{
		RequestID:  &requestID,
		UserID:     seekerID,
		ProviderID: req.ProviderID,
		Review:     text,
		Rating:     in.Rating,
	})
}

func (rs *ReviewService) ListAllReviews(ctx context.Context) ([]*models.Review, error) {
	return rs.reviews.ListReviews(ctx)
}

func (rs *ReviewService) ListProviderReviews(ctx context.Context, providerID int64) ([]*models.Review, error) {
	return rs.reviews.ListReviewsByProvider(ctx, providerID)
}
