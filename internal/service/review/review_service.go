// internal/service/review/review_service.go
package review

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sitterhub-service/internal/domain/booking"
	"sitterhub-service/internal/domain/review"
	xerrors "sitterhub-service/internal/pkg/errors"
	"sitterhub-service/internal/repository/postgres"
)

type ReviewService struct {
	reviewRepo  *postgres.ReviewRepository
	bookingRepo *postgres.BookingRepository
	profileRepo *postgres.ProfileRepository
	logger      *zap.Logger
}

func NewReviewService(
	reviewRepo *postgres.ReviewRepository,
	bookingRepo *postgres.BookingRepository,
	profileRepo *postgres.ProfileRepository,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Create records a review for a completed booking and refreshes the
// sitter's denormalized rating. One review per booking, parent only.
func (s *ReviewService) Create(ctx context.Context, parentID uuid.UUID, req *review.CreateReviewRequest) (*review.Review, error) {
	b, err := s.bookingRepo.FindByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if b.ParentID != parentID {
		return nil, xerrors.ErrForbidden
	}
	if b.BabysitterID != req.BabysitterID {
		return nil, xerrors.ErrInvalidInput
	}
	if b.Status != booking.StatusCompleted {
		return nil, fmt.Errorf("booking is %s, not completed: %w", b.Status, xerrors.ErrConflict)
	}

	exists, err := s.reviewRepo.ExistsForBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, xerrors.ErrDuplicateEntry
	}

	rev := &review.Review{
		BookingID:    req.BookingID,
		ParentID:     parentID,
		BabysitterID: req.BabysitterID,
		Rating:       req.Rating,
		Comment:      sql.NullString{String: req.Comment, Valid: req.Comment != ""},
	}
	if err := s.reviewRepo.Create(ctx, rev); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.refreshRating(ctx, req.BabysitterID)
	return rev, nil
}

func (s *ReviewService) ListForBabysitter(ctx context.Context, babysitterID uuid.UUID, limit int) ([]review.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.reviewRepo.ListForBabysitter(ctx, babysitterID, limit)
}

// refreshRating recomputes the sitter's aggregate from all ratings. A
// failure here leaves the denormalized value stale until the next review.
func (s *ReviewService) refreshRating(ctx context.Context, babysitterID uuid.UUID) {
	ratings, err := s.reviewRepo.RatingsForBabysitter(ctx, babysitterID)
	if err != nil {
		s.logger.Error("failed to load ratings for aggregate",
			zap.String("babysitter_id", babysitterID.String()),
			zap.Error(err))
		return
	}

	avg, count := review.Aggregate(ratings)
	if err := s.profileRepo.UpdateRating(ctx, babysitterID, avg, count); err != nil {
		s.logger.Error("failed to store rating aggregate",
			zap.String("babysitter_id", babysitterID.String()),
			zap.Error(err))
	}
}
