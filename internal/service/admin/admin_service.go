// internal/service/admin/admin_service.go
package admin

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sitterhub-service/internal/domain/auth"
	"sitterhub-service/internal/domain/booking"
	"sitterhub-service/internal/domain/profile"
	"sitterhub-service/internal/repository/postgres"
)

// AdminService backs the moderation surface: account listings, sitter
// verification and recent platform activity.
type AdminService struct {
	authRepo    *postgres.AuthRepository
	profileRepo *postgres.ProfileRepository
	bookingRepo *postgres.BookingRepository
	logger      *zap.Logger
}

func NewAdminService(
	authRepo *postgres.AuthRepository,
	profileRepo *postgres.ProfileRepository,
	bookingRepo *postgres.BookingRepository,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		authRepo:    authRepo,
		profileRepo: profileRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

func (s *AdminService) ListIdentities(ctx context.Context, limit int) ([]auth.Identity, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.authRepo.ListIdentities(ctx, limit)
}

func (s *AdminService) ListBabysitters(ctx context.Context, limit int) ([]profile.BabysitterProfile, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.profileRepo.ListBabysitters(ctx, limit)
}

// SetVerification toggles the verified badge on a sitter's listing.
func (s *AdminService) SetVerification(ctx context.Context, babysitterUserID uuid.UUID, verified bool) error {
	if err := s.profileRepo.SetVerification(ctx, babysitterUserID, verified); err != nil {
		return err
	}
	s.logger.Info("sitter verification updated",
		zap.String("user_id", babysitterUserID.String()),
		zap.Bool("verified", verified))
	return nil
}

func (s *AdminService) RecentBookings(ctx context.Context, limit int) ([]booking.Booking, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.bookingRepo.ListRecent(ctx, limit)
}
