// internal/service/booking/booking_service.go
package booking

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sitterhub-service/internal/domain/booking"
	xerrors "sitterhub-service/internal/pkg/errors"
	"sitterhub-service/internal/repository/postgres"
)

type BookingService struct {
	bookingRepo *postgres.BookingRepository
	profileRepo *postgres.ProfileRepository
	logger      *zap.Logger
}

func NewBookingService(bookingRepo *postgres.BookingRepository, profileRepo *postgres.ProfileRepository, logger *zap.Logger) *BookingService {
	return &BookingService{bookingRepo: bookingRepo, profileRepo: profileRepo, logger: logger}
}

// Create opens a pending booking from a parent to a sitter. The sitter
// must have a listing; the time window must be coherent.
func (s *BookingService) Create(ctx context.Context, parentID uuid.UUID, req *booking.CreateBookingRequest) (*booking.Booking, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, xerrors.ErrInvalidInput
	}
	if req.BabysitterID == parentID {
		return nil, xerrors.ErrInvalidInput
	}

	if _, err := s.profileRepo.FindBabysitterByUserID(ctx, req.BabysitterID); err != nil {
		return nil, xerrors.ErrNotFound
	}

	b := &booking.Booking{
		ParentID:     parentID,
		BabysitterID: req.BabysitterID,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Status:       booking.StatusPending,
		Notes:        sql.NullString{String: req.Notes, Valid: req.Notes != ""},
	}
	if req.TotalPrice != nil {
		b.TotalPrice = sql.NullFloat64{Float64: *req.TotalPrice, Valid: true}
	}

	if err := s.bookingRepo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.logger.Info("booking created",
		zap.String("booking_id", b.ID.String()),
		zap.String("parent_id", parentID.String()),
		zap.String("babysitter_id", req.BabysitterID.String()))
	return b, nil
}

// UpdateStatus moves a booking along its lifecycle. Only the booked
// sitter may change status, and only along allowed transitions.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID, babysitterID uuid.UUID, next booking.Status) (*booking.Booking, error) {
	b, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.BabysitterID != babysitterID {
		return nil, xerrors.ErrForbidden
	}
	if !b.Status.CanTransition(next) {
		return nil, fmt.Errorf("cannot move booking from %s to %s: %w", b.Status, next, xerrors.ErrConflict)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, babysitterID, next); err != nil {
		return nil, err
	}
	b.Status = next
	return b, nil
}

func (s *BookingService) Get(ctx context.Context, bookingID, requesterID uuid.UUID) (*booking.Booking, error) {
	b, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.ParentID != requesterID && b.BabysitterID != requesterID {
		return nil, xerrors.ErrForbidden
	}
	return b, nil
}

// ListForParent returns the parent's bookings decorated with sitter names.
func (s *BookingService) ListForParent(ctx context.Context, parentID uuid.UUID) ([]booking.BookingWithNames, error) {
	bookings, err := s.bookingRepo.ListByParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return s.withNames(ctx, bookings), nil
}

// ListForBabysitter returns the sitter's bookings decorated with parent names.
func (s *BookingService) ListForBabysitter(ctx context.Context, babysitterID uuid.UUID) ([]booking.BookingWithNames, error) {
	bookings, err := s.bookingRepo.ListByBabysitter(ctx, babysitterID)
	if err != nil {
		return nil, err
	}
	return s.withNames(ctx, bookings), nil
}

// withNames resolves display names in one batch. A lookup failure leaves
// names blank rather than failing the listing.
func (s *BookingService) withNames(ctx context.Context, bookings []booking.Booking) []booking.BookingWithNames {
	ids := make([]uuid.UUID, 0, len(bookings)*2)
	for _, b := range bookings {
		ids = append(ids, b.ParentID, b.BabysitterID)
	}

	names, err := s.profileRepo.NamesByUserIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("booking name lookup failed", zap.Error(err))
		names = map[uuid.UUID]string{}
	}

	out := make([]booking.BookingWithNames, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, booking.BookingWithNames{
			Booking:        b,
			ParentName:     names[b.ParentID],
			BabysitterName: names[b.BabysitterID],
		})
	}
	return out
}
