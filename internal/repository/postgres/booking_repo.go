// internal/repository/postgres/booking_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sitterhub-service/internal/domain/booking"
	xerrors "sitterhub-service/internal/pkg/errors"
)

type BookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `
	id, parent_id, babysitter_id, start_time, end_time, status,
	total_price, notes, created_at, updated_at
`

// Create inserts a new booking request.
func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	query := `
		INSERT INTO bookings (parent_id, babysitter_id, start_time, end_time, status, total_price, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		b.ParentID, b.BabysitterID, b.StartTime, b.EndTime, b.Status, b.TotalPrice, b.Notes,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// FindByID retrieves a booking.
func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b booking.Booking
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.ParentID, &b.BabysitterID, &b.StartTime, &b.EndTime,
		&b.Status, &b.TotalPrice, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}
	return &b, nil
}

// ListByParent returns the parent's bookings, most recent start first.
func (r *BookingRepository) ListByParent(ctx context.Context, parentID uuid.UUID) ([]booking.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings WHERE parent_id = $1
		ORDER BY start_time DESC
	`
	return r.list(ctx, query, parentID)
}

// ListByBabysitter returns the sitter's bookings, most recent start first.
func (r *BookingRepository) ListByBabysitter(ctx context.Context, babysitterID uuid.UUID) ([]booking.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings WHERE babysitter_id = $1
		ORDER BY start_time DESC
	`
	return r.list(ctx, query, babysitterID)
}

// ListRecent returns the latest bookings across the platform, for the
// admin panel.
func (r *BookingRepository) ListRecent(ctx context.Context, limit int) ([]booking.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		ORDER BY start_time DESC
		LIMIT $1
	`
	return r.list(ctx, query, limit)
}

// UpdateStatus moves a booking to a new status, guarding ownership.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id, babysitterID uuid.UUID, status booking.Status) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE bookings SET status = $1, updated_at = now()
		WHERE id = $2 AND babysitter_id = $3
	`, status, id, babysitterID)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...interface{}) ([]booking.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []booking.Booking
	for rows.Next() {
		var b booking.Booking
		if err := rows.Scan(
			&b.ID, &b.ParentID, &b.BabysitterID, &b.StartTime, &b.EndTime,
			&b.Status, &b.TotalPrice, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
