// internal/domain/booking/entity.go
package booking

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// CanTransition reports whether a booking may move from s to next.
// Pending bookings are confirmed or cancelled by the sitter; confirmed
// bookings complete after the job or get cancelled. Completed and
// cancelled are terminal.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Booking records a parent's request for a sitter's time. TotalPrice is
// the price computed at request time; no payment flows through the
// platform.
type Booking struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ParentID     uuid.UUID `json:"parent_id" db:"parent_id"`
	BabysitterID uuid.UUID `json:"babysitter_id" db:"babysitter_id"`

	StartTime  time.Time       `json:"start_time" db:"start_time"`
	EndTime    time.Time       `json:"end_time" db:"end_time"`
	Status     Status          `json:"status" db:"status"`
	TotalPrice sql.NullFloat64 `json:"total_price,omitempty" db:"total_price"`
	Notes      sql.NullString  `json:"notes,omitempty" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
