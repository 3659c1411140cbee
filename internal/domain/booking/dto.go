// internal/domain/booking/dto.go
package booking

import (
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	BabysitterID uuid.UUID `json:"babysitter_id" binding:"required"`
	StartTime    time.Time `json:"start_time" binding:"required"`
	EndTime      time.Time `json:"end_time" binding:"required"`
	TotalPrice   *float64  `json:"total_price" binding:"omitempty,min=0"`
	Notes        string    `json:"notes"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=confirmed completed cancelled"`
}

// BookingWithNames decorates a booking with display names resolved from
// the profile tables, for dashboard listings.
type BookingWithNames struct {
	Booking
	ParentName     string `json:"parent_name,omitempty"`
	BabysitterName string `json:"babysitter_name,omitempty"`
}
