// internal/domain/availability/entity.go
package availability

import (
	"time"

	"github.com/google/uuid"
)

// Slot is one weekly availability window for a sitter. DayOfWeek follows
// time.Weekday numbering (0 = Sunday).
type Slot struct {
	ID           uuid.UUID `json:"id" db:"id"`
	BabysitterID uuid.UUID `json:"babysitter_id" db:"babysitter_id"`
	DayOfWeek    int       `json:"day_of_week" db:"day_of_week"`
	StartTime    string    `json:"start_time" db:"start_time"`
	EndTime      string    `json:"end_time" db:"end_time"`
	IsAvailable  bool      `json:"is_available" db:"is_available"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type SlotInput struct {
	DayOfWeek   int    `json:"day_of_week" binding:"min=0,max=6"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	IsAvailable bool   `json:"is_available"`
}

// ReplaceSlotsRequest replaces the sitter's full weekly schedule.
type ReplaceSlotsRequest struct {
	Slots []SlotInput `json:"slots" binding:"dive"`
}
