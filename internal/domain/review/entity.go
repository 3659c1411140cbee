// internal/domain/review/entity.go
package review

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	BookingID    uuid.UUID      `json:"booking_id" db:"booking_id"`
	ParentID     uuid.UUID      `json:"parent_id" db:"parent_id"`
	BabysitterID uuid.UUID      `json:"babysitter_id" db:"babysitter_id"`
	Rating       int            `json:"rating" db:"rating"`
	Comment      sql.NullString `json:"comment,omitempty" db:"comment"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}

// Aggregate computes the denormalized rating fields stored on the
// babysitter profile. Ratings outside 1..5 are ignored.
func Aggregate(ratings []int) (avg float64, count int) {
	sum := 0
	for _, r := range ratings {
		if r < 1 || r > 5 {
			continue
		}
		sum += r
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return float64(sum) / float64(count), count
}
