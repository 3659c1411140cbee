// internal/domain/review/dto.go
package review

import "github.com/google/uuid"

type CreateReviewRequest struct {
	BookingID    uuid.UUID `json:"booking_id" binding:"required"`
	BabysitterID uuid.UUID `json:"babysitter_id" binding:"required"`
	Rating       int       `json:"rating" binding:"required,min=1,max=5"`
	Comment      string    `json:"comment" binding:"max=2000"`
}
