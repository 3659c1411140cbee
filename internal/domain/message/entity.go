// internal/domain/message/entity.go
package message

import (
	"time"

	"github.com/google/uuid"
)

// Message is one chat line between two users. Optimistic entries created
// at send-time carry a client-generated ulid in ID until (and unless) the
// persisted row replaces them in a later fetch; the data store remains
// authoritative.
type Message struct {
	ID         string        `json:"id" db:"id"`
	BookingID  uuid.NullUUID `json:"booking_id,omitempty" db:"booking_id"`
	SenderID   uuid.UUID     `json:"sender_id" db:"sender_id"`
	ReceiverID uuid.UUID     `json:"receiver_id" db:"receiver_id"`
	Text       string        `json:"text" db:"text"`
	IsRead     bool          `json:"is_read" db:"is_read"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
}
