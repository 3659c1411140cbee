// internal/domain/message/dto.go
package message

import "github.com/google/uuid"

type SendMessageRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id" binding:"required"`
	Text       string    `json:"text" binding:"required,max=4000"`
}

// ContactEntry is one row in the inbox sidebar: a counterpart and the
// latest message exchanged with them.
type ContactEntry struct {
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	LastMessage string    `json:"last_message,omitempty"`
}
