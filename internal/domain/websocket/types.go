// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"sitterhub-service/internal/domain/message"
)

// EventType represents different real-time event types
type EventType string

const (
	// Connection events
	EventTypePing         EventType = "ping"
	EventTypePong         EventType = "pong"
	EventTypeConnected    EventType = "connected"
	EventTypeDisconnected EventType = "disconnected"
	EventTypeError        EventType = "error"

	// Inbox events (client -> server)
	EventTypeConversationOpen  EventType = "conversation:open"
	EventTypeConversationClose EventType = "conversation:close"
	EventTypeMessageSend       EventType = "message:send"

	// Inbox events (server -> client)
	EventTypeConversationHistory EventType = "conversation:history"
	EventTypeMessageNew          EventType = "message:new"
	EventTypeMessageQueued       EventType = "message:queued"

	// Booking events (server -> client)
	EventTypeBookingUpdate EventType = "booking:update"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType              `json:"type"`
	Data      interface{}            `json:"data,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	ID        string                 `json:"id,omitempty"`
}

// OpenConversationRequest selects the counterpart whose thread the client
// wants live.
type OpenConversationRequest struct {
	CounterpartID uuid.UUID `json:"counterpart_id"`
}

// SendMessageRequest carries an outgoing chat line for the open
// conversation.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// ConversationHistoryData is pushed after conversation:open with the full
// thread in ascending creation order.
type ConversationHistoryData struct {
	CounterpartID uuid.UUID         `json:"counterpart_id"`
	Messages      []message.Message `json:"messages"`
}

// ErrorData for error events
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Helper to create messages
func NewMessage(eventType EventType, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
		ID:        ulid.Make().String(),
	}
}

func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	err := json.Unmarshal(data, &msg)
	return &msg, err
}
