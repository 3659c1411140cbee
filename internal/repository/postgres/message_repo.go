// internal/repository/postgres/message_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"sitterhub-service/internal/domain/message"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Conversation returns every message between the two users, both
// directions, ascending by creation time.
func (r *MessageRepository) Conversation(ctx context.Context, userID, counterpartID uuid.UUID) ([]message.Message, error) {
	query := `
		SELECT id, booking_id, sender_id, receiver_id, text, is_read, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, userID, counterpartID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversation: %w", err)
	}
	defer rows.Close()

	var messages []message.Message
	for rows.Next() {
		var m message.Message
		if err := rows.Scan(
			&m.ID, &m.BookingID, &m.SenderID, &m.ReceiverID,
			&m.Text, &m.IsRead, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkRead flags every message from sender to receiver as read.
func (r *MessageRepository) MarkRead(ctx context.Context, receiverID, senderID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE messages SET is_read = TRUE
		WHERE receiver_id = $1 AND sender_id = $2 AND is_read = FALSE
	`, receiverID, senderID)
	if err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}

// Insert persists a new message and returns the stored row.
func (r *MessageRepository) Insert(ctx context.Context, senderID, receiverID uuid.UUID, text string) (*message.Message, error) {
	query := `
		INSERT INTO messages (sender_id, receiver_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, booking_id, sender_id, receiver_id, text, is_read, created_at
	`
	var m message.Message
	err := r.db.QueryRow(ctx, query, senderID, receiverID, text).Scan(
		&m.ID, &m.BookingID, &m.SenderID, &m.ReceiverID,
		&m.Text, &m.IsRead, &m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}
	return &m, nil
}

// CounterpartIDs returns the distinct users this user has exchanged
// messages with, most recent conversation first.
func (r *MessageRepository) CounterpartIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT counterpart FROM (
			SELECT CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS counterpart,
			       MAX(created_at) AS last_at
			FROM messages
			WHERE sender_id = $1 OR receiver_id = $1
			GROUP BY counterpart
		) c
		ORDER BY last_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list counterparts: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan counterpart: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LastMessageText returns the latest message text exchanged with the
// counterpart, for inbox sidebars.
func (r *MessageRepository) LastMessageText(ctx context.Context, userID, counterpartID uuid.UUID) (string, error) {
	query := `
		SELECT text FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at DESC
		LIMIT 1
	`
	var text string
	if err := r.db.QueryRow(ctx, query, userID, counterpartID).Scan(&text); err != nil {
		return "", err
	}
	return text, nil
}
