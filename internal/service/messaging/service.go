// internal/service/messaging/service.go
package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"sitterhub-service/internal/domain/message"
	xerrors "sitterhub-service/internal/pkg/errors"
)

// Repository is the persistence surface for messages.
type Repository interface {
	Conversation(ctx context.Context, userID, counterpartID uuid.UUID) ([]message.Message, error)
	MarkRead(ctx context.Context, receiverID, senderID uuid.UUID) error
	Insert(ctx context.Context, senderID, receiverID uuid.UUID, text string) (*message.Message, error)
	CounterpartIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	LastMessageText(ctx context.Context, userID, counterpartID uuid.UUID) (string, error)
}

// NameLookup resolves display names for contact lists.
type NameLookup interface {
	NamesByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error)
}

// Service persists messages and hands them to the broker for live
// delivery. It satisfies inbox.MessageStore.
type Service struct {
	repo     Repository
	profiles NameLookup
	broker   *Broker
	logger   *zap.Logger
}

func NewService(repo Repository, profiles NameLookup, broker *Broker, logger *zap.Logger) *Service {
	return &Service{repo: repo, profiles: profiles, broker: broker, logger: logger}
}

func (s *Service) Conversation(ctx context.Context, userID, counterpartID uuid.UUID) ([]message.Message, error) {
	return s.repo.Conversation(ctx, userID, counterpartID)
}

func (s *Service) MarkRead(ctx context.Context, receiverID, senderID uuid.UUID) error {
	return s.repo.MarkRead(ctx, receiverID, senderID)
}

// Insert persists the message, then publishes it for live delivery. A
// publish failure does not fail the send; the receiver sees the message
// on their next history fetch.
func (s *Service) Insert(ctx context.Context, senderID, receiverID uuid.UUID, text string) (*message.Message, error) {
	if senderID == receiverID {
		return nil, xerrors.ErrInvalidInput
	}

	msg, err := s.repo.Insert(ctx, senderID, receiverID, text)
	if err != nil {
		return nil, fmt.Errorf("failed to persist message: %w", err)
	}

	if err := s.broker.Publish(ctx, msg); err != nil {
		s.logger.Warn("live delivery publish failed",
			zap.String("message_id", msg.ID),
			zap.Error(err))
	}
	return msg, nil
}

// Contacts returns the user's inbox sidebar: every counterpart they have
// messaged with, newest conversation first, with display names and the
// last exchanged line.
func (s *Service) Contacts(ctx context.Context, userID uuid.UUID) ([]message.ContactEntry, error) {
	ids, err := s.repo.CounterpartIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []message.ContactEntry{}, nil
	}

	names, err := s.profiles.NamesByUserIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("contact name lookup failed", zap.Error(err))
		names = map[uuid.UUID]string{}
	}

	entries := make([]message.ContactEntry, 0, len(ids))
	for _, id := range ids {
		entry := message.ContactEntry{UserID: id, Name: names[id]}
		last, err := s.repo.LastMessageText(ctx, userID, id)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("last message lookup failed",
				zap.String("counterpart_id", id.String()),
				zap.Error(err))
		}
		entry.LastMessage = last
		entries = append(entries, entry)
	}
	return entries, nil
}
