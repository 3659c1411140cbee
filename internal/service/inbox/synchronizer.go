// internal/service/inbox/synchronizer.go
package inbox

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"sitterhub-service/internal/domain/message"
	xerrors "sitterhub-service/internal/pkg/errors"
)

// MessageStore is the persistence surface the synchronizer reads and
// writes through. Implemented by the messaging service.
type MessageStore interface {
	Conversation(ctx context.Context, userID, counterpartID uuid.UUID) ([]message.Message, error)
	MarkRead(ctx context.Context, receiverID, senderID uuid.UUID) error
	Insert(ctx context.Context, senderID, receiverID uuid.UUID, text string) (*message.Message, error)
}

// Feed delivers messages addressed to a receiver as they are persisted.
// The returned cancel func tears the subscription down.
type Feed interface {
	SubscribeIncoming(receiverID uuid.UUID) (<-chan message.Message, func())
}

// Synchronizer keeps the ordered message list for one user's currently
// open conversation: the historical fetch followed by live appends, in
// arrival order. One instance serves one connected user; at most one
// conversation is open at a time.
type Synchronizer struct {
	store  MessageStore
	feed   Feed
	logger *zap.Logger
	userID uuid.UUID

	// onAppend fires for every message appended after the historical
	// load, on the goroutine that produced the append.
	onAppend func(message.Message)

	mu          sync.Mutex
	open        bool
	counterpart uuid.UUID
	messages    []message.Message
	unsubscribe func()
	gen         uint64
}

func NewSynchronizer(store MessageStore, feed Feed, userID uuid.UUID, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{
		store:  store,
		feed:   feed,
		logger: logger,
		userID: userID,
	}
}

// OnAppend registers the live-append callback. Must be called before
// OpenConversation.
func (s *Synchronizer) OnAppend(fn func(message.Message)) {
	s.mu.Lock()
	s.onAppend = fn
	s.mu.Unlock()
}

// OpenConversation loads the full history with counterpartID ascending by
// creation time, marks the counterpart's messages to this user as read
// (best effort, not awaited), and subscribes to live arrivals from the
// counterpart. Any previously open conversation is torn down first.
func (s *Synchronizer) OpenConversation(ctx context.Context, counterpartID uuid.UUID) ([]message.Message, error) {
	s.Close()

	history, err := s.store.Conversation(ctx, s.userID, counterpartID)
	if err != nil {
		return nil, err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.store.MarkRead(ctx, s.userID, counterpartID); err != nil {
			s.logger.Warn("mark read failed",
				zap.String("user_id", s.userID.String()),
				zap.Error(err))
		}
	}()

	incoming, unsubscribe := s.feed.SubscribeIncoming(s.userID)

	s.mu.Lock()
	s.open = true
	s.counterpart = counterpartID
	s.messages = history
	s.unsubscribe = unsubscribe
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	go s.consume(gen, counterpartID, incoming)

	return append([]message.Message(nil), history...), nil
}

// consume appends arrivals from the open counterpart until the channel
// closes or the conversation is switched.
func (s *Synchronizer) consume(gen uint64, counterpartID uuid.UUID, incoming <-chan message.Message) {
	for msg := range incoming {
		if msg.SenderID != counterpartID {
			continue
		}
		s.append(gen, msg)
	}
}

// SendMessage appends an optimistic entry immediately and persists it in
// the background. A persist failure is logged and the optimistic entry
// stays in place; no rollback is attempted.
func (s *Synchronizer) SendMessage(ctx context.Context, text string) (*message.Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, xerrors.ErrInvalidInput
	}

	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return nil, xerrors.ErrConversationClosed
	}
	counterpartID := s.counterpart
	gen := s.gen
	s.mu.Unlock()

	now := time.Now()
	optimistic := message.Message{
		ID:         ulid.Make().String(),
		SenderID:   s.userID,
		ReceiverID: counterpartID,
		Text:       trimmed,
		IsRead:     false,
		CreatedAt:  now,
	}
	s.append(gen, optimistic)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := s.store.Insert(ctx, s.userID, counterpartID, trimmed); err != nil {
			s.logger.Error("message persist failed",
				zap.String("sender_id", s.userID.String()),
				zap.String("receiver_id", counterpartID.String()),
				zap.Error(err))
		}
	}()

	return &optimistic, nil
}

// Close tears down the live subscription and drops the cached list. Safe
// to call when nothing is open.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.open = false
	s.unsubscribe = nil
	s.messages = nil
	s.gen++
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Messages returns a copy of the current ordered list.
func (s *Synchronizer) Messages() []message.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]message.Message(nil), s.messages...)
}

// append adds msg if the conversation it belongs to is still the open one.
// No re-sort happens here: arrival order is preserved even when the
// optimistic timestamp and the persisted row's timestamp disagree.
func (s *Synchronizer) append(gen uint64, msg message.Message) {
	s.mu.Lock()
	if !s.open || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.messages = append(s.messages, msg)
	fn := s.onAppend
	s.mu.Unlock()

	if fn != nil {
		fn(msg)
	}
}
