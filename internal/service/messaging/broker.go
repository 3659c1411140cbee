// internal/service/messaging/broker.go
package messaging

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sitterhub-service/internal/domain/message"
)

const messageChannel = "inbox:messages"

// Broker fans persisted messages out to the receiver's live subscribers.
// Publishes go through a redis channel so every api instance sees every
// message; each instance then dispatches to the websocket clients it holds.
type Broker struct {
	rdb    *redis.Client
	logger *zap.Logger

	mu   sync.RWMutex
	subs map[uuid.UUID]map[chan message.Message]struct{}
}

func NewBroker(rdb *redis.Client, logger *zap.Logger) *Broker {
	return &Broker{
		rdb:    rdb,
		logger: logger,
		subs:   make(map[uuid.UUID]map[chan message.Message]struct{}),
	}
}

// SubscribeIncoming registers for messages addressed to receiverID. The
// cancel func must be called on conversation switch and teardown.
func (b *Broker) SubscribeIncoming(receiverID uuid.UUID) (<-chan message.Message, func()) {
	ch := make(chan message.Message, 32)

	b.mu.Lock()
	if b.subs[receiverID] == nil {
		b.subs[receiverID] = make(map[chan message.Message]struct{})
	}
	b.subs[receiverID][ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		set, ok := b.subs[receiverID]
		if !ok {
			return
		}
		if _, ok := set[ch]; ok {
			delete(set, ch)
			close(ch)
		}
		if len(set) == 0 {
			delete(b.subs, receiverID)
		}
	}
	return ch, cancel
}

// Publish pushes msg onto the redis channel. Local subscribers receive it
// through the Run loop like everyone else, so delivery order matches
// across instances.
func (b *Broker) Publish(ctx context.Context, msg *message.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, messageChannel, payload).Err()
}

// Run consumes the redis channel and dispatches to local subscribers
// until ctx is cancelled.
func (b *Broker) Run(ctx context.Context) {
	sub := b.rdb.Subscribe(ctx, messageChannel)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-sub.Channel():
			if !ok {
				return
			}
			var msg message.Message
			if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
				b.logger.Warn("dropping malformed broker payload", zap.Error(err))
				continue
			}
			b.dispatch(msg)
		}
	}
}

func (b *Broker) dispatch(msg message.Message) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[msg.ReceiverID] {
		select {
		case ch <- msg:
		default:
			// A stalled subscriber loses the message rather than
			// blocking delivery to everyone else.
		}
	}
}
