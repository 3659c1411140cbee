// internal/service/messaging/broker_test.go
package messaging

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sitterhub-service/internal/domain/message"
)

func TestBrokerDispatchRoutesByReceiver(t *testing.T) {
	b := NewBroker(nil, zap.NewNop())

	alice := uuid.New()
	bob := uuid.New()

	aliceCh, cancelAlice := b.SubscribeIncoming(alice)
	defer cancelAlice()
	bobCh, cancelBob := b.SubscribeIncoming(bob)
	defer cancelBob()

	b.dispatch(message.Message{ID: "m1", ReceiverID: alice, Text: "hi alice"})

	select {
	case msg := <-aliceCh:
		assert.Equal(t, "hi alice", msg.Text)
	case <-time.After(time.Second):
		t.Fatal("alice never received the message")
	}

	select {
	case msg := <-bobCh:
		t.Fatalf("bob received a message addressed to alice: %v", msg)
	default:
	}
}

func TestBrokerDispatchFansOutToAllReceiverSubs(t *testing.T) {
	b := NewBroker(nil, zap.NewNop())
	alice := uuid.New()

	ch1, cancel1 := b.SubscribeIncoming(alice)
	defer cancel1()
	ch2, cancel2 := b.SubscribeIncoming(alice)
	defer cancel2()

	b.dispatch(message.Message{ID: "m1", ReceiverID: alice})

	for _, ch := range []<-chan message.Message{ch1, ch2} {
		select {
		case msg := <-ch:
			assert.Equal(t, "m1", msg.ID)
		case <-time.After(time.Second):
			t.Fatal("subscriber missed the fanout")
		}
	}
}

func TestBrokerCancelClosesChannelAndStopsDelivery(t *testing.T) {
	b := NewBroker(nil, zap.NewNop())
	alice := uuid.New()

	ch, cancel := b.SubscribeIncoming(alice)
	cancel()
	cancel() // idempotent

	_, open := <-ch
	require.False(t, open)

	// Dispatch after cancel must not panic.
	b.dispatch(message.Message{ID: "m1", ReceiverID: alice})
}

func TestBrokerStalledSubscriberDoesNotBlockOthers(t *testing.T) {
	b := NewBroker(nil, zap.NewNop())
	alice := uuid.New()

	stalled, cancelStalled := b.SubscribeIncoming(alice)
	defer cancelStalled()
	_ = stalled // never drained
	live, cancelLive := b.SubscribeIncoming(alice)
	defer cancelLive()

	// Overflow the stalled subscriber's buffer.
	for i := 0; i < 64; i++ {
		b.dispatch(message.Message{ID: "m", ReceiverID: alice})
	}

	drained := 0
	for {
		select {
		case <-live:
			drained++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 32, drained, "live subscriber keeps up to its buffer, never blocks")
}
