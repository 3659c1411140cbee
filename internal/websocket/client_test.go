// internal/websocket/client_test.go
package websocket

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	wstypes "sitterhub-service/internal/domain/websocket"
)

func newTestClient(hub *Hub) *Client {
	return NewClient(hub, nil, &ClientAuth{
		IdentityID: uuid.New(),
		SessionID:  "test-session",
	})
}

func TestSendMessageDropsWhenBufferFullAndHubBusy(t *testing.T) {
	// Nothing drains the hub's unregister channel, as when the hub
	// goroutine is mid-broadcast. The overflow path must not block on it.
	hub := NewHub(nil, nil)
	client := newTestClient(hub)
	for len(client.send) < cap(client.send) {
		client.send <- []byte("{}")
	}

	done := make(chan struct{})
	go func() {
		client.SendMessage(wstypes.NewMessage(wstypes.EventTypePong, nil))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SendMessage blocked with a full buffer and a busy hub")
	}
}

func TestSendMessageOverflowStillUnregistersWhenHubReady(t *testing.T) {
	hub := NewHub(nil, nil)
	client := newTestClient(hub)
	for len(client.send) < cap(client.send) {
		client.send <- []byte("{}")
	}

	got := make(chan *Client, 1)
	go func() {
		got <- <-hub.unregister
	}()

	// Give the receiver a moment to park on the channel.
	time.Sleep(10 * time.Millisecond)
	client.SendMessage(wstypes.NewMessage(wstypes.EventTypePong, nil))

	select {
	case c := <-got:
		assert.Same(t, client, c)
	case <-time.After(time.Second):
		t.Fatal("overflow never handed the client to the hub")
	}
}
