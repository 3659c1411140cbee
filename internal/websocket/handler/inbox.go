// internal/websocket/handlers/inbox_handler.go
package handlers

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"sitterhub-service/internal/domain/message"
	wstypes "sitterhub-service/internal/domain/websocket"
	"sitterhub-service/internal/service/inbox"
	ws "sitterhub-service/internal/websocket"
)

// InboxHandler wires one inbox synchronizer per connected client. The
// synchronizer owns the open conversation's message list; this handler
// translates between websocket events and its operations.
type InboxHandler struct {
	store  inbox.MessageStore
	feed   inbox.Feed
	logger *zap.Logger

	mu    sync.Mutex
	syncs map[*ws.Client]*inbox.Synchronizer
}

func NewInboxHandler(store inbox.MessageStore, feed inbox.Feed, logger *zap.Logger) *InboxHandler {
	return &InboxHandler{
		store:  store,
		feed:   feed,
		logger: logger,
		syncs:  make(map[*ws.Client]*inbox.Synchronizer),
	}
}

// SupportedEvents returns events this handler supports
func (h *InboxHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{
		wstypes.EventTypeConversationOpen,
		wstypes.EventTypeConversationClose,
		wstypes.EventTypeMessageSend,
	}
}

// HandleMessage processes inbox-related messages
func (h *InboxHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	switch msg.Type {
	case wstypes.EventTypeConversationOpen:
		return h.handleOpen(ctx, client, msg)

	case wstypes.EventTypeConversationClose:
		return h.handleClose(client)

	case wstypes.EventTypeMessageSend:
		return h.handleSend(ctx, client, msg)

	default:
		return fmt.Errorf("unsupported event type: %s", msg.Type)
	}
}

// synchronizer returns the client's synchronizer, creating it on first
// use and tying its teardown to the connection.
func (h *InboxHandler) synchronizer(client *ws.Client) *inbox.Synchronizer {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s, ok := h.syncs[client]; ok {
		return s
	}

	s := inbox.NewSynchronizer(h.store, h.feed, client.GetIdentityID(), h.logger)
	s.OnAppend(func(m message.Message) {
		// Locally sent lines are already on the client's screen; only
		// counterpart arrivals need a push.
		if m.SenderID == client.GetIdentityID() {
			return
		}
		client.SendMessage(wstypes.NewMessage(wstypes.EventTypeMessageNew, m))
	})
	h.syncs[client] = s

	client.AddCloseHook(func() {
		s.Close()
		h.mu.Lock()
		delete(h.syncs, client)
		h.mu.Unlock()
	})
	return s
}

func (h *InboxHandler) handleOpen(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	var req wstypes.OpenConversationRequest
	if err := mapToStruct(msg.Data, &req); err != nil {
		client.SendError("invalid_request", "Invalid open conversation request", err.Error())
		return err
	}

	history, err := h.synchronizer(client).OpenConversation(ctx, req.CounterpartID)
	if err != nil {
		client.SendError("open_failed", "Failed to open conversation", err.Error())
		return err
	}

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConversationHistory, wstypes.ConversationHistoryData{
		CounterpartID: req.CounterpartID,
		Messages:      history,
	}))
	return nil
}

func (h *InboxHandler) handleClose(client *ws.Client) error {
	h.mu.Lock()
	s, ok := h.syncs[client]
	h.mu.Unlock()
	if ok {
		s.Close()
	}
	return nil
}

func (h *InboxHandler) handleSend(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	var req wstypes.SendMessageRequest
	if err := mapToStruct(msg.Data, &req); err != nil {
		client.SendError("invalid_request", "Invalid send message request", err.Error())
		return err
	}

	queued, err := h.synchronizer(client).SendMessage(ctx, req.Text)
	if err != nil {
		client.SendError("send_failed", "Failed to send message", err.Error())
		return err
	}

	// Echo the optimistic entry so the client can render it immediately.
	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeMessageQueued, queued))
	return nil
}
