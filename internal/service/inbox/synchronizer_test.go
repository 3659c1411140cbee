// internal/service/inbox/synchronizer_test.go
package inbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sitterhub-service/internal/domain/message"
	xerrors "sitterhub-service/internal/pkg/errors"
)

type fakeStore struct {
	mu        sync.Mutex
	history   []message.Message
	inserted  []message.Message
	insertErr error
	markReads int
}

func (f *fakeStore) Conversation(ctx context.Context, userID, counterpartID uuid.UUID) ([]message.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]message.Message(nil), f.history...), nil
}

func (f *fakeStore) MarkRead(ctx context.Context, receiverID, senderID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markReads++
	return nil
}

func (f *fakeStore) Insert(ctx context.Context, senderID, receiverID uuid.UUID, text string) (*message.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	msg := message.Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		CreatedAt:  time.Now(),
	}
	f.inserted = append(f.inserted, msg)
	return &msg, nil
}

func (f *fakeStore) insertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inserted)
}

type fakeFeed struct {
	mu     sync.Mutex
	subs   map[int]chan message.Message
	nextID int
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{subs: make(map[int]chan message.Message)}
}

func (f *fakeFeed) SubscribeIncoming(receiverID uuid.UUID) (<-chan message.Message, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	ch := make(chan message.Message, 16)
	f.subs[id] = ch

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if c, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

func (f *fakeFeed) push(msg message.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		ch <- msg
	}
}

func (f *fakeFeed) activeSubs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func historyMessage(sender, receiver uuid.UUID, text string, at time.Time) message.Message {
	return message.Message{
		ID:         uuid.NewString(),
		SenderID:   sender,
		ReceiverID: receiver,
		Text:       text,
		CreatedAt:  at,
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never met")
}

func TestOpenConversationOrderingWithOptimisticAndArrival(t *testing.T) {
	user := uuid.New()
	counterpart := uuid.New()
	base := time.Now().Add(-time.Hour)

	store := &fakeStore{history: []message.Message{
		historyMessage(counterpart, user, "t1", base),
		historyMessage(user, counterpart, "t2", base.Add(time.Minute)),
	}}
	feed := newFakeFeed()
	s := NewSynchronizer(store, feed, user, zap.NewNop())

	history, err := s.OpenConversation(context.Background(), counterpart)
	require.NoError(t, err)
	require.Len(t, history, 2)

	sent, err := s.SendMessage(context.Background(), "optimistic")
	require.NoError(t, err)
	assert.False(t, sent.IsRead)
	assert.Equal(t, user, sent.SenderID)

	feed.push(historyMessage(counterpart, user, "arrival", time.Now()))
	waitFor(t, func() bool { return len(s.Messages()) == 4 })

	var texts []string
	for _, m := range s.Messages() {
		texts = append(texts, m.Text)
	}
	assert.Equal(t, []string{"t1", "t2", "optimistic", "arrival"}, texts)
}

func TestOpenConversationFiltersOtherSenders(t *testing.T) {
	user := uuid.New()
	counterpart := uuid.New()
	stranger := uuid.New()

	store := &fakeStore{}
	feed := newFakeFeed()
	s := NewSynchronizer(store, feed, user, zap.NewNop())

	_, err := s.OpenConversation(context.Background(), counterpart)
	require.NoError(t, err)

	feed.push(historyMessage(stranger, user, "off topic", time.Now()))
	feed.push(historyMessage(counterpart, user, "on topic", time.Now()))
	waitFor(t, func() bool { return len(s.Messages()) == 1 })

	assert.Equal(t, "on topic", s.Messages()[0].Text)
}

func TestSwitchingConversationTearsDownPriorSubscription(t *testing.T) {
	user := uuid.New()
	a := uuid.New()
	b := uuid.New()

	store := &fakeStore{}
	feed := newFakeFeed()
	s := NewSynchronizer(store, feed, user, zap.NewNop())

	_, err := s.OpenConversation(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, 1, feed.activeSubs())

	_, err = s.OpenConversation(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, 1, feed.activeSubs(), "at most one live subscription after switching")

	// A message from the old counterpart must not land in the new list.
	feed.push(historyMessage(a, user, "stale", time.Now()))
	feed.push(historyMessage(b, user, "fresh", time.Now()))
	waitFor(t, func() bool { return len(s.Messages()) == 1 })
	assert.Equal(t, "fresh", s.Messages()[0].Text)
}

func TestSendMessageRequiresOpenConversationAndText(t *testing.T) {
	s := NewSynchronizer(&fakeStore{}, newFakeFeed(), uuid.New(), zap.NewNop())

	_, err := s.SendMessage(context.Background(), "hello")
	assert.ErrorIs(t, err, xerrors.ErrConversationClosed)

	_, err = s.OpenConversation(context.Background(), uuid.New())
	require.NoError(t, err)

	_, err = s.SendMessage(context.Background(), "   ")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestSendMessagePersistFailureKeepsOptimisticEntry(t *testing.T) {
	user := uuid.New()
	store := &fakeStore{insertErr: errors.New("db down")}
	s := NewSynchronizer(store, newFakeFeed(), user, zap.NewNop())

	_, err := s.OpenConversation(context.Background(), uuid.New())
	require.NoError(t, err)

	sent, err := s.SendMessage(context.Background(), "  hi there ")
	require.NoError(t, err)
	assert.Equal(t, "hi there", sent.Text)

	// The persist runs in the background and fails; the list keeps the
	// optimistic entry regardless.
	time.Sleep(50 * time.Millisecond)
	require.Len(t, s.Messages(), 1)
	assert.Equal(t, sent.ID, s.Messages()[0].ID)
}

func TestSendMessagePersistsInBackground(t *testing.T) {
	user := uuid.New()
	counterpart := uuid.New()
	store := &fakeStore{}
	s := NewSynchronizer(store, newFakeFeed(), user, zap.NewNop())

	_, err := s.OpenConversation(context.Background(), counterpart)
	require.NoError(t, err)

	_, err = s.SendMessage(context.Background(), "persist me")
	require.NoError(t, err)

	waitFor(t, func() bool { return store.insertCount() == 1 })
	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, counterpart, store.inserted[0].ReceiverID)
	assert.Equal(t, "persist me", store.inserted[0].Text)
}

func TestCloseDropsCacheAndSubscription(t *testing.T) {
	user := uuid.New()
	counterpart := uuid.New()
	store := &fakeStore{history: []message.Message{
		historyMessage(counterpart, user, "hello", time.Now()),
	}}
	feed := newFakeFeed()
	s := NewSynchronizer(store, feed, user, zap.NewNop())

	_, err := s.OpenConversation(context.Background(), counterpart)
	require.NoError(t, err)

	s.Close()
	assert.Zero(t, feed.activeSubs())
	assert.Empty(t, s.Messages())

	s.Close() // idempotent
}
