package timeout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDoReturnsValue(t *testing.T) {
	got := Do(context.Background(), time.Second, "fallback", func(context.Context) (string, error) {
		return "value", nil
	})
	assert.Equal(t, "value", got)
}

func TestDoFallsBackOnError(t *testing.T) {
	got := Do(context.Background(), time.Second, 42, func(context.Context) (int, error) {
		return 0, errors.New("boom")
	})
	assert.Equal(t, 42, got)
}

func TestDoFallsBackOnDeadline(t *testing.T) {
	start := time.Now()
	got := Do(context.Background(), 50*time.Millisecond, "fallback", func(context.Context) (string, error) {
		// Never resolves within the window.
		time.Sleep(5 * time.Second)
		return "late", nil
	})
	assert.Equal(t, "fallback", got)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDoFallsBackOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := Do(ctx, time.Second, "fallback", func(context.Context) (string, error) {
		time.Sleep(5 * time.Second)
		return "late", nil
	})
	assert.Equal(t, "fallback", got)
}
