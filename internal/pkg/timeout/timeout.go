// internal/pkg/timeout/timeout.go
package timeout

import (
	"context"
	"time"
)

// Do races fn against a fixed deadline and returns fallback if the
// deadline fires first or fn errors. The slow call is not cancelled; its
// eventual result is simply discarded. This backs the legacy role-table
// lookups, which must degrade to "absent" instead of stalling a caller.
func Do[T any](ctx context.Context, d time.Duration, fallback T, fn func(context.Context) (T, error)) T {
	type result struct {
		val T
		err error
	}

	// Buffered so the late finisher never blocks.
	ch := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		ch <- result{v, err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case r := <-ch:
		if r.err != nil {
			return fallback
		}
		return r.val
	case <-timer.C:
		return fallback
	case <-ctx.Done():
		return fallback
	}
}
