// Package ready waits for late-initializing collaborators with a bounded
// timeout. Every wait resolves exactly once and leaves nothing running.
package ready

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when the collaborator did not become ready in time.
var ErrTimeout = errors.New("timed out waiting for collaborator")

// Await returns the first value received on ch, or ErrTimeout after
// timeout, or the context's error if it is cancelled first. A closed
// channel counts as ready with the zero value.
func Await[T any](ctx context.Context, timeout time.Duration, ch <-chan T) (T, error) {
	var zero T

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case v, ok := <-ch:
		if !ok {
			return zero, nil
		}
		return v, nil
	case <-timer.C:
		return zero, ErrTimeout
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Go runs fn in a goroutine and returns a channel that receives its result
// once. Pair it with Await to bound a blocking initializer.
func Go[T any](fn func() T) <-chan T {
	ch := make(chan T, 1)
	go func() {
		ch <- fn()
	}()
	return ch
}
