// Package recovery decides whether a failed track is retried or skipped.
package recovery

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/serenade/internal/playback"
)

// Defaults for the retry budget.
const (
	DefaultMaxRetries = 3
	DefaultDelay      = 2 * time.Second
)

// Verify Handler implements playback.FailureHandler at compile time.
var _ playback.FailureHandler = (*Handler)(nil)

// Handler retries transient failures of the same source a bounded number
// of times, then skips. Decode and load failures are skipped right away.
// Skips also wait for the delay so a broken playlist doesn't spin.
type Handler struct {
	mu         sync.Mutex
	maxRetries int
	delay      time.Duration
	attempts   map[string]int
	logger     zerolog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithMaxRetries sets how often one source is retried. Zero disables retries.
func WithMaxRetries(n int) Option {
	return func(h *Handler) {
		if n >= 0 {
			h.maxRetries = n
		}
	}
}

// WithDelay sets the wait before a retry or skip.
func WithDelay(d time.Duration) Option {
	return func(h *Handler) {
		if d >= 0 {
			h.delay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(h *Handler) {
		h.logger = l
	}
}

// New creates a handler with the default budget.
func New(opts ...Option) *Handler {
	h := &Handler{
		maxRetries: DefaultMaxRetries,
		delay:      DefaultDelay,
		attempts:   make(map[string]int),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleFailure implements playback.FailureHandler.
func (h *Handler) HandleFailure(f playback.Failure) playback.Decision {
	h.mu.Lock()
	defer h.mu.Unlock()

	if f.Kind != playback.TransientNetworkFailure || f.URI == "" {
		return playback.Decision{Action: playback.ActionSkip, Delay: h.delay}
	}

	h.attempts[f.URI]++
	n := h.attempts[f.URI]
	if n > h.maxRetries {
		h.logger.Info().Str("uri", f.URI).Int("attempts", n-1).Msg("retries exhausted")
		delete(h.attempts, f.URI)
		return playback.Decision{Action: playback.ActionSkip, Delay: h.delay}
	}

	h.logger.Info().Str("uri", f.URI).Int("attempt", n).Int("max", h.maxRetries).Msg("retrying track")
	return playback.Decision{Action: playback.ActionRetry, Delay: h.delay, Attempt: n}
}

// Recovered implements playback.FailureHandler. A source that plays gets
// its full budget back.
func (h *Handler) Recovered(uri string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.attempts, uri)
}
