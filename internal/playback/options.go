package playback

import (
	"time"

	"github.com/rs/zerolog"
)

// Default settings.
const (
	DefaultVolume         = 0.7
	DefaultFadeDuration   = time.Second
	DefaultFadeSteps      = 20
	DefaultNoticeDuration = 4 * time.Second
	DefaultDuckDuration   = 3 * time.Second

	// DuckReduction is the share of the volume taken away while ducked.
	DuckReduction = 0.3
)

// Config holds the engine's recognized options.
type Config struct {
	// FadeInOut ramps the volume up on play and down before pause.
	FadeInOut bool
	// AutoPlay advances to the next track when one ends.
	AutoPlay bool
	// FadeDuration is the length of one ramp.
	FadeDuration time.Duration
	// FadeSteps is the number of discrete volume changes per ramp.
	FadeSteps int
	// Volume is the initial level in [0,1].
	Volume float64
	// Muted starts the engine muted; Volume is restored on unmute.
	Muted bool
	// NoticeDuration is how long notices stay visible.
	NoticeDuration time.Duration
	// AnnounceTracks sends an info notice on every track change.
	AnnounceTracks bool
	// DuckOnNotice lowers the output while a notice is on screen.
	DuckOnNotice bool
	// DuckDuration is how long a notice keeps the output lowered.
	DuckDuration time.Duration
}

// DefaultConfig returns the settings a fresh install starts with.
func DefaultConfig() Config {
	return Config{
		FadeInOut:      false,
		AutoPlay:       true,
		FadeDuration:   DefaultFadeDuration,
		FadeSteps:      DefaultFadeSteps,
		Volume:         DefaultVolume,
		NoticeDuration: DefaultNoticeDuration,
		DuckDuration:   DefaultDuckDuration,
	}
}

func (c Config) normalized() Config {
	if c.FadeDuration <= 0 {
		c.FadeDuration = DefaultFadeDuration
	}
	if c.FadeSteps <= 0 {
		c.FadeSteps = DefaultFadeSteps
	}
	if c.NoticeDuration <= 0 {
		c.NoticeDuration = DefaultNoticeDuration
	}
	if c.DuckDuration <= 0 {
		c.DuckDuration = DefaultDuckDuration
	}
	c.Volume = clampVolume(c.Volume)
	return c
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig sets the engine settings.
func WithConfig(c Config) Option {
	return func(e *Engine) {
		e.cfg = c
	}
}

// WithNotifier sets the notification collaborator.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithMediaSession sets the media-session collaborator.
func WithMediaSession(m MediaSession) Option {
	return func(e *Engine) {
		e.session = m
	}
}

// WithNowPlaying adds now-playing collaborators.
func WithNowPlaying(n ...NowPlaying) Option {
	return func(e *Engine) {
		e.nowPlaying = append(e.nowPlaying, n...)
	}
}

// WithFailureHandler sets the retry-or-skip policy. Without one every
// failure is skipped immediately.
func WithFailureHandler(h FailureHandler) Option {
	return func(e *Engine) {
		e.failures = h
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}
