package playback

import (
	"time"

	"github.com/llehouerou/serenade/internal/playlist"
)

// Severity is the importance of a user notice.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Notice is a user-facing notification.
type Notice struct {
	Message  string
	Severity Severity
	Duration time.Duration
	Options  NoticeOptions
}

// NoticeOptions carries optional presentation hints.
type NoticeOptions struct {
	Title   string
	Icon    string // artwork path or URL
	Replace bool   // replace the previous notice instead of stacking
}

// Notifier receives user notices. Calls are fire-and-forget.
type Notifier interface {
	Notify(n Notice)
}

// MediaSession is the desktop media-session surface.
type MediaSession interface {
	// UpdateMetadata is called on every track change; t is nil when
	// nothing is loaded.
	UpdateMetadata(t *playlist.Track)
	UpdatePlaybackState(s Snapshot)
}

// NowPlaying receives a snapshot on every play, pause and track change.
type NowPlaying interface {
	Update(s Snapshot)
}

// NowPlayingFunc adapts a function to NowPlaying.
type NowPlayingFunc func(Snapshot)

func (f NowPlayingFunc) Update(s Snapshot) { f(s) }

// Snapshot is a consistent copy of the engine's observable state.
type Snapshot struct {
	State     State
	Index     int
	Track     *playlist.Track
	Position  time.Duration
	Duration  time.Duration
	Volume    float64
	Muted     bool
	PreMute   float64 // volume restored by the next unmute
	Shuffle   bool
	Repeat    bool
	FadeInOut bool
	AutoPlay  bool
	Next      *playlist.Track // what Next would select, nil when empty
}

// AudibleVolume returns the level to persist: the pre-mute volume when
// muted, the current volume otherwise.
func (s Snapshot) AudibleVolume() float64 {
	if s.Muted {
		return s.PreMute
	}
	return s.Volume
}
