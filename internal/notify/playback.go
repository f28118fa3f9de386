package notify

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/serenade/internal/library"
	"github.com/llehouerou/serenade/internal/playback"
)

// PlaybackNotifier turns engine notices into desktop notifications.
type PlaybackNotifier struct {
	notifier Notifier
	logger   zerolog.Logger

	mu     sync.Mutex
	lastID uint32
}

// ForPlayback adapts n to the engine's Notifier.
func ForPlayback(n Notifier, logger zerolog.Logger) *PlaybackNotifier {
	if n == nil {
		n = Nop()
	}
	return &PlaybackNotifier{notifier: n, logger: logger}
}

// Notify shows one notice. Failures are logged and otherwise ignored.
func (p *PlaybackNotifier) Notify(notice playback.Notice) {
	n := Notification{
		Title:   notice.Options.Title,
		Body:    notice.Message,
		Icon:    library.ArtworkPath(notice.Options.Icon, ""),
		Timeout: timeoutMS(notice.Duration),
		Urgency: urgencyFor(notice.Severity),
		// Track announcements replace each other and need no history.
		Transient: notice.Options.Replace,
	}
	if n.Title == "" {
		n.Title = AppName
	}
	if n.Icon == "" {
		n.Icon = iconFor(notice.Severity)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if notice.Options.Replace {
		n.ReplacesID = p.lastID
	}
	id, err := p.notifier.Notify(n)
	if err != nil {
		p.logger.Warn().Err(err).Str("title", n.Title).Msg("notification failed")
		return
	}
	if notice.Options.Replace {
		p.lastID = id
	}
}

func urgencyFor(s playback.Severity) Urgency {
	switch s {
	case playback.SeverityError:
		return UrgencyCritical
	case playback.SeverityWarning:
		return UrgencyNormal
	default:
		return UrgencyLow
	}
}

func iconFor(s playback.Severity) string {
	switch s {
	case playback.SeverityError:
		return "dialog-error"
	case playback.SeverityWarning:
		return "dialog-warning"
	default:
		return "audio-x-generic"
	}
}

// timeoutMS converts d to a notification timeout, -1 for the server default.
func timeoutMS(d time.Duration) int32 {
	if d <= 0 {
		return -1
	}
	return int32(min(d.Milliseconds(), 1<<31-1))
}
