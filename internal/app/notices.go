package app

import (
	"github.com/llehouerou/serenade/internal/playback"
)

const noticeBuffer = 16

// NoticeSink forwards engine notices to the status line.
// It implements playback.Notifier and never blocks the engine: when the
// UI falls behind, extra notices are dropped.
type NoticeSink struct {
	ch   chan playback.Notice
	next playback.Notifier
}

// NewNoticeSink creates a sink. Notices are also passed to next, when set,
// so desktop notifications keep working alongside the status line.
func NewNoticeSink(next playback.Notifier) *NoticeSink {
	return &NoticeSink{
		ch:   make(chan playback.Notice, noticeBuffer),
		next: next,
	}
}

// Notify implements playback.Notifier.
func (s *NoticeSink) Notify(n playback.Notice) {
	s.Show(n)
	if s.next != nil {
		s.next.Notify(n)
	}
}

// Show puts n on the status line only.
func (s *NoticeSink) Show(n playback.Notice) {
	select {
	case s.ch <- n:
	default:
	}
}

// Notices returns the channel the UI reads from.
func (s *NoticeSink) Notices() <-chan playback.Notice {
	return s.ch
}
