package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/serenade/internal/playback"
)

// TickCmd returns a command that sends a TickMsg after one second.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// noticeExpiryCmd clears the notice with seq once d has elapsed.
func noticeExpiryCmd(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return NoticeExpiredMsg{Seq: seq}
	})
}

// WatchServiceEvents returns a command that waits for playback service events.
// It listens on all subscription channels and converts events to tea.Msg.
func (m Model) WatchServiceEvents() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	sub := m.sub
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return ServiceStateChangedMsg{Previous: e.Previous, Current: e.Current}
		case e := <-sub.TrackChanged:
			return ServiceTrackChangedMsg{PreviousIndex: e.PreviousIndex, CurrentIndex: e.Index}
		case <-sub.ModeChanged:
			return ServiceModeChangedMsg{}
		case <-sub.VolumeChanged:
			return ServiceVolumeChangedMsg{}
		case <-sub.PositionChanged:
			return ServicePositionChangedMsg{}
		case e := <-sub.Error:
			return ServiceErrorMsg{Failure: e.Failure}
		case <-sub.Done:
			return ServiceClosedMsg{}
		}
	}
}

// WatchNotices returns a command that waits for the next notice.
func (m Model) WatchNotices() tea.Cmd {
	if m.notices == nil {
		return nil
	}
	return waitForChannel(m.notices.Notices(), func(n playback.Notice, ok bool) tea.Msg {
		if !ok {
			return nil
		}
		return NoticeMsg{Notice: n}
	})
}

// waitForChannel creates a command that waits for a value from a channel.
func waitForChannel[T any](ch <-chan T, onResult func(T, bool) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		result, ok := <-ch
		return onResult(result, ok)
	}
}
