package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/serenade/internal/playback"
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case PlaybackMessage:
		return m.handlePlaybackMsg(msg)

	case UIMessage:
		return m.handleUIMsg(msg)
	}
	return m, nil
}

// handlePlaybackMsg routes playback-related messages.
func (m Model) handlePlaybackMsg(msg PlaybackMessage) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		m.refresh()
		if m.view == ViewRecent {
			m.rebuildRows()
		}
		return m, TickCmd()

	case ServiceTrackChangedMsg:
		m.list.SetPlaying(msg.CurrentIndex)
		m.refresh()
		if m.view == ViewRecent {
			m.rebuildRows()
		}
		return m, m.WatchServiceEvents()

	case ServiceStateChangedMsg:
		m.refresh()
		// Durations learned on load show up in the list.
		if msg.Current == playback.StateReady || msg.Current == playback.StatePlaying {
			m.rebuildRows()
		}
		return m, m.WatchServiceEvents()

	case ServiceErrorMsg:
		// The notice for the failure arrives through the sink.
		m.logger.Debug().Str("kind", msg.Failure.Kind.String()).Msg("playback failure")
		m.refresh()
		return m, m.WatchServiceEvents()

	case ServiceModeChangedMsg, ServiceVolumeChangedMsg, ServicePositionChangedMsg:
		m.refresh()
		return m, m.WatchServiceEvents()

	case ServiceClosedMsg:
		return m, nil
	}
	return m, nil
}

// handleUIMsg routes presentation messages.
func (m Model) handleUIMsg(msg UIMessage) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case NoticeMsg:
		cmd := m.showNotice(msg.Notice.Message, msg.Notice.Severity, msg.Notice.Duration)
		return m, tea.Batch(cmd, m.WatchNotices())

	case NoticeExpiredMsg:
		if m.notice != nil && m.notice.seq == msg.Seq {
			m.notice = nil
		}
		return m, nil
	}
	return m, nil
}

// resize distributes the terminal height between the list and the bars.
func (m *Model) resize() {
	m.list.SetSize(m.width, m.listHeight())
	m.search.Width = max(m.width-4, 0)
	m.help.Width = m.width
}
