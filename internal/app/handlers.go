package app

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/serenade/internal/app/handler"
	"github.com/llehouerou/serenade/internal/errmsg"
	"github.com/llehouerou/serenade/internal/keymap"
	"github.com/llehouerou/serenade/internal/playback"
	"github.com/llehouerou/serenade/internal/ui/playerbar"
)

// handleKey dispatches a key press to the search input or the handler chain.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	key := msg.String()
	mp := &m
	r := handler.Chain(key,
		mp.handleGlobalKeys,
		mp.handlePlaybackKeys,
		mp.handleListKeys,
	)
	if m.quitting {
		return m, tea.Quit
	}
	return m, r.Cmd
}

// handleGlobalKeys handles quit, help, search and view switching.
func (m *Model) handleGlobalKeys(key string) handler.Result {
	switch m.keys.Resolve(key) {
	case keymap.ActionQuit:
		m.quitting = true
		return handler.HandledNoCmd
	case keymap.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return handler.HandledNoCmd
	case keymap.ActionSearch:
		return handler.Handled(m.startSearch())
	case keymap.ActionView:
		m.cycleView()
		return handler.HandledNoCmd
	case keymap.ActionPlayer:
		if m.playerMode == playerbar.ModeCompact {
			m.playerMode = playerbar.ModeExpanded
		} else {
			m.playerMode = playerbar.ModeCompact
		}
		m.resize()
		return handler.HandledNoCmd
	}
	return handler.NotHandled
}

// handlePlaybackKeys forwards transport, volume and mode keys to the engine.
func (m *Model) handlePlaybackKeys(key string) handler.Result {
	var err error
	switch m.keys.Resolve(key) {
	case keymap.ActionPlayPause:
		err = m.service.Toggle()
	case keymap.ActionStop:
		err = m.service.Stop()
	case keymap.ActionNextTrack:
		err = m.service.Next()
	case keymap.ActionPrevTrack:
		err = m.service.Previous()
	case keymap.ActionSeekForward:
		err = m.seek(m.seekStep)
	case keymap.ActionSeekBack:
		err = m.seek(-m.seekStep)
	case keymap.ActionVolumeUp:
		m.changeVolume(m.volumeStep)
	case keymap.ActionVolumeDown:
		m.changeVolume(-m.volumeStep)
	case keymap.ActionMute:
		m.service.ToggleMute()
	case keymap.ActionToggleShuffle:
		m.service.ToggleShuffle()
	case keymap.ActionToggleRepeat:
		m.service.ToggleRepeat()
	case keymap.ActionToggleFade:
		m.service.SetFadeInOut(!m.snap.FadeInOut)
	case keymap.ActionToggleAutoPlay:
		m.service.SetAutoPlay(!m.snap.AutoPlay)
	default:
		return handler.NotHandled
	}

	m.refresh()
	if err != nil {
		return handler.Handled(m.playbackError(err))
	}
	return handler.HandledNoCmd
}

// handleListKeys moves the cursor, plays the selection and toggles favorites.
func (m *Model) handleListKeys(key string) handler.Result {
	action := m.keys.Resolve(key)
	switch action {
	case keymap.ActionPlaySelected:
		row, ok := m.list.Selected()
		if !ok {
			return handler.HandledNoCmd
		}
		err := m.service.PlayIndex(row.Index)
		m.refresh()
		if err != nil {
			return handler.Handled(m.playbackError(err))
		}
		return handler.HandledNoCmd

	case keymap.ActionToggleFavorite:
		return handler.Handled(m.toggleFavorite())
	}

	if m.list.HandleAction(action) {
		return handler.HandledNoCmd
	}
	return handler.NotHandled
}

// seek moves the playhead by delta. Seeking with nothing loaded is a no-op.
func (m *Model) seek(delta time.Duration) error {
	err := m.service.SeekBy(delta)
	if errors.Is(err, playback.ErrNotSeekable) {
		return nil
	}
	return err
}

// changeVolume adjusts the level. A muted player is unmuted first so the
// change is audible.
func (m *Model) changeVolume(delta float64) {
	if m.snap.Muted {
		m.service.ToggleMute()
		m.snap = m.service.Snapshot()
	}
	m.service.SetVolume(m.snap.Volume + delta)
}

// playbackError maps engine errors to status line notices.
func (m *Model) playbackError(err error) tea.Cmd {
	if errors.Is(err, playback.ErrEmptyPlaylist) {
		return m.showNotice("The playlist is empty", playback.SeverityWarning, 0)
	}
	return m.reportError(errmsg.OpPlaybackStart, err)
}

// toggleFavorite flips the favorite flag of the selected track.
func (m *Model) toggleFavorite() tea.Cmd {
	row, ok := m.list.Selected()
	if !ok || m.stateMgr == nil {
		return nil
	}
	fav, err := m.stateMgr.ToggleFavorite(row.Track.ID)
	if err != nil {
		return m.reportError(errmsg.OpFavoriteToggle, err)
	}
	if fav {
		m.favorites[row.Track.ID] = true
	} else {
		delete(m.favorites, row.Track.ID)
	}
	if m.view == ViewFavorites {
		m.rebuildRows()
	} else {
		m.list.SetFavorite(row.Track.ID, fav)
	}
	return nil
}

// cycleView switches between all tracks, favorites and recently played.
// Leaving search returns to all tracks.
func (m *Model) cycleView() {
	switch m.view {
	case ViewAll:
		m.view = ViewFavorites
	case ViewFavorites:
		m.view = ViewRecent
	case ViewRecent, ViewSearch:
		m.view = ViewAll
	}
	m.rebuildRows()
	m.list.JumpToIndex(m.snap.Index)
}
