// Package app contains the terminal player: the bubbletea model, its
// messages and the background persistence of listening state.
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/serenade/internal/playback"
)

// Message category interfaces for type-based routing in Update().
// External messages (from other packages) cannot implement these interfaces,
// so they are handled separately in the Update() switch.

// PlaybackMessage is implemented by messages coming from the playback engine.
type PlaybackMessage interface {
	tea.Msg
	playbackMessage()
}

// UIMessage is implemented by messages that only affect presentation.
type UIMessage interface {
	tea.Msg
	uiMessage()
}

// TickMsg is sent periodically to refresh the progress bar.
type TickMsg time.Time

func (TickMsg) playbackMessage() {}

// ServiceStateChangedMsg is sent when the playback state changes.
type ServiceStateChangedMsg struct {
	Previous playback.State
	Current  playback.State
}

func (ServiceStateChangedMsg) playbackMessage() {}

// ServiceTrackChangedMsg is sent when the engine loads a different track.
type ServiceTrackChangedMsg struct {
	PreviousIndex int
	CurrentIndex  int
}

func (ServiceTrackChangedMsg) playbackMessage() {}

// ServiceModeChangedMsg is sent when shuffle, repeat, fade or auto-play changes.
type ServiceModeChangedMsg struct{}

func (ServiceModeChangedMsg) playbackMessage() {}

// ServiceVolumeChangedMsg is sent when the volume or mute flag changes.
type ServiceVolumeChangedMsg struct{}

func (ServiceVolumeChangedMsg) playbackMessage() {}

// ServicePositionChangedMsg is sent when a seek occurs.
type ServicePositionChangedMsg struct{}

func (ServicePositionChangedMsg) playbackMessage() {}

// ServiceErrorMsg is sent when the engine reports a playback failure.
type ServiceErrorMsg struct {
	Failure playback.Failure
}

func (ServiceErrorMsg) playbackMessage() {}

// ServiceClosedMsg is sent when the playback engine is closed.
type ServiceClosedMsg struct{}

func (ServiceClosedMsg) playbackMessage() {}

// NoticeMsg carries a user notice to the status line.
type NoticeMsg struct {
	Notice playback.Notice
}

func (NoticeMsg) uiMessage() {}

// NoticeExpiredMsg clears the notice with the given sequence number.
type NoticeExpiredMsg struct {
	Seq int
}

func (NoticeExpiredMsg) uiMessage() {}
