package playback

import (
	"time"

	"github.com/llehouerou/serenade/internal/playlist"
)

// StateChange is emitted when playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when the engine loads a different track.
//
// Emitted by:
//   - Play from Idle, PlayIndex, Next, Previous
//   - auto-advance at track end and skip after a failure
//
// NOT emitted by:
//   - repeat replays of the same track
//   - retries of the same source
//   - Pause/Stop: state changes do not emit TrackChange
type TrackChange struct {
	Previous      *playlist.Track
	Current       *playlist.Track
	PreviousIndex int
	Index         int
}

// ModeChange is emitted when shuffle, repeat, fade or auto-play changes.
type ModeChange struct {
	Shuffle   bool
	Repeat    bool
	FadeInOut bool
	AutoPlay  bool
}

// VolumeChange is emitted when the volume or mute flag changes.
type VolumeChange struct {
	Volume float64
	Muted  bool
}

// PositionChange is emitted when a seek occurs.
type PositionChange struct {
	Position time.Duration
}

// ErrorEvent is emitted once per reported failure.
type ErrorEvent struct {
	Failure Failure
}
