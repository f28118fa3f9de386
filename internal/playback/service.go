package playback

import (
	"time"

	"github.com/llehouerou/serenade/internal/playlist"
)

// Service defines the playback engine contract.
type Service interface {
	// Playback control
	Play() error
	Pause() error
	Toggle() error
	Stop() error
	Next() error
	Previous() error
	PlayIndex(index int) error
	Seek(position time.Duration) error
	SeekBy(delta time.Duration) error

	// Volume
	SetVolume(level float64)
	ToggleMute() bool

	// Mode control
	ToggleShuffle() bool
	ToggleRepeat() bool
	SetShuffle(enabled bool)
	SetRepeat(enabled bool)
	SetFadeInOut(enabled bool)
	SetAutoPlay(enabled bool)

	// Playlist
	SetTracks(tracks []playlist.Track) bool
	Tracks() []playlist.Track

	// State queries
	State() State
	Snapshot() Snapshot
	Position() time.Duration

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}
