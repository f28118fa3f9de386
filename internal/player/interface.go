// internal/player/interface.go
package player

import (
	"errors"
	"time"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrNotLoaded         = errors.New("no source loaded")
	ErrClosed            = errors.New("transport closed")
)

// Transport is the single audio resource the playback engine drives.
//
// Load only assigns the source: the outcome arrives asynchronously as
// EventMetadataReady or EventError on the Events channel. A synchronous
// error from Load means the source could not even be assigned. Load
// returns the generation every event of that load carries in Event.Load.
type Transport interface {
	Load(uri string) (uint64, error)
	Play() error
	Pause()
	Stop()
	Position() time.Duration
	SetPosition(d time.Duration) error
	Duration() time.Duration
	Volume() float64
	SetVolume(level float64)
	Events() <-chan Event
	Close() error
}

// Verify Player implements Transport at compile time.
var _ Transport = (*Player)(nil)
