//go:build !linux

package mpris

import (
	"github.com/rs/zerolog"

	"github.com/llehouerou/serenade/internal/playback"
	"github.com/llehouerou/serenade/internal/playlist"
)

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New(_ zerolog.Logger) *Adapter {
	return &Adapter{}
}

// Start is a no-op on non-Linux platforms.
func (a *Adapter) Start(_ playback.Service) error { return nil }

// UpdateMetadata is a no-op on non-Linux platforms.
func (a *Adapter) UpdateMetadata(_ *playlist.Track) {}

// UpdatePlaybackState is a no-op on non-Linux platforms.
func (a *Adapter) UpdatePlaybackState(_ playback.Snapshot) {}

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}
