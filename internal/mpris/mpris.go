//go:build linux

package mpris

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/events"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/rs/zerolog"

	"github.com/llehouerou/serenade/internal/library"
	"github.com/llehouerou/serenade/internal/playback"
	"github.com/llehouerou/serenade/internal/playlist"
)

// ErrNotStarted is returned by player actions before Start.
var ErrNotStarted = errors.New("media session not started")

// Adapter connects the playback engine to MPRIS over D-Bus. It is the
// engine's MediaSession: the engine pushes metadata and state into it, and
// desktop media keys call back into the engine.
type Adapter struct {
	logger zerolog.Logger

	mu      sync.RWMutex
	service playback.Service
	track   *playlist.Track
	snap    playback.Snapshot
	server  *server.Server
	events  *events.EventHandler
}

// New creates an adapter. It does nothing until Start.
func New(logger zerolog.Logger) *Adapter {
	return &Adapter{logger: logger, snap: playback.Snapshot{Index: -1}}
}

// Start binds the adapter to service and serves MPRIS in the background.
func (a *Adapter) Start(service playback.Service) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.server != nil {
		return nil
	}

	a.service = service
	a.snap = service.Snapshot()
	if a.snap.Track != nil {
		t := *a.snap.Track
		a.track = &t
	}
	a.server = server.NewServer("serenade", &rootAdapter{}, &playerAdapter{a: a})
	a.events = events.NewEventHandler(a.server)

	srv := a.server
	go func() {
		if err := srv.Listen(); err != nil {
			a.logger.Warn().Err(err).Msg("mpris server stopped")
		}
	}()
	return nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	a.mu.Lock()
	srv := a.server
	a.server = nil
	a.events = nil
	a.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Stop()
}

// UpdateMetadata implements playback.MediaSession.
func (a *Adapter) UpdateMetadata(t *playlist.Track) {
	a.mu.Lock()
	if t != nil {
		c := *t
		a.track = &c
	} else {
		a.track = nil
	}
	ev := a.events
	a.mu.Unlock()

	if ev == nil {
		return
	}
	if err := ev.Player.OnTitle(); err != nil {
		a.logger.Debug().Err(err).Msg("mpris metadata update failed")
	}
}

// UpdatePlaybackState implements playback.MediaSession.
func (a *Adapter) UpdatePlaybackState(s playback.Snapshot) {
	a.mu.Lock()
	prev := a.snap
	a.snap = s
	ev := a.events
	a.mu.Unlock()

	if ev == nil {
		return
	}
	if err := ev.Player.OnPlayPause(); err != nil {
		a.logger.Debug().Err(err).Msg("mpris state update failed")
	}
	if prev.Volume != s.Volume {
		if err := ev.Player.OnVolume(); err != nil {
			a.logger.Debug().Err(err).Msg("mpris volume update failed")
		}
	}
	if prev.Shuffle != s.Shuffle || prev.Repeat != s.Repeat || prev.Duration != s.Duration {
		if err := ev.Player.OnOptions(); err != nil {
			a.logger.Debug().Err(err).Msg("mpris options update failed")
		}
	}
}

func (a *Adapter) current() (playback.Service, playback.Snapshot, *playlist.Track) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.service, a.snap, a.track
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Serenade", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file", "http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/wav", "audio/ogg"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter and optional interfaces.
type playerAdapter struct {
	a *Adapter
}

func (p *playerAdapter) service() (playback.Service, error) {
	s, _, _ := p.a.current()
	if s == nil {
		return nil, ErrNotStarted
	}
	return s, nil
}

func (p *playerAdapter) Next() error {
	s, err := p.service()
	if err != nil {
		return err
	}
	return s.Next()
}

func (p *playerAdapter) Previous() error {
	s, err := p.service()
	if err != nil {
		return err
	}
	return s.Previous()
}

func (p *playerAdapter) Pause() error {
	s, err := p.service()
	if err != nil {
		return err
	}
	return s.Pause()
}

func (p *playerAdapter) PlayPause() error {
	s, err := p.service()
	if err != nil {
		return err
	}
	return s.Toggle()
}

func (p *playerAdapter) Stop() error {
	s, err := p.service()
	if err != nil {
		return err
	}
	return s.Stop()
}

func (p *playerAdapter) Play() error {
	s, err := p.service()
	if err != nil {
		return err
	}
	return s.Play()
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	s, err := p.service()
	if err != nil {
		return err
	}
	return s.SeekBy(time.Duration(offset) * time.Microsecond)
}

func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	s, snap, track := p.a.current()
	if s == nil {
		return ErrNotStarted
	}
	// Requests for a track that is no longer current are ignored.
	if track == nil || trackID != formatTrackID(track.ID) {
		return nil
	}
	if position < 0 || (snap.Duration > 0 && time.Duration(position)*time.Microsecond > snap.Duration) {
		return nil
	}
	return s.Seek(time.Duration(position) * time.Microsecond)
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	_, snap, _ := p.a.current()
	return playbackStatus(snap.State), nil
}

func playbackStatus(s playback.State) types.PlaybackStatus {
	switch s {
	case playback.StatePlaying:
		return types.PlaybackStatusPlaying
	case playback.StatePaused, playback.StateReady, playback.StateLoading,
		playback.StateEnded, playback.StateErrored:
		return types.PlaybackStatusPaused
	case playback.StateIdle:
		return types.PlaybackStatusStopped
	}
	return types.PlaybackStatusStopped
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	_, snap, track := p.a.current()
	return metadataFor(track, snap), nil
}

func metadataFor(track *playlist.Track, snap playback.Snapshot) types.Metadata {
	if track == nil {
		return types.Metadata{}
	}

	length := track.Duration
	if snap.Track != nil && snap.Track.ID == track.ID && snap.Duration > 0 {
		length = snap.Duration
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(track.ID)),
		Length:  types.Microseconds(length.Microseconds()),
		Title:   track.Title,
		Artist:  []string{track.Artist},
		Album:   track.Album,
	}
	if track.Genre != "" {
		meta.Genre = []string{track.Genre}
	}
	meta.ArtUrl = artURL(track)
	return meta
}

// artURL returns the track's artwork as a URL, falling back to a cover image
// next to a local audio file.
func artURL(t *playlist.Track) string {
	switch {
	case strings.HasPrefix(t.Artwork, "http://"), strings.HasPrefix(t.Artwork, "https://"),
		strings.HasPrefix(t.Artwork, "file://"):
		return t.Artwork
	case t.Artwork != "":
		return "file://" + t.Artwork
	}
	if strings.Contains(t.Source, "://") {
		return ""
	}
	if artPath := library.FindCover(t.Source); artPath != "" {
		return "file://" + artPath
	}
	return ""
}

func (p *playerAdapter) Volume() (float64, error) {
	_, snap, _ := p.a.current()
	return snap.Volume, nil
}

// SetVolume implements OrgMprisMediaPlayer2PlayerAdapter. Like the volume
// keys, it unmutes first so the new level is audible.
func (p *playerAdapter) SetVolume(v float64) error {
	s, err := p.service()
	if err != nil {
		return err
	}
	if s.Snapshot().Muted {
		s.ToggleMute()
	}
	s.SetVolume(v)
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	s, err := p.service()
	if err != nil {
		return 0, nil //nolint:nilerr // position is 0 before start
	}
	return s.Position().Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	_, snap, track := p.a.current()
	return track != nil || snap.Index >= 0, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.CanGoNext()
}

func (p *playerAdapter) CanPlay() (bool, error) {
	s, _, _ := p.a.current()
	return s != nil, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	_, snap, _ := p.a.current()
	return snap.Duration > 0, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
// The playlist always wraps, so "no repeat" is reported as Playlist.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	_, snap, _ := p.a.current()
	if snap.Repeat {
		return types.LoopStatusTrack, nil
	}
	return types.LoopStatusPlaylist, nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	s, err := p.service()
	if err != nil {
		return err
	}
	s.SetRepeat(status == types.LoopStatusTrack)
	return nil
}

// Shuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) Shuffle() (bool, error) {
	_, snap, _ := p.a.current()
	return snap.Shuffle, nil
}

// SetShuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) SetShuffle(shuffle bool) error {
	s, err := p.service()
	if err != nil {
		return err
	}
	s.SetShuffle(shuffle)
	return nil
}

func formatTrackID(id string) string {
	h := fnv.New64a()
	h.Write([]byte(id))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
