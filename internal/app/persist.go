package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/serenade/internal/playback"
	"github.com/llehouerou/serenade/internal/playlist"
	"github.com/llehouerou/serenade/internal/state"
)

// Persister writes listening state to the store as the engine reports it:
// preferences, the recently played list, play counts and track lengths
// learned during playback.
type Persister struct {
	service playback.Service
	sub     *playback.Subscription
	store   state.Interface
	logger  zerolog.Logger
	now     func() time.Time

	mu        sync.Mutex
	recent    *playlist.Recent
	known     map[string]bool // track IDs whose duration is stored
	lastSaved state.Settings
	saved     bool
}

// NewPersister subscribes to service. Call Run to start saving.
func NewPersister(service playback.Service, store state.Interface, logger zerolog.Logger) *Persister {
	return &Persister{
		service: service,
		sub:     service.Subscribe(),
		store:   store,
		logger:  logger,
		now:     time.Now,
		recent:  playlist.NewRecent(playlist.DefaultRecentLimit),
		known:   make(map[string]bool),
	}
}

// Restore loads the stored history. Entries for tracks that are no longer
// in tracks are dropped.
func (p *Persister) Restore(tracks []playlist.Track) error {
	byID := make(map[string]playlist.Track, len(tracks))
	for _, t := range tracks {
		byID[t.ID] = t
	}

	entries, err := p.store.GetRecent()
	if err != nil {
		return err
	}
	durations, err := p.store.Durations()
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.recent.Clear()
	// Entries are newest first; push oldest first to keep the order.
	for i := len(entries) - 1; i >= 0; i-- {
		if t, ok := byID[entries[i].TrackID]; ok {
			p.recent.Push(t)
		}
	}
	for id := range durations {
		p.known[id] = true
	}
	if s, err := p.store.GetSettings(); err == nil && s != nil {
		p.lastSaved = *s
		p.saved = true
	}
	return nil
}

// Recent returns the recently played tracks, newest first.
func (p *Persister) Recent() []playlist.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.recent.Tracks()
}

// Run saves state until ctx is canceled or the engine closes. Settings are
// written one last time before it returns.
func (p *Persister) Run(ctx context.Context) {
	defer func() {
		p.saveSettings()
		if n := p.sub.Dropped(); n > 0 {
			p.logger.Debug().Int64("dropped", n).Msg("persister missed events")
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.sub.Done:
			return
		case e := <-p.sub.TrackChanged:
			p.trackChanged(e)
		case e := <-p.sub.StateChanged:
			if e.Current == playback.StateReady || e.Current == playback.StatePlaying {
				p.rememberDuration()
			}
		case <-p.sub.ModeChanged:
			p.saveSettings()
		case <-p.sub.VolumeChanged:
			p.saveSettings()
		case <-p.sub.PositionChanged:
		case <-p.sub.Error:
		}
	}
}

func (p *Persister) trackChanged(e playback.TrackChange) {
	if e.Current == nil {
		return
	}
	t := *e.Current

	p.mu.Lock()
	p.recent.Push(t)
	tracks := p.recent.Tracks()
	p.mu.Unlock()

	now := p.now()
	entries := make([]state.RecentEntry, len(tracks))
	for i, rt := range tracks {
		entries[i] = state.RecentEntry{TrackID: rt.ID, Title: rt.Title, Artist: rt.Artist}
		if rt.ID == t.ID {
			entries[i].PlayedAt = now
		}
	}
	p.keepPlayedAt(entries)

	if err := p.store.SaveRecent(entries); err != nil {
		p.logger.Warn().Err(err).Msg("saving recently played failed")
	}
	if err := p.store.RecordPlay(t.ID, now); err != nil {
		p.logger.Warn().Err(err).Str("track", t.ID).Msg("recording play failed")
	}
	p.saveSettings()
}

// keepPlayedAt copies stored timestamps onto entries that were not just played.
func (p *Persister) keepPlayedAt(entries []state.RecentEntry) {
	stored, err := p.store.GetRecent()
	if err != nil {
		return
	}
	at := make(map[string]time.Time, len(stored))
	for _, e := range stored {
		at[e.TrackID] = e.PlayedAt
	}
	for i := range entries {
		if entries[i].PlayedAt.IsZero() {
			entries[i].PlayedAt = at[entries[i].TrackID]
		}
	}
}

// rememberDuration stores the length of the current track the first time
// it becomes known.
func (p *Persister) rememberDuration() {
	snap := p.service.Snapshot()
	if snap.Track == nil || snap.Duration <= 0 {
		return
	}
	id := snap.Track.ID

	p.mu.Lock()
	if p.known[id] {
		p.mu.Unlock()
		return
	}
	p.known[id] = true
	p.mu.Unlock()

	if err := p.store.SaveDuration(id, snap.Duration); err != nil {
		p.logger.Warn().Err(err).Str("track", id).Msg("saving duration failed")
	}
}

// saveSettings writes the preferences when they differ from the last write.
// The last played track is kept when playback is stopped.
func (p *Persister) saveSettings() {
	snap := p.service.Snapshot()

	p.mu.Lock()
	s := state.Settings{
		Volume:         snap.AudibleVolume(),
		Muted:          snap.Muted,
		Shuffle:        snap.Shuffle,
		Repeat:         snap.Repeat,
		FadeInOut:      snap.FadeInOut,
		AutoPlay:       snap.AutoPlay,
		CurrentTrackID: p.lastSaved.CurrentTrackID,
	}
	if snap.Track != nil {
		s.CurrentTrackID = snap.Track.ID
	}
	if p.saved && s == p.lastSaved {
		p.mu.Unlock()
		return
	}
	p.lastSaved = s
	p.saved = true
	p.mu.Unlock()

	p.store.SaveSettings(s)
}
