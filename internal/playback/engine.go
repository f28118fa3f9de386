package playback

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/serenade/internal/player"
	"github.com/llehouerou/serenade/internal/playlist"
)

// Verify Engine implements Service at compile time.
var _ Service = (*Engine)(nil)

// Engine drives a single Transport through the playback state machine and
// asks a playlist.State what to play next.
//
// One mutex serializes user commands, transport events and timer
// callbacks, so each runs to completion without interleaving. Calls into
// collaborators are queued while the lock is held and run after it is
// released; a panicking collaborator is logged and otherwise ignored.
type Engine struct {
	mu sync.Mutex

	transport player.Transport
	playlist  *playlist.State
	cfg       Config

	notifier   Notifier
	session    MediaSession
	nowPlaying []NowPlaying
	failures   FailureHandler
	logger     zerolog.Logger

	state         State
	volume        float64
	muted         bool
	preMute       float64
	playWhenReady bool
	loadedURI     string
	loadGen       uint64 // transport generation of the current load

	// Every fade and pending retry/skip captures a generation when it is
	// scheduled. Cancelling bumps the generation, so a callback that was
	// already on its way finds a mismatch and does nothing.
	fadeGen    uint64
	fade       *fade
	pendingGen uint64
	pending    *time.Timer

	// Ducking lowers the output without touching the volume setting.
	ducked  bool
	duckGen uint64
	duck    *time.Timer

	failureChain  int
	emptyReported bool

	effects []func()

	subs   []*Subscription
	subsMu sync.Mutex

	done   chan struct{}
	closed bool
}

// New creates an engine in Idle with nothing selected and starts
// listening to the transport's events.
func New(t player.Transport, pl *playlist.State, opts ...Option) *Engine {
	if pl == nil {
		pl = playlist.NewState()
	}
	e := &Engine{
		transport: t,
		playlist:  pl,
		cfg:       DefaultConfig(),
		failures:  skipHandler{},
		logger:    zerolog.Nop(),
		state:     StateIdle,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.failures == nil {
		e.failures = skipHandler{}
	}
	e.cfg = e.cfg.normalized()

	e.volume = e.cfg.Volume
	e.preMute = e.cfg.Volume
	if e.preMute == 0 {
		e.preMute = DefaultVolume
	}
	if e.cfg.Muted {
		e.muted = true
		e.volume = 0
	}
	e.playlist.ClearCurrent()
	t.SetVolume(e.volume)

	go e.pump()
	return e
}

// exec runs fn under the lock, then runs the side effects it queued.
func (e *Engine) exec(fn func() error) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	err := fn()
	fx := e.takeEffectsLocked()
	e.mu.Unlock()

	e.runEffects(fx)
	return err
}

func (e *Engine) after(f func()) {
	e.effects = append(e.effects, f)
}

func (e *Engine) takeEffectsLocked() []func() {
	fx := e.effects
	e.effects = nil
	return fx
}

func (e *Engine) runEffects(fx []func()) {
	for _, f := range fx {
		e.safely(f)
	}
}

func (e *Engine) safely(f func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Msg("playback collaborator panicked")
		}
	}()
	f()
}

// pump feeds transport events into the engine until Close.
func (e *Engine) pump() {
	events := e.transport.Events()
	for {
		select {
		case ev := <-events:
			_ = e.exec(func() error {
				e.handleEventLocked(ev)
				return nil
			})
		case <-e.done:
			return
		}
	}
}

// Play starts playback: it loads the selected (or first) track from Idle,
// resumes from Ready or Paused, and cancels a pending fade-out.
func (e *Engine) Play() error {
	return e.exec(func() error {
		e.failureChain = 0
		return e.playLocked()
	})
}

func (e *Engine) playLocked() error {
	switch e.state {
	case StateIdle, StateErrored, StateEnded:
		idx := e.playlist.CurrentIndex()
		if idx == playlist.NoTrack {
			first, err := e.playlist.First()
			if err != nil {
				return e.reportEmptyLocked()
			}
			idx = first
		}
		return e.loadLocked(idx, true)
	case StateLoading:
		e.playWhenReady = true
		return nil
	case StateReady, StatePaused:
		return e.startLocked()
	case StatePlaying:
		if e.fadingOut() {
			e.cancelFadeLocked()
			e.applyVolumeLocked(e.volume)
			e.publishPlaybackLocked()
		}
		return nil
	}
	return nil
}

// Pause pauses playback. With fades enabled the pause is deferred until
// the volume has ramped down; pausing during a fade-in is immediate.
func (e *Engine) Pause() error {
	return e.exec(e.pauseLocked)
}

func (e *Engine) pauseLocked() error {
	switch e.state {
	case StateLoading, StateErrored:
		e.playWhenReady = false
		return nil
	case StatePlaying:
	default:
		return nil
	}

	switch {
	case e.fadingOut():
		return nil
	case e.fade != nil:
		e.cancelFadeLocked()
		e.pauseNowLocked()
	case e.cfg.FadeInOut && e.volume > 0:
		e.startFadeLocked(fadeKindOut, e.volume, 0, e.pauseNowLocked)
	default:
		e.pauseNowLocked()
	}
	return nil
}

func (e *Engine) pauseNowLocked() {
	e.transport.Pause()
	e.setStateLocked(StatePaused)
}

// Toggle pauses when playing and plays otherwise. A pause still fading
// out counts as not playing.
func (e *Engine) Toggle() error {
	return e.exec(func() error {
		if e.state == StatePlaying && !e.fadingOut() {
			return e.pauseLocked()
		}
		e.failureChain = 0
		return e.playLocked()
	})
}

// Stop releases the transport and resets the session to Idle with nothing
// selected.
func (e *Engine) Stop() error {
	return e.exec(func() error {
		e.stopLocked()
		return nil
	})
}

func (e *Engine) stopLocked() {
	e.cancelTimersLocked()
	e.cancelDuckLocked()
	e.playWhenReady = false
	e.transport.Stop()
	e.applyVolumeLocked(e.volume)
	e.loadedURI = ""
	e.loadGen = 0

	hadTrack := e.playlist.CurrentIndex() != playlist.NoTrack
	e.playlist.ClearCurrent()
	e.setStateLocked(StateIdle)
	if hadTrack && e.session != nil {
		session := e.session
		e.after(func() { session.UpdateMetadata(nil) })
	}
}

// Next loads and plays the following track.
func (e *Engine) Next() error {
	return e.exec(func() error {
		e.failureChain = 0
		return e.advanceLocked(1, true)
	})
}

// Previous loads and plays the preceding track.
func (e *Engine) Previous() error {
	return e.exec(func() error {
		e.failureChain = 0
		return e.advanceLocked(-1, true)
	})
}

// PlayIndex loads and plays the track at index.
func (e *Engine) PlayIndex(index int) error {
	return e.exec(func() error {
		e.failureChain = 0
		return e.loadLocked(index, true)
	})
}

func (e *Engine) advanceLocked(dir int, play bool) error {
	prev := e.playlist.CurrentIndex()

	var idx int
	var err error
	if dir > 0 {
		idx, err = e.playlist.Next()
	} else {
		idx, err = e.playlist.Previous()
	}
	if err != nil {
		return e.reportEmptyLocked()
	}
	return e.switchLocked(prev, idx, play)
}

func (e *Engine) loadLocked(index int, play bool) error {
	if e.playlist.Len() == 0 {
		return e.reportEmptyLocked()
	}
	prev := e.playlist.CurrentIndex()
	if _, err := e.playlist.SetCurrent(index); err != nil {
		e.reportLocked(Failure{Kind: InvalidIndex, Index: index, Err: ErrInvalidIndex}, "")
		return ErrInvalidIndex
	}
	return e.switchLocked(prev, index, play)
}

// switchLocked announces the track change and loads the new source.
func (e *Engine) switchLocked(prevIndex, index int, play bool) error {
	track := e.playlist.Track(index)
	e.trackChangedLocked(prevIndex, index, track)
	e.loadSourceLocked(index, track, play)
	return nil
}

// loadSourceLocked hands the track's source to the transport. Starting a
// new load invalidates any fade or pending retry against the old source.
func (e *Engine) loadSourceLocked(index int, track *playlist.Track, play bool) {
	e.cancelTimersLocked()
	e.playWhenReady = play
	e.loadedURI = track.Source
	e.setStateLocked(StateLoading)

	gen, err := e.transport.Load(track.Source)
	e.loadGen = gen
	e.logger.Debug().Int("index", index).Str("uri", track.Source).Uint64("gen", gen).Bool("play", play).Msg("loading track")
	if err != nil {
		e.failLocked(Failure{
			Kind:  LoadFailure,
			Index: index,
			Track: track,
			URI:   track.Source,
			Code:  player.CodeOf(err),
			Err:   err,
		})
	}
}

// startLocked starts the transport on the loaded source, fading in when
// configured.
func (e *Engine) startLocked() error {
	e.cancelTimersLocked()
	e.playWhenReady = false

	ramp := e.cfg.FadeInOut && e.volume > 0
	if ramp {
		e.applyVolumeLocked(0)
	} else {
		e.applyVolumeLocked(e.volume)
	}

	if err := e.transport.Play(); err != nil {
		e.playWhenReady = true
		idx := e.playlist.CurrentIndex()
		e.failLocked(Failure{
			Kind:  LoadFailure,
			Index: idx,
			Track: e.playlist.Track(idx),
			URI:   e.loadedURI,
			Code:  player.CodeOf(err),
			Err:   err,
		})
		return nil
	}

	e.setStateLocked(StatePlaying)
	if ramp {
		e.startFadeLocked(fadeKindIn, 0, e.volume, nil)
	}
	return nil
}

// Seek moves to position, clamped into [0, duration]. It needs a source
// whose metadata is known.
func (e *Engine) Seek(position time.Duration) error {
	return e.exec(func() error {
		return e.seekLocked(position)
	})
}

// SeekBy moves relative to the current position.
func (e *Engine) SeekBy(delta time.Duration) error {
	return e.exec(func() error {
		if !e.state.Seekable() {
			return ErrNotSeekable
		}
		return e.seekLocked(e.transport.Position() + delta)
	})
}

func (e *Engine) seekLocked(target time.Duration) error {
	if !e.state.Seekable() {
		return ErrNotSeekable
	}
	dur := e.durationLocked()
	if dur <= 0 {
		return ErrNotSeekable
	}
	target = max(target, 0)
	target = min(target, dur)

	if err := e.transport.SetPosition(target); err != nil {
		return err
	}

	ev := PositionChange{Position: target}
	e.broadcastLocked(func(s *Subscription) { s.sendPosition(ev) })
	e.publishPlaybackLocked()
	return nil
}

// SetVolume sets the volume, clamped into [0,1]. It does not change the
// mute flag. A fade-in in progress is abandoned; during a fade-out the new
// level applies once playback resumes.
func (e *Engine) SetVolume(level float64) {
	_ = e.exec(func() error {
		e.setVolumeLocked(level)
		return nil
	})
}

func (e *Engine) setVolumeLocked(level float64) {
	e.volume = clampVolume(level)
	if !e.fadingOut() {
		e.cancelFadeLocked()
		e.applyVolumeLocked(e.volume)
	}

	ev := VolumeChange{Volume: e.volume, Muted: e.muted}
	e.broadcastLocked(func(s *Subscription) { s.sendVolume(ev) })
	e.publishPlaybackLocked()
}

// ToggleMute mutes, remembering the current volume, or unmutes and
// restores it exactly. Returns the new mute flag.
func (e *Engine) ToggleMute() bool {
	var muted bool
	_ = e.exec(func() error {
		if e.muted {
			e.muted = false
			e.setVolumeLocked(e.preMute)
		} else {
			e.preMute = e.volume
			e.muted = true
			e.setVolumeLocked(0)
		}
		muted = e.muted
		return nil
	})
	return muted
}

// ToggleShuffle flips shuffle mode and returns the new value.
func (e *Engine) ToggleShuffle() bool {
	var on bool
	_ = e.exec(func() error {
		on = e.playlist.ToggleShuffle()
		e.modeChangedLocked()
		return nil
	})
	return on
}

// ToggleRepeat flips repeat mode and returns the new value.
func (e *Engine) ToggleRepeat() bool {
	var on bool
	_ = e.exec(func() error {
		on = e.playlist.ToggleRepeat()
		e.modeChangedLocked()
		return nil
	})
	return on
}

// SetShuffle sets shuffle mode.
func (e *Engine) SetShuffle(enabled bool) {
	_ = e.exec(func() error {
		if e.playlist.Shuffled() != enabled {
			e.playlist.SetShuffle(enabled)
			e.modeChangedLocked()
		}
		return nil
	})
}

// SetRepeat sets repeat mode.
func (e *Engine) SetRepeat(enabled bool) {
	_ = e.exec(func() error {
		if e.playlist.Repeating() != enabled {
			e.playlist.SetRepeat(enabled)
			e.modeChangedLocked()
		}
		return nil
	})
}

// SetFadeInOut enables or disables fades for the next play or pause.
func (e *Engine) SetFadeInOut(enabled bool) {
	_ = e.exec(func() error {
		if e.cfg.FadeInOut != enabled {
			e.cfg.FadeInOut = enabled
			e.modeChangedLocked()
		}
		return nil
	})
}

// SetAutoPlay enables or disables advancing at track end.
func (e *Engine) SetAutoPlay(enabled bool) {
	_ = e.exec(func() error {
		if e.cfg.AutoPlay != enabled {
			e.cfg.AutoPlay = enabled
			e.modeChangedLocked()
		}
		return nil
	})
}

func (e *Engine) modeChangedLocked() {
	ev := ModeChange{
		Shuffle:   e.playlist.Shuffled(),
		Repeat:    e.playlist.Repeating(),
		FadeInOut: e.cfg.FadeInOut,
		AutoPlay:  e.cfg.AutoPlay,
	}
	e.logger.Debug().
		Bool("shuffle", ev.Shuffle).
		Bool("repeat", ev.Repeat).
		Bool("fade", ev.FadeInOut).
		Bool("auto_play", ev.AutoPlay).
		Msg("mode changed")
	e.broadcastLocked(func(s *Subscription) { s.sendMode(ev) })
	e.publishPlaybackLocked()
}

// SetTracks replaces the playlist and returns to Idle. An empty slice is
// ignored and reports false.
func (e *Engine) SetTracks(tracks []playlist.Track) bool {
	var ok bool
	_ = e.exec(func() error {
		if len(tracks) == 0 {
			return nil
		}
		if e.state != StateIdle {
			e.stopLocked()
		}
		ok = e.playlist.SetTracks(tracks)
		e.emptyReported = false
		e.failureChain = 0
		return nil
	})
	return ok
}

// Tracks returns a copy of the playlist in base order.
func (e *Engine) Tracks() []playlist.Track {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playlist.Tracks()
}

// State returns the current playback state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Position returns the transport position.
func (e *Engine) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateIdle {
		return 0
	}
	return e.transport.Position()
}

// Snapshot returns a consistent copy of the observable state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	s := Snapshot{
		State:     e.state,
		Index:     e.playlist.CurrentIndex(),
		Track:     e.playlist.Current(),
		Volume:    e.volume,
		Muted:     e.muted,
		PreMute:   e.preMute,
		Shuffle:   e.playlist.Shuffled(),
		Repeat:    e.playlist.Repeating(),
		FadeInOut: e.cfg.FadeInOut,
		AutoPlay:  e.cfg.AutoPlay,
		Next:      e.playlist.PeekNext(),
	}
	if e.state != StateIdle {
		s.Position = e.transport.Position()
		s.Duration = e.durationLocked()
	}
	return s
}

func (e *Engine) durationLocked() time.Duration {
	if d := e.transport.Duration(); d > 0 {
		return d
	}
	if t := e.playlist.Current(); t != nil {
		return t.Duration
	}
	return 0
}

// Subscribe creates a new event subscription.
func (e *Engine) Subscribe() *Subscription {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	sub := newSubscription()
	if e.isClosed() {
		sub.close()
		return sub
	}
	e.subs = append(e.subs, sub)
	return sub
}

func (e *Engine) isClosed() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// Close stops playback, cancels pending timers and closes subscriptions.
// The transport itself is left to its owner.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.cancelTimersLocked()
	e.cancelDuckLocked()
	e.transport.Stop()
	e.playlist.ClearCurrent()
	e.state = StateIdle
	e.closed = true
	e.effects = nil
	close(e.done)
	e.mu.Unlock()

	e.subsMu.Lock()
	for _, sub := range e.subs {
		sub.close()
	}
	e.subs = nil
	e.subsMu.Unlock()

	return nil
}

func (e *Engine) setStateLocked(s State) {
	if e.state == s {
		return
	}
	prev := e.state
	e.state = s
	e.logger.Debug().Stringer("from", prev).Stringer("to", s).Msg("playback state")

	ev := StateChange{Previous: prev, Current: s}
	e.broadcastLocked(func(sub *Subscription) { sub.sendState(ev) })

	switch s {
	case StatePlaying, StatePaused, StateReady, StateIdle:
		e.publishPlaybackLocked()
	}
}

func (e *Engine) trackChangedLocked(prevIndex, index int, track *playlist.Track) {
	ev := TrackChange{
		Previous:      e.playlist.Track(prevIndex),
		Current:       track,
		PreviousIndex: prevIndex,
		Index:         index,
	}
	e.broadcastLocked(func(s *Subscription) { s.sendTrack(ev) })

	if e.session != nil {
		session, t := e.session, *track
		e.after(func() { session.UpdateMetadata(&t) })
	}
	if e.cfg.AnnounceTracks && e.notifier != nil {
		e.notifyLocked(Notice{
			Message:  track.Artist,
			Severity: SeverityInfo,
			Duration: e.cfg.NoticeDuration,
			Options:  NoticeOptions{Title: track.Title, Icon: track.Artwork, Replace: true},
		})
	}
}

func (e *Engine) publishPlaybackLocked() {
	if e.session == nil && len(e.nowPlaying) == 0 {
		return
	}
	snap := e.snapshotLocked()
	if e.session != nil {
		session := e.session
		e.after(func() { session.UpdatePlaybackState(snap) })
	}
	for _, np := range e.nowPlaying {
		e.after(func() { np.Update(snap) })
	}
}

func (e *Engine) notifyLocked(n Notice) {
	if e.notifier == nil {
		return
	}
	notifier := e.notifier
	e.after(func() { notifier.Notify(n) })
	e.duckLocked()
}

func (e *Engine) broadcastLocked(send func(*Subscription)) {
	e.after(func() {
		e.subsMu.Lock()
		defer e.subsMu.Unlock()
		for _, sub := range e.subs {
			send(sub)
		}
	})
}

func clampVolume(v float64) float64 {
	if v != v || v < 0 { // NaN or negative
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
