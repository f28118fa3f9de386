package playback

import (
	"fmt"
	"time"

	"github.com/llehouerou/serenade/internal/player"
)

// handleEventLocked applies one transport event. Events from an earlier
// load are stale and dropped, even when the same source was loaded again.
func (e *Engine) handleEventLocked(ev player.Event) {
	if (ev.Load != 0 && ev.Load != e.loadGen) || (ev.URI != "" && ev.URI != e.loadedURI) {
		e.logger.Debug().
			Stringer("event", ev.Kind).
			Str("uri", ev.URI).
			Uint64("gen", ev.Load).
			Msg("dropping stale transport event")
		return
	}

	switch ev.Kind {
	case player.EventMetadataReady:
		e.metadataReadyLocked(ev.Duration)
	case player.EventStarted:
		e.failureChain = 0
		uri, handler := ev.URI, e.failures
		e.after(func() { handler.Recovered(uri) })
	case player.EventPaused:
		// The engine drives pauses itself.
	case player.EventEnded:
		e.endedLocked()
	case player.EventError:
		if e.state == StateIdle || e.state == StateErrored {
			return
		}
		idx := e.playlist.CurrentIndex()
		e.failLocked(Failure{
			Kind:  classify(ev.Code),
			Index: idx,
			Track: e.playlist.Track(idx),
			URI:   e.loadedURI,
			Code:  ev.Code,
			Err:   ev.Err,
		})
	}
}

func (e *Engine) metadataReadyLocked(d time.Duration) {
	if e.state != StateLoading {
		return
	}
	idx := e.playlist.CurrentIndex()
	if d > 0 && e.playlist.SetDuration(idx, d) && e.session != nil {
		// Re-send metadata now that the length is known.
		if t := e.playlist.Track(idx); t != nil {
			session := e.session
			e.after(func() { session.UpdateMetadata(t) })
		}
	}
	e.setStateLocked(StateReady)
	if e.playWhenReady {
		_ = e.startLocked()
	}
}

// endedLocked replays the track in repeat mode, otherwise advances when
// auto-play is on or rewinds and parks in Ready. A track that ends while a
// pause is fading out parks in Ready as well.
func (e *Engine) endedLocked() {
	if e.state != StatePlaying {
		return
	}
	pausing := e.fadingOut()
	e.cancelTimersLocked()
	e.setStateLocked(StateEnded)

	switch {
	case pausing:
		if err := e.transport.SetPosition(0); err != nil {
			e.logger.Warn().Err(err).Msg("rewind failed")
		}
		e.setStateLocked(StateReady)
	case e.playlist.Repeating():
		if err := e.transport.SetPosition(0); err != nil {
			e.logger.Warn().Err(err).Msg("rewind for repeat failed")
		}
		_ = e.startLocked()
	case e.cfg.AutoPlay:
		_ = e.advanceLocked(1, true)
	default:
		if err := e.transport.SetPosition(0); err != nil {
			e.logger.Warn().Err(err).Msg("rewind failed")
		}
		e.setStateLocked(StateReady)
	}
}

// failLocked reports a track failure and schedules the handler's retry or
// skip. A run of consecutive skips as long as the playlist ends the session
// with a single notice.
func (e *Engine) failLocked(f Failure) {
	e.playWhenReady = e.playWhenReady || e.state == StatePlaying
	e.cancelTimersLocked()
	e.setStateLocked(StateErrored)

	d := e.decideLocked(f)
	if f.Kind != TransientNetworkFailure {
		d.Action = ActionSkip
	}

	e.logger.Warn().
		Err(f.Err).
		Stringer("kind", f.Kind).
		Str("uri", f.URI).
		Stringer("action", d.Action).
		Dur("delay", d.Delay).
		Msg("track failed")

	if d.Action == ActionRetry {
		e.reportLocked(f, fmt.Sprintf("%s, retrying (%d)", f.Message(), d.Attempt))
		index := f.Index
		e.scheduleLocked(d.Delay, func() {
			if e.state != StateErrored {
				return
			}
			t := e.playlist.Track(index)
			if t == nil {
				return
			}
			e.loadSourceLocked(index, t, e.playWhenReady)
		})
		return
	}

	e.failureChain++
	if e.failureChain >= e.playlist.Len() {
		e.reportLocked(f, "No playable tracks: "+f.Message())
		e.failureChain = 0
		e.stopLocked()
		return
	}

	e.reportLocked(f, f.Message()+", skipping")
	// Pause and Play during the wait update playWhenReady.
	e.scheduleLocked(d.Delay, func() {
		if e.state != StateErrored {
			return
		}
		_ = e.advanceLocked(1, e.playWhenReady)
	})
}

func (e *Engine) decideLocked(f Failure) (d Decision) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Msg("failure handler panicked")
			d = Decision{Action: ActionSkip}
		}
	}()
	return e.failures.HandleFailure(f)
}

// scheduleLocked runs fn under the lock after delay unless cancelled first.
func (e *Engine) scheduleLocked(delay time.Duration, fn func()) {
	e.cancelPendingLocked()
	gen := e.pendingGen
	e.pending = time.AfterFunc(delay, func() {
		_ = e.exec(func() error {
			if e.pendingGen != gen {
				return nil
			}
			e.pending = nil
			e.pendingGen++
			fn()
			return nil
		})
	})
}

func (e *Engine) cancelPendingLocked() {
	if e.pending == nil {
		return
	}
	e.pending.Stop()
	e.pending = nil
	e.pendingGen++
}

func (e *Engine) cancelTimersLocked() {
	e.cancelFadeLocked()
	e.cancelPendingLocked()
}

// reportEmptyLocked reports the empty playlist once until new tracks are
// set. The engine stays where it is.
func (e *Engine) reportEmptyLocked() error {
	if !e.emptyReported {
		e.emptyReported = true
		f := Failure{Kind: EmptyPlaylist, Index: -1, Err: ErrEmptyPlaylist}
		e.reportLocked(f, "")
	}
	return ErrEmptyPlaylist
}

// reportLocked surfaces a failure to the user, subscribers and the log.
// An empty message falls back to the failure's own text.
func (e *Engine) reportLocked(f Failure, msg string) {
	if msg == "" {
		msg = f.Message()
	}
	if f.Kind == EmptyPlaylist || f.Kind == InvalidIndex {
		e.logger.Info().Stringer("kind", f.Kind).Int("index", f.Index).Msg(msg)
	}
	e.notifyLocked(Notice{
		Message:  msg,
		Severity: SeverityError,
		Duration: e.cfg.NoticeDuration,
	})
	ev := ErrorEvent{Failure: f}
	e.broadcastLocked(func(s *Subscription) { s.sendError(ev) })
}
