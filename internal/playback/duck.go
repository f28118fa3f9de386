package playback

import "time"

// applyVolumeLocked sends level to the transport, lowered while ducked.
// Fades and volume changes go through here so a duck survives them.
func (e *Engine) applyVolumeLocked(level float64) {
	if e.ducked {
		level *= 1 - DuckReduction
	}
	e.transport.SetVolume(level)
}

// duckLocked lowers the output for DuckDuration. A duck that is already
// running is extended rather than stacked.
func (e *Engine) duckLocked() {
	if !e.cfg.DuckOnNotice {
		return
	}
	e.cancelDuckLocked()
	e.ducked = true
	if e.state == StatePlaying && e.fade == nil {
		e.applyVolumeLocked(e.volume)
	}

	gen := e.duckGen
	e.duck = time.AfterFunc(e.cfg.DuckDuration, func() {
		_ = e.exec(func() error {
			if e.duckGen != gen {
				return nil
			}
			e.duck = nil
			e.duckGen++
			e.ducked = false
			if e.state == StatePlaying && e.fade == nil {
				e.applyVolumeLocked(e.volume)
			}
			return nil
		})
	})
}

// cancelDuckLocked drops a running duck. The caller restores the output.
func (e *Engine) cancelDuckLocked() {
	if e.duck == nil {
		return
	}
	e.duck.Stop()
	e.duck = nil
	e.duckGen++
	e.ducked = false
}
