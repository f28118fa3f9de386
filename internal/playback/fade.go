package playback

import "time"

type fadeKind int

const (
	fadeKindIn fadeKind = iota
	fadeKindOut
)

func (k fadeKind) String() string {
	if k == fadeKindOut {
		return "out"
	}
	return "in"
}

// fade is a volume ramp applied in discrete steps.
type fade struct {
	kind     fadeKind
	from, to float64
	step     int
	steps    int
	interval time.Duration
	timer    *time.Timer
	gen      uint64
	done     func() // runs under the engine lock after the last step
}

func (f *fade) level() float64 {
	return f.from + (f.to-f.from)*float64(f.step)/float64(f.steps)
}

// startFadeLocked replaces any running fade with a new ramp from -> to.
func (e *Engine) startFadeLocked(kind fadeKind, from, to float64, done func()) {
	e.cancelFadeLocked()

	steps := e.cfg.FadeSteps
	interval := e.cfg.FadeDuration / time.Duration(steps)
	if interval <= 0 {
		interval = time.Millisecond
	}

	f := &fade{
		kind:     kind,
		from:     from,
		to:       to,
		steps:    steps,
		interval: interval,
		gen:      e.fadeGen,
		done:     done,
	}
	e.fade = f
	e.applyVolumeLocked(from)
	e.logger.Debug().Stringer("kind", kind).Float64("from", from).Float64("to", to).Msg("fade started")

	f.timer = time.AfterFunc(interval, func() { e.fadeTick(f) })
}

func (e *Engine) fadeTick(f *fade) {
	_ = e.exec(func() error {
		if e.fade != f || e.fadeGen != f.gen {
			return nil
		}
		f.step++
		e.applyVolumeLocked(f.level())
		if f.step < f.steps {
			f.timer.Reset(f.interval)
			return nil
		}
		e.fade = nil
		e.fadeGen++
		if f.done != nil {
			f.done()
		}
		return nil
	})
}

// cancelFadeLocked abandons the running fade where it stands.
func (e *Engine) cancelFadeLocked() {
	if e.fade == nil {
		return
	}
	e.fade.timer.Stop()
	e.fade = nil
	e.fadeGen++
}

func (e *Engine) fadingOut() bool {
	return e.fade != nil && e.fade.kind == fadeKindOut
}
