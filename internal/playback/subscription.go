package playback

import "sync/atomic"

const eventBufferSize = 16

// Subscription delivers engine events to one listener. Each event kind has
// its own buffered channel; a listener that falls behind loses events
// rather than stalling the engine. Done is closed when the engine closes.
type Subscription struct {
	StateChanged    <-chan StateChange
	TrackChanged    <-chan TrackChange
	PositionChanged <-chan PositionChange
	ModeChanged     <-chan ModeChange
	VolumeChanged   <-chan VolumeChange
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	stateCh    chan StateChange
	trackCh    chan TrackChange
	positionCh chan PositionChange
	modeCh     chan ModeChange
	volumeCh   chan VolumeChange
	errorCh    chan ErrorEvent
	doneCh     chan struct{}

	dropped atomic.Int64
}

func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:    make(chan StateChange, eventBufferSize),
		trackCh:    make(chan TrackChange, eventBufferSize),
		positionCh: make(chan PositionChange, eventBufferSize),
		modeCh:     make(chan ModeChange, eventBufferSize),
		volumeCh:   make(chan VolumeChange, eventBufferSize),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.TrackChanged = s.trackCh
	s.PositionChanged = s.positionCh
	s.ModeChanged = s.modeCh
	s.VolumeChanged = s.volumeCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// Dropped reports how many events were discarded because the listener's
// buffer was full.
func (s *Subscription) Dropped() int64 {
	return s.dropped.Load()
}

func (s *Subscription) close() {
	close(s.doneCh)
}

// offer sends v on ch without blocking.
func offer[T any](s *Subscription, ch chan T, v T) {
	select {
	case ch <- v:
	default:
		s.dropped.Add(1)
	}
}

func (s *Subscription) sendState(e StateChange)       { offer(s, s.stateCh, e) }
func (s *Subscription) sendTrack(e TrackChange)       { offer(s, s.trackCh, e) }
func (s *Subscription) sendPosition(e PositionChange) { offer(s, s.positionCh, e) }
func (s *Subscription) sendMode(e ModeChange)         { offer(s, s.modeCh, e) }
func (s *Subscription) sendVolume(e VolumeChange)     { offer(s, s.volumeCh, e) }
func (s *Subscription) sendError(e ErrorEvent)        { offer(s, s.errorCh, e) }
