// internal/player/mock.go
package player

import (
	"sync"
	"time"
)

// Mock is a test double for Transport.
//
// By default Load succeeds and immediately emits EventMetadataReady with
// the duration registered for the URI. Play and Pause emit EventStarted
// and EventPaused like the real player.
type Mock struct {
	mu sync.Mutex

	state     State
	uri       string
	position  time.Duration
	durations map[string]time.Duration
	volume    float64
	events    chan Event
	autoReady bool
	loadID    uint64

	loadErr       error
	playErr       error
	loadCalls     []string
	playCalls     int
	pauseCalls    int
	stopCalls     int
	setPosCalls   []time.Duration
	volumeHistory []float64
	closed        bool
}

// NewMock creates a new mock transport for testing.
func NewMock() *Mock {
	return &Mock{
		state:     Stopped,
		durations: make(map[string]time.Duration),
		volume:    1,
		events:    make(chan Event, 256),
		autoReady: true,
	}
}

func (m *Mock) Load(uri string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls = append(m.loadCalls, uri)
	m.loadID++
	if m.loadErr != nil {
		m.state = Failed
		return 0, m.loadErr
	}
	m.uri = uri
	m.position = 0
	m.state = Loading
	if m.autoReady {
		m.state = Ready
		m.send(Event{Kind: EventMetadataReady, URI: uri, Load: m.loadID, Duration: m.durations[uri]})
	}
	return m.loadID, nil
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls++
	if m.playErr != nil {
		return m.playErr
	}
	if !m.state.CanPlay() {
		return ErrNotLoaded
	}
	m.state = Playing
	m.send(Event{Kind: EventStarted, URI: m.uri, Load: m.loadID})
	return nil
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCalls++
	if m.state == Playing {
		m.state = Paused
		m.send(Event{Kind: EventPaused, URI: m.uri, Load: m.loadID})
	}
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	m.loadID++
	m.state = Stopped
	m.uri = ""
	m.position = 0
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) SetPosition(d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setPosCalls = append(m.setPosCalls, d)
	if !m.state.HasSource() {
		return ErrNotLoaded
	}
	m.position = d
	return nil
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.HasSource() {
		return 0
	}
	return m.durations[m.uri]
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = clampLevel(level)
	m.volumeHistory = append(m.volumeHistory, m.volume)
}

func (m *Mock) Events() <-chan Event {
	return m.events
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *Mock) send(e Event) {
	select {
	case m.events <- e:
	default:
	}
}

// Test helpers

// SetDurationFor registers the duration reported when uri is loaded.
func (m *Mock) SetDurationFor(uri string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations[uri] = d
}

// SetAutoReady controls whether Load emits EventMetadataReady by itself.
func (m *Mock) SetAutoReady(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoReady = on
}

func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

func (m *Mock) SetState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) URI() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uri
}

func (m *Mock) LoadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loadCalls...)
}

func (m *Mock) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

func (m *Mock) PauseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauseCalls
}

func (m *Mock) StopCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalls
}

func (m *Mock) SetPositionCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.setPosCalls...)
}

// VolumeHistory returns every level passed to SetVolume, in order.
func (m *Mock) VolumeHistory() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.volumeHistory...)
}

func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// EmitReady completes a pending load with the given duration.
func (m *Mock) EmitReady(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Ready
	m.durations[m.uri] = d
	m.send(Event{Kind: EventMetadataReady, URI: m.uri, Load: m.loadID, Duration: d})
}

// EmitEnded simulates the source reaching its end.
func (m *Mock) EmitEnded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Paused
	m.position = m.durations[m.uri]
	m.send(Event{Kind: EventEnded, URI: m.uri, Load: m.loadID})
}

// EmitError simulates a media error on the current source.
func (m *Mock) EmitError(code ErrorCode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Failed
	m.send(Event{Kind: EventError, URI: m.uri, Load: m.loadID, Code: code, Err: mediaError(code, m.uri, nil)})
}

// LoadGen returns the generation of the most recent Load.
func (m *Mock) LoadGen() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadID
}

// Emit sends ev as if the transport produced it.
func (m *Mock) Emit(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.send(ev)
}

// Verify Mock implements Transport at compile time.
var _ Transport = (*Mock)(nil)
