package player

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog"
)

const eventBufferSize = 32

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// Player is a Transport that decodes local files and http(s) sources and
// plays them through the system speaker.
//
// Lock order is p.mu then the speaker lock. Speaker callbacks never take
// p.mu directly; they hand off to a goroutine.
type Player struct {
	mu     sync.Mutex
	client *http.Client
	logger zerolog.Logger

	events    chan Event
	closed    chan struct{}
	closeOnce sync.Once

	state      State
	loadID     uint64 // bumped on every Load and Stop; stale callbacks compare against it
	cancelLoad context.CancelFunc
	uri        string
	streamer   beep.StreamSeekCloser
	format     beep.Format
	ctrl       *beep.Ctrl
	volume     *effects.Volume
	queued     bool // streamer handed to the speaker
	duration   time.Duration

	volumeLevel float64
}

// Option configures a Player.
type Option func(*Player)

// WithHTTPClient sets the client used for remote sources.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Player) {
		p.client = c
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Player) {
		p.logger = l
	}
}

// New creates a stopped player at full volume.
func New(opts ...Option) *Player {
	p := &Player{
		client:      &http.Client{Timeout: 60 * time.Second},
		logger:      zerolog.Nop(),
		events:      make(chan Event, eventBufferSize),
		closed:      make(chan struct{}),
		state:       Stopped,
		volumeLevel: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Events returns the channel transport events are delivered on.
func (p *Player) Events() <-chan Event {
	return p.events
}

// State returns the transport state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Load releases the current source and starts loading uri in the
// background. Unsupported sources fail synchronously.
func (p *Player) Load(uri string) (uint64, error) {
	src, err := parseSource(uri)
	if err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.isClosed() {
		return 0, ErrClosed
	}

	p.releaseLocked()
	p.loadID++
	ctx, cancel := context.WithCancel(context.Background())
	p.cancelLoad = cancel
	p.uri = uri
	p.state = Loading

	go p.load(ctx, p.loadID, src)
	return p.loadID, nil
}

func (p *Player) load(ctx context.Context, id uint64, src source) {
	rc, err := src.open(ctx, p.client)
	if err != nil {
		p.fail(id, err)
		return
	}

	streamer, format, err := decode(rc, src.ext)
	if err != nil {
		rc.Close()
		p.fail(id, mediaError(CodeDecode, src.uri, err))
		return
	}

	if err := initSpeaker(format.SampleRate); err != nil {
		streamer.Close()
		p.fail(id, mediaError(CodeAborted, src.uri, err))
		return
	}

	p.mu.Lock()
	if id != p.loadID {
		p.mu.Unlock()
		streamer.Close()
		return
	}

	p.streamer = streamer
	p.format = format

	// Resample if the track's sample rate differs from the speaker's
	var playStreamer beep.Streamer = streamer
	if format.SampleRate != speakerSampleRate {
		playStreamer = beep.Resample(4, format.SampleRate, speakerSampleRate, streamer)
	}
	p.ctrl = &beep.Ctrl{Streamer: playStreamer, Paused: true}
	p.volume = &effects.Volume{Streamer: p.ctrl, Base: 2}
	p.applyVolumeLocked()
	p.duration = format.SampleRate.D(streamer.Len())
	p.state = Ready
	p.queueLocked(id)
	duration := p.duration
	p.mu.Unlock()

	p.logger.Debug().Str("uri", src.uri).Dur("duration", duration).Msg("source ready")
	p.emit(Event{Kind: EventMetadataReady, URI: src.uri, Load: id, Duration: duration})
}

func (p *Player) fail(id uint64, err error) {
	p.mu.Lock()
	if id != p.loadID {
		p.mu.Unlock()
		return
	}
	p.state = Failed
	uri := p.uri
	p.mu.Unlock()

	p.logger.Debug().Err(err).Str("uri", uri).Msg("source failed")
	p.emit(Event{Kind: EventError, URI: uri, Load: id, Code: CodeOf(err), Err: err})
}

// queueLocked hands the current streamer to the speaker.
func (p *Player) queueLocked(id uint64) {
	speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
		// Runs under the speaker lock.
		go p.finished(id)
	})))
	p.queued = true
}

func (p *Player) finished(id uint64) {
	p.mu.Lock()
	if id != p.loadID || !p.queued {
		p.mu.Unlock()
		return
	}
	p.queued = false
	p.state = Paused
	p.ctrl.Paused = true
	uri := p.uri
	streamErr := p.streamer.Err()
	p.mu.Unlock()

	if streamErr != nil {
		p.emit(Event{Kind: EventError, URI: uri, Load: id, Code: CodeDecode, Err: mediaError(CodeDecode, uri, streamErr)})
		return
	}
	p.emit(Event{Kind: EventEnded, URI: uri, Load: id})
}

// Play starts or resumes the loaded source.
func (p *Player) Play() error {
	p.mu.Lock()
	if !p.state.CanPlay() {
		p.mu.Unlock()
		return ErrNotLoaded
	}

	if p.queued {
		speaker.Lock()
		p.ctrl.Paused = false
		speaker.Unlock()
	} else {
		p.ctrl.Paused = false
		p.queueLocked(p.loadID)
	}
	p.state = Playing
	uri, id := p.uri, p.loadID
	p.mu.Unlock()

	p.emit(Event{Kind: EventStarted, URI: uri, Load: id})
	return nil
}

// Pause pauses playback.
func (p *Player) Pause() {
	p.mu.Lock()
	if !p.state.CanPause() {
		p.mu.Unlock()
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	p.state = Paused
	uri, id := p.uri, p.loadID
	p.mu.Unlock()

	p.emit(Event{Kind: EventPaused, URI: uri, Load: id})
}

// Stop releases the current source.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked()
	p.loadID++
	p.uri = ""
	p.state = Stopped
}

func (p *Player) releaseLocked() {
	if p.cancelLoad != nil {
		p.cancelLoad()
		p.cancelLoad = nil
	}
	if p.queued {
		speaker.Clear()
		p.queued = false
	}
	if p.streamer != nil {
		_ = p.streamer.Close()
		p.streamer = nil
	}
	p.ctrl = nil
	p.volume = nil
	p.duration = 0
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := p.streamer.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(pos)
}

// SetPosition moves playback to d, clamped to the source length.
func (p *Player) SetPosition(d time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.HasSource() {
		return ErrNotLoaded
	}

	n := p.format.SampleRate.N(d)
	n = max(n, 0)
	n = min(n, p.streamer.Len())

	speaker.Lock()
	err := p.streamer.Seek(n)
	speaker.Unlock()
	return err
}

// Duration returns the source length, or 0 before metadata is ready.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

// Close stops playback and releases the transport.
func (p *Player) Close() error {
	p.closeOnce.Do(func() {
		p.Stop()
		close(p.closed)
	})
	return nil
}

func (p *Player) isClosed() bool {
	select {
	case <-p.closed:
		return true
	default:
		return false
	}
}

// emit delivers e without blocking the caller. When the buffer is full the
// send moves to a goroutine that gives up once the player is closed.
func (p *Player) emit(e Event) {
	select {
	case p.events <- e:
	default:
		go func() {
			select {
			case p.events <- e:
			case <-p.closed:
			}
		}()
	}
}

func initSpeaker(sr beep.SampleRate) error {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInitialized {
		return nil
	}
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return err
	}
	speakerSampleRate = sr
	speakerInitialized = true
	return nil
}
