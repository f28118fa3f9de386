package nowplaying

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/serenade/internal/playback"
)

const writeTimeout = 2 * time.Second

// Payload is the JSON document stored and published for each update.
type Payload struct {
	State      string    `json:"state"`
	Active     bool      `json:"active"` // playing or paused
	TrackID    string    `json:"track_id,omitempty"`
	Title      string    `json:"title,omitempty"`
	Artist     string    `json:"artist,omitempty"`
	Album      string    `json:"album,omitempty"`
	Artwork    string    `json:"artwork,omitempty"`
	NextTitle  string    `json:"next_title,omitempty"`
	PositionMS int64     `json:"position_ms"`
	DurationMS int64     `json:"duration_ms"`
	Shuffle    bool      `json:"shuffle"`
	Repeat     bool      `json:"repeat"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewPayload converts an engine snapshot.
func NewPayload(s playback.Snapshot, now time.Time) Payload {
	p := Payload{
		State:      s.State.String(),
		Active:     s.State.IsActive(),
		PositionMS: s.Position.Milliseconds(),
		DurationMS: s.Duration.Milliseconds(),
		Shuffle:    s.Shuffle,
		Repeat:     s.Repeat,
		UpdatedAt:  now.UTC(),
	}
	if t := s.Track; t != nil {
		p.TrackID = t.ID
		p.Title = t.Title
		p.Artist = t.Artist
		p.Album = t.Album
		p.Artwork = t.Artwork
	}
	if n := s.Next; n != nil {
		p.NextTitle = n.Title
	}
	return p
}

// Publisher writes engine snapshots to Redis from a background goroutine.
// Update never blocks: while a write is in flight only the newest snapshot
// is kept.
type Publisher struct {
	client client
	key    string
	ch     string
	ttl    time.Duration
	logger zerolog.Logger
	now    func() time.Time

	mu      sync.Mutex
	pending *playback.Snapshot
	wake    chan struct{}
	done    chan struct{}
	stopped chan struct{}
	closed  bool
}

// Connect dials Redis and starts a publisher.
func Connect(ctx context.Context, cfg Config, logger zerolog.Logger) (*Publisher, error) {
	c, err := Dial(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return newPublisher(c, cfg, logger), nil
}

func newPublisher(c client, cfg Config, logger zerolog.Logger) *Publisher {
	p := &Publisher{
		client:  c,
		key:     cfg.Key,
		ch:      cfg.Channel,
		ttl:     cfg.TTL,
		logger:  logger,
		now:     time.Now,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go p.run()
	return p
}

// Update implements playback.NowPlaying.
func (p *Publisher) Update(s playback.Snapshot) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.pending = &s
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Publisher) run() {
	defer close(p.stopped)
	for {
		select {
		case <-p.done:
			p.flush()
			return
		case <-p.wake:
			p.flush()
		}
	}
}

func (p *Publisher) flush() {
	p.mu.Lock()
	s := p.pending
	p.pending = nil
	p.mu.Unlock()
	if s == nil {
		return
	}
	if err := p.write(NewPayload(*s, p.now())); err != nil {
		p.logger.Warn().Err(err).Str("key", p.key).Msg("now-playing publish failed")
	}
}

func (p *Publisher) write(payload Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if p.key != "" {
		if err := p.client.Set(ctx, p.key, data, p.ttl).Err(); err != nil {
			return err
		}
	}
	if p.ch != "" {
		if err := p.client.Publish(ctx, p.ch, data).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes the last snapshot and closes the Redis client.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	close(p.done)
	<-p.stopped
	return p.client.Close()
}
