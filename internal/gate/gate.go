// Package gate implements the optional passphrase prompt shown before the
// player opens. It keeps casual passers-by out of the UI and nothing more:
// the music files and settings stay readable to anyone with file access.
package gate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSession is how long an unlock lasts.
const DefaultSession = 12 * time.Hour

var (
	ErrIncorrect   = errors.New("incorrect passphrase")
	ErrEmpty       = errors.New("passphrase cannot be empty")
	ErrInvalidHash = errors.New("passphrase hash is not a bcrypt hash")
)

// Store persists the unlock timestamp between runs.
type Store interface {
	SaveGateSession(unlocked, expires time.Time) error
	GateSessionExpiry() (time.Time, bool, error)
	ClearGateSession() error
}

// Gate checks a passphrase against a bcrypt hash and remembers successful
// unlocks for a session.
type Gate struct {
	hash    []byte
	session time.Duration
	store   Store
	logger  zerolog.Logger
	now     func() time.Time
}

// Option configures a Gate.
type Option func(*Gate)

// WithSession sets how long an unlock lasts.
func WithSession(d time.Duration) Option {
	return func(g *Gate) {
		if d > 0 {
			g.session = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Gate) { g.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// New creates a gate for the given bcrypt hash.
func New(hash string, store Store, opts ...Option) (*Gate, error) {
	hash = strings.TrimSpace(hash)
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}
	g := &Gate{
		hash:    []byte(hash),
		session: DefaultSession,
		store:   store,
		logger:  zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Hash returns the bcrypt hash of passphrase for the config file.
func Hash(passphrase string) (string, error) {
	if passphrase == "" {
		return "", ErrEmpty
	}
	h, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Remaining returns how long the current unlock stays valid, 0 when locked.
func (g *Gate) Remaining() (time.Duration, error) {
	expires, ok, err := g.store.GateSessionExpiry()
	if err != nil || !ok {
		return 0, err
	}
	left := expires.Sub(g.now())
	if left <= 0 {
		if err := g.store.ClearGateSession(); err != nil {
			g.logger.Warn().Err(err).Msg("clearing expired gate session failed")
		}
		return 0, nil
	}
	// An expiry further out than one session means the clock moved back.
	if left > g.session {
		return 0, g.store.ClearGateSession()
	}
	return left, nil
}

// Unlocked reports whether a previous unlock is still valid.
func (g *Gate) Unlocked() (bool, error) {
	left, err := g.Remaining()
	return left > 0, err
}

// Unlock checks passphrase and starts a session on success.
func (g *Gate) Unlock(passphrase string) error {
	if passphrase == "" {
		return ErrEmpty
	}
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(passphrase)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			g.logger.Info().Msg("gate unlock rejected")
			return ErrIncorrect
		}
		return err
	}

	now := g.now()
	if err := g.store.SaveGateSession(now, now.Add(g.session)); err != nil {
		return err
	}
	g.logger.Info().Dur("session", g.session).Msg("gate unlocked")
	return nil
}

// Lock ends the current session.
func (g *Gate) Lock() error {
	return g.store.ClearGateSession()
}
