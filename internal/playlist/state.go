package playlist

import (
	"errors"
	"math/rand/v2"
	"slices"
	"time"
)

// NoTrack is the current index when no track is selected.
const NoTrack = -1

var (
	ErrEmpty           = errors.New("no track available")
	ErrIndexOutOfRange = errors.New("track index out of range")
)

// State wraps a Playlist with the current position and the shuffle and
// repeat modes, and answers "what comes next".
//
// The current index always points into the base sequence, never into the
// shuffle order, so turning shuffle off keeps the same track selected.
//
// State is not safe for concurrent use; the playback engine serializes
// access to it.
type State struct {
	playlist  *Playlist
	current   int
	shuffled  bool
	repeating bool
	order     []int // permutation of playlist indices, valid while shuffled
	rng       *rand.Rand
}

// Option configures a State.
type Option func(*State)

// WithRand sets the random source used to generate shuffle orders.
func WithRand(r *rand.Rand) Option {
	return func(s *State) {
		s.rng = r
	}
}

// NewState creates an empty playlist state with nothing selected.
func NewState(opts ...Option) *State {
	s := &State{
		playlist: NewPlaylist(),
		current:  NoTrack,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetTracks replaces the playlist and clears the current selection.
// An empty slice is ignored and reports false.
func (s *State) SetTracks(tracks []Track) bool {
	if len(tracks) == 0 {
		return false
	}
	s.playlist = NewPlaylist(tracks...)
	s.current = NoTrack
	if s.shuffled {
		s.reshuffle()
	} else {
		s.order = nil
	}
	return true
}

// SetCurrent selects the track at index and returns it.
// Out-of-range indices leave the state unchanged.
func (s *State) SetCurrent(index int) (*Track, error) {
	if index < 0 || index >= s.playlist.Len() {
		return nil, ErrIndexOutOfRange
	}
	s.current = index
	return s.Current(), nil
}

// ClearCurrent deselects the current track.
func (s *State) ClearCurrent() {
	s.current = NoTrack
}

// Current returns a copy of the selected track, or nil if none.
func (s *State) Current() *Track {
	return s.Track(s.current)
}

// CurrentIndex returns the selected index (NoTrack if none).
func (s *State) CurrentIndex() int {
	return s.current
}

// Track returns a copy of the track at index, or nil if out of bounds.
func (s *State) Track(index int) *Track {
	t := s.playlist.Track(index)
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

// Tracks returns a copy of all tracks in base order.
func (s *State) Tracks() []Track {
	return s.playlist.Tracks()
}

// Len returns the number of tracks.
func (s *State) Len() int {
	return s.playlist.Len()
}

// IndexOf returns the index of the track with the given ID, or -1.
func (s *State) IndexOf(id string) int {
	return s.playlist.IndexOf(id)
}

// SetDuration back-fills the duration of the track at index once the
// transport knows it.
func (s *State) SetDuration(index int, d time.Duration) bool {
	return s.playlist.setDuration(index, d)
}

// Next advances to the following track and returns its index.
// Linear mode wraps from the last track to the first; shuffled mode walks
// the shuffle order circularly.
func (s *State) Next() (int, error) {
	if s.playlist.Len() == 0 {
		return NoTrack, ErrEmpty
	}
	s.current = s.step(1)
	return s.current, nil
}

// Previous moves to the preceding track and returns its index, wrapping
// like Next in the opposite direction.
func (s *State) Previous() (int, error) {
	if s.playlist.Len() == 0 {
		return NoTrack, ErrEmpty
	}
	s.current = s.step(-1)
	return s.current, nil
}

// PeekNext returns the track Next would select, without moving.
func (s *State) PeekNext() *Track {
	if s.playlist.Len() == 0 {
		return nil
	}
	return s.Track(s.step(1))
}

// First returns the index playback starts from when nothing is selected.
func (s *State) First() (int, error) {
	if s.playlist.Len() == 0 {
		return NoTrack, ErrEmpty
	}
	if s.shuffled {
		return s.order[0], nil
	}
	return 0, nil
}

func (s *State) step(dir int) int {
	n := s.playlist.Len()
	if !s.shuffled {
		if s.current == NoTrack {
			if dir > 0 {
				return 0
			}
			return n - 1
		}
		return (s.current + dir + n) % n
	}

	pos := slices.Index(s.order, s.current)
	if pos < 0 {
		if dir > 0 {
			return s.order[0]
		}
		return s.order[n-1]
	}
	return s.order[(pos+dir+n)%n]
}

// Shuffled reports whether shuffle mode is on.
func (s *State) Shuffled() bool {
	return s.shuffled
}

// Repeating reports whether repeat mode is on.
func (s *State) Repeating() bool {
	return s.repeating
}

// ToggleShuffle flips shuffle mode and returns the new value.
// Turning it on generates a fresh permutation; turning it off keeps the
// stored order unused until shuffle comes back on.
func (s *State) ToggleShuffle() bool {
	s.SetShuffle(!s.shuffled)
	return s.shuffled
}

// SetShuffle sets shuffle mode. A fresh order is generated only when the
// mode actually turns on.
func (s *State) SetShuffle(on bool) {
	if on && !s.shuffled {
		s.shuffled = true
		s.reshuffle()
		return
	}
	s.shuffled = on
}

// ToggleRepeat flips repeat mode and returns the new value.
func (s *State) ToggleRepeat() bool {
	s.repeating = !s.repeating
	return s.repeating
}

// SetRepeat sets repeat mode.
func (s *State) SetRepeat(on bool) {
	s.repeating = on
}

// ShuffleOrder returns a copy of the stored shuffle permutation.
func (s *State) ShuffleOrder() []int {
	return slices.Clone(s.order)
}

// reshuffle regenerates the order with an unbiased Fisher-Yates pass.
func (s *State) reshuffle() {
	n := s.playlist.Len()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := s.intN(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	s.order = order
}

func (s *State) intN(n int) int {
	if s.rng != nil {
		return s.rng.IntN(n)
	}
	return rand.IntN(n)
}
