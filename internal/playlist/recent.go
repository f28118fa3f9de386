package playlist

// DefaultRecentLimit is the number of tracks kept in the recently played list.
const DefaultRecentLimit = 20

// Recent keeps the most recently played tracks, newest first.
// A track appears at most once.
type Recent struct {
	tracks  []Track
	maxSize int
}

// NewRecent creates an empty list holding at most maxSize tracks.
func NewRecent(maxSize int) *Recent {
	if maxSize <= 0 {
		maxSize = DefaultRecentLimit
	}
	return &Recent{
		tracks:  make([]Track, 0, maxSize),
		maxSize: maxSize,
	}
}

// Push records t as the most recently played track.
// An earlier entry with the same ID is moved to the front.
func (r *Recent) Push(t Track) {
	for i := range r.tracks {
		if r.tracks[i].ID == t.ID {
			r.tracks = append(r.tracks[:i], r.tracks[i+1:]...)
			break
		}
	}

	r.tracks = append([]Track{t}, r.tracks...)

	// Trim if over limit
	if len(r.tracks) > r.maxSize {
		r.tracks = r.tracks[:r.maxSize]
	}
}

// Tracks returns a copy of the list, newest first.
func (r *Recent) Tracks() []Track {
	result := make([]Track, len(r.tracks))
	copy(result, r.tracks)
	return result
}

// Len returns the number of tracks in the list.
func (r *Recent) Len() int {
	return len(r.tracks)
}

// Clear empties the list.
func (r *Recent) Clear() {
	r.tracks = r.tracks[:0]
}
