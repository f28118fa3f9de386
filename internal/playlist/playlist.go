package playlist

import "time"

// Track represents a single track in a playlist.
type Track struct {
	ID       string // stable library identifier
	Title    string
	Artist   string
	Album    string
	Genre    string
	Year     int
	Artwork  string
	Source   string // file path, file:// URI or http(s) URL
	Duration time.Duration
}

// Playlist holds an ordered collection of tracks.
//
// Indices are stable for the lifetime of a Playlist: tracks are never
// removed or reordered once the playlist is built. Only Duration may be
// filled in later, once the transport has read the track's metadata.
type Playlist struct {
	tracks []Track
}

// NewPlaylist creates a playlist holding a copy of tracks.
func NewPlaylist(tracks ...Track) *Playlist {
	p := &Playlist{tracks: make([]Track, len(tracks))}
	copy(p.tracks, tracks)
	return p
}

// Tracks returns a copy of all tracks.
func (p *Playlist) Tracks() []Track {
	result := make([]Track, len(p.tracks))
	copy(result, p.tracks)
	return result
}

// Track returns the track at the given index, or nil if out of bounds.
func (p *Playlist) Track(index int) *Track {
	if index < 0 || index >= len(p.tracks) {
		return nil
	}
	return &p.tracks[index]
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// IndexOf returns the index of the track with the given ID, or -1.
func (p *Playlist) IndexOf(id string) int {
	for i := range p.tracks {
		if p.tracks[i].ID == id {
			return i
		}
	}
	return -1
}

// setDuration back-fills the duration of the track at index.
func (p *Playlist) setDuration(index int, d time.Duration) bool {
	t := p.Track(index)
	if t == nil || d <= 0 {
		return false
	}
	t.Duration = d
	return true
}
