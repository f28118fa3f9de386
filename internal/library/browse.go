package library

import (
	"cmp"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/llehouerou/serenade/internal/playlist"
)

// Field is a track attribute the library can be browsed by.
type Field int

const (
	ByArtist Field = iota
	ByAlbum
	ByGenre
)

// String returns the field name used on the command line.
func (f Field) String() string {
	switch f {
	case ByAlbum:
		return "album"
	case ByGenre:
		return "genre"
	default:
		return "artist"
	}
}

// ParseField maps "artist", "album" or "genre" (or their plurals) to a
// Field.
func ParseField(s string) (Field, bool) {
	switch Normalize(s) {
	case "artist", "artists":
		return ByArtist, true
	case "album", "albums":
		return ByAlbum, true
	case "genre", "genres":
		return ByGenre, true
	}
	return ByArtist, false
}

// Key returns the value t is grouped under. Albums are keyed by artist and
// album so two artists' "Greatest Hits" stay apart.
func (f Field) Key(t playlist.Track) string {
	switch f {
	case ByAlbum:
		return t.Artist + " - " + t.Album
	case ByGenre:
		return t.Genre
	default:
		return t.Artist
	}
}

// Group is one artist, album or genre with its tracks' playlist indices.
type Group struct {
	Name     string
	Indices  []int
	Duration time.Duration
}

// Browse groups tracks by f. Groups are sorted by name; tracks without a
// value for f are left out.
func Browse(tracks []playlist.Track, f Field) []Group {
	byName := make(map[string]*Group)
	for i, t := range tracks {
		if f.value(t) == "" {
			continue
		}
		name := f.Key(t)
		g, ok := byName[name]
		if !ok {
			g = &Group{Name: name}
			byName[name] = g
		}
		g.Indices = append(g.Indices, i)
		g.Duration += t.Duration
	}
	groups := lo.Map(lo.Values(byName), func(g *Group, _ int) Group { return *g })
	slices.SortFunc(groups, func(a, b Group) int {
		return cmp.Or(cmp.Compare(Normalize(a.Name), Normalize(b.Name)), cmp.Compare(a.Name, b.Name))
	})
	return groups
}

// Filter returns the indices of tracks whose f matches name, ignoring case
// and accents. For albums name may be the album alone or "Artist - Album".
func Filter(tracks []playlist.Track, f Field, name string) []int {
	want := Normalize(name)
	var out []int
	for i, t := range tracks {
		if Normalize(f.Key(t)) == want || (f == ByAlbum && Normalize(t.Album) == want) {
			out = append(out, i)
		}
	}
	return out
}

func (f Field) value(t playlist.Track) string {
	switch f {
	case ByAlbum:
		return t.Album
	case ByGenre:
		return t.Genre
	default:
		return t.Artist
	}
}

// Stats summarizes a library.
type Stats struct {
	Tracks    int
	Artists   int
	Albums    int
	Genres    int
	Favorites int
	Played    int // distinct tracks with at least one play
	Duration  time.Duration
}

// ComputeStats counts tracks, distinct artists, albums and genres, and
// how many of favorites and played refer to known tracks.
func ComputeStats(tracks []playlist.Track, favorites, played []string) Stats {
	known := lo.SliceToMap(tracks, func(t playlist.Track) (string, struct{}) { return t.ID, struct{}{} })
	inLibrary := func(id string, _ int) bool {
		_, ok := known[id]
		return ok
	}
	return Stats{
		Tracks:    len(tracks),
		Artists:   len(Browse(tracks, ByArtist)),
		Albums:    len(Browse(tracks, ByAlbum)),
		Genres:    len(Browse(tracks, ByGenre)),
		Favorites: len(lo.Uniq(lo.Filter(favorites, inLibrary))),
		Played:    len(lo.Uniq(lo.Filter(played, inLibrary))),
		Duration:  lo.SumBy(tracks, func(t playlist.Track) time.Duration { return t.Duration }),
	}
}
