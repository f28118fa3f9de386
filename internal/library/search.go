package library

import (
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/llehouerou/serenade/internal/playlist"
)

const minTermLen = 3

// Search returns the indices of tracks matching query. A track matches when
// the query appears in its title, artist, album or genre, when one of the
// words of those fields starts or contains the query, or when the query
// contains one of those words of at least minTermLen runes. An empty query
// matches every track. Indices keep playlist order.
func Search(tracks []playlist.Track, query string) []int {
	q := Normalize(query)
	if q == "" {
		return lo.Range(len(tracks))
	}

	var out []int
	for i, t := range tracks {
		text := searchText(t)
		if strings.Contains(text, q) || lo.SomeBy(strings.Fields(text), func(term string) bool {
			return strings.Contains(term, q) ||
				(utf8.RuneCountInString(term) >= minTermLen && strings.Contains(q, term))
		}) {
			out = append(out, i)
		}
	}
	return out
}

func searchText(t playlist.Track) string {
	return Normalize(strings.Join([]string{t.Title, t.Artist, t.Album, t.Genre}, " "))
}

// Pick returns the tracks whose ID is in ids, in playlist order, with their
// indices.
func Pick(tracks []playlist.Track, ids []string) ([]playlist.Track, []int) {
	want := lo.SliceToMap(ids, func(id string) (string, struct{}) { return id, struct{}{} })
	var picked []playlist.Track
	var idx []int
	for i, t := range tracks {
		if _, ok := want[t.ID]; ok {
			picked = append(picked, t)
			idx = append(idx, i)
		}
	}
	return picked, idx
}
