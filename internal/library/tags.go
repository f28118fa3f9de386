package library

import (
	"os"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
)

// TagInfo is the subset of embedded metadata used to complete a song entry.
type TagInfo struct {
	Title  string
	Artist string
	Album  string
	Genre  string
	Year   int
}

// TagReader reads embedded metadata from a local audio file.
type TagReader func(path string) (TagInfo, error)

// ReadTags reads ID3, MP4, FLAC or Ogg tags from the file at path.
func ReadTags(path string) (TagInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return TagInfo{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return TagInfo{}, err
	}

	artist := strings.TrimSpace(m.Artist())
	if artist == "" {
		artist = strings.TrimSpace(m.AlbumArtist())
	}

	return TagInfo{
		Title:  strings.TrimSpace(m.Title()),
		Artist: artist,
		Album:  strings.TrimSpace(m.Album()),
		Genre:  strings.TrimSpace(m.Genre()),
		Year:   m.Year(),
	}, nil
}

// String renders the info the way log lines show it.
func (i TagInfo) String() string {
	s := i.Artist + " - " + i.Title
	if i.Year > 0 {
		s += " (" + strconv.Itoa(i.Year) + ")"
	}
	return s
}
