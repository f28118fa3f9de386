// Package library reads the music library document and turns its songs into
// playlist tracks.
package library

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/llehouerou/serenade/internal/playlist"
)

// DefaultFile is the document name looked up when no location is configured.
const DefaultFile = "music-library.json"

// maxDocumentSize bounds how much of a remote document is read.
const maxDocumentSize = 8 << 20

var (
	ErrNoSongs    = errors.New("library has no songs")
	ErrBadStatus  = errors.New("unexpected http status")
	ErrNoLocation = errors.New("no library location")
)

// idNamespace seeds the deterministic IDs given to songs without one.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://serenade.local/library"))

// Song is one entry of the library document.
type Song struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Artist   string   `json:"artist"`
	Album    string   `json:"album"`
	Duration Duration `json:"duration"`
	File     string   `json:"file"`
	Artwork  string   `json:"artwork"`
	Genre    string   `json:"genre"`
	Year     Year     `json:"year"`
}

type document struct {
	Library struct {
		Songs []Song `json:"songs"`
	} `json:"library"`
}

// Loader fetches and parses library documents.
type Loader struct {
	client   *http.Client
	logger   zerolog.Logger
	readTags TagReader
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for remote documents.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithLogger sets the loader's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithTagReader replaces the embedded-tag reader used to back-fill missing
// titles and artists. A nil reader disables the back-fill.
func WithTagReader(r TagReader) Option {
	return func(l *Loader) { l.readTags = r }
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client:   &http.Client{Timeout: 15 * time.Second},
		logger:   zerolog.Nop(),
		readTags: ReadTags,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the document at location, a file path or http(s) URL.
func (l *Loader) Load(ctx context.Context, location string) ([]playlist.Track, error) {
	if location == "" {
		return nil, ErrNoLocation
	}

	data, err := l.fetch(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", location, err)
	}

	tracks, err := l.parse(bytes.NewReader(data), location)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", location, err)
	}
	return tracks, nil
}

// LoadOrFallback behaves like Load but returns the built-in list when the
// document is missing, unreadable or empty. The error is the reason the
// fallback was used.
func (l *Loader) LoadOrFallback(ctx context.Context, location string) ([]playlist.Track, error) {
	tracks, err := l.Load(ctx, location)
	if err != nil {
		l.logger.Warn().Err(err).Str("location", location).Msg("using built-in library")
		return Fallback(), err
	}
	l.logger.Info().Int("songs", len(tracks)).Str("location", location).Msg("library loaded")
	return tracks, nil
}

func (l *Loader) fetch(ctx context.Context, location string) ([]byte, error) {
	if !isRemote(location) {
		return os.ReadFile(location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
}

// Parse decodes a library document. Relative file and artwork references are
// resolved against base, the document's own location.
func Parse(r io.Reader, base string) ([]playlist.Track, error) {
	return NewLoader(WithTagReader(nil)).parse(r, base)
}

func (l *Loader) parse(r io.Reader, base string) ([]playlist.Track, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	if len(doc.Library.Songs) == 0 {
		return nil, ErrNoSongs
	}

	tracks := make([]playlist.Track, 0, len(doc.Library.Songs))
	seen := make(map[string]bool, len(doc.Library.Songs))
	for i, s := range doc.Library.Songs {
		t := l.toTrack(s, base)
		if t.Source == "" {
			l.logger.Warn().Int("entry", i).Str("title", t.Title).Msg("skipping song without file")
			continue
		}
		if seen[t.ID] {
			l.logger.Warn().Str("id", t.ID).Msg("skipping duplicate song id")
			continue
		}
		seen[t.ID] = true
		tracks = append(tracks, t)
	}
	if len(tracks) == 0 {
		return nil, ErrNoSongs
	}
	return tracks, nil
}

func (l *Loader) toTrack(s Song, base string) playlist.Track {
	t := playlist.Track{
		ID:       strings.TrimSpace(s.ID),
		Title:    strings.TrimSpace(s.Title),
		Artist:   strings.TrimSpace(s.Artist),
		Album:    strings.TrimSpace(s.Album),
		Genre:    strings.TrimSpace(s.Genre),
		Year:     int(s.Year),
		Artwork:  resolve(base, s.Artwork),
		Source:   resolve(base, s.File),
		Duration: time.Duration(s.Duration),
	}

	if (t.Title == "" || t.Artist == "") && t.Source != "" && !isRemote(t.Source) && l.readTags != nil {
		l.backfill(&t)
	}
	if t.Title == "" && t.Source != "" {
		t.Title = titleFromSource(t.Source)
	}
	if t.Artist == "" {
		t.Artist = "Unknown Artist"
	}
	if t.ID == "" {
		t.ID = deriveID(t)
	}
	return t
}

func (l *Loader) backfill(t *playlist.Track) {
	info, err := l.readTags(t.Source)
	if err != nil {
		l.logger.Debug().Err(err).Str("file", t.Source).Msg("no embedded tags")
		return
	}
	l.logger.Debug().Stringer("tags", info).Str("file", t.Source).Msg("back-filling song from tags")
	if t.Title == "" {
		t.Title = info.Title
	}
	if t.Artist == "" {
		t.Artist = info.Artist
	}
	if t.Album == "" {
		t.Album = info.Album
	}
	if t.Genre == "" {
		t.Genre = info.Genre
	}
	if t.Year == 0 {
		t.Year = info.Year
	}
}

// deriveID returns a stable UUIDv5 for a song, keyed on its source.
func deriveID(t playlist.Track) string {
	key := t.Source
	if key == "" {
		key = t.Artist + "\x00" + t.Title
	}
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

// resolve interprets ref relative to the document at base.
func resolve(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || base == "" || hasScheme(ref) {
		return ref
	}

	if isRemote(base) {
		b, err := url.Parse(base)
		if err != nil {
			return ref
		}
		r, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return b.ResolveReference(r).String()
	}

	if filepath.IsAbs(ref) || strings.HasPrefix(ref, "/") {
		return ref
	}
	return filepath.Join(filepath.Dir(base), filepath.FromSlash(ref))
}

func hasScheme(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && len(u.Scheme) > 1
}

func isRemote(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func titleFromSource(src string) string {
	name := src
	if u, err := url.Parse(src); err == nil && len(u.Scheme) > 1 {
		name = u.Path
	}
	name = filepath.Base(filepath.FromSlash(name))
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Fallback returns the built-in library used when no document can be read.
func Fallback() []playlist.Track {
	return []playlist.Track{{
		ID:       "default_001",
		Title:    "Our Song",
		Artist:   "Unknown Artist",
		Album:    "Love Collection",
		Genre:    "Love",
		Year:     2024,
		Artwork:  "assets/images/music-placeholder.jpg",
		Source:   "assets/audio/our-song.mp3",
		Duration: 3*time.Minute + 45*time.Second,
	}}
}

// ApplyDurations fills in remembered lengths for tracks whose document entry
// has none. It returns how many tracks were updated.
func ApplyDurations(tracks []playlist.Track, durations map[string]time.Duration) int {
	n := 0
	for i := range tracks {
		if tracks[i].Duration > 0 {
			continue
		}
		if d, ok := durations[tracks[i].ID]; ok && d > 0 {
			tracks[i].Duration = d
			n++
		}
	}
	return n
}
