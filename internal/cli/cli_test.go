package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/serenade/internal/config"
	"github.com/llehouerou/serenade/internal/library"
	"github.com/llehouerou/serenade/internal/playback"
	"github.com/llehouerou/serenade/internal/playlist"
	"github.com/llehouerou/serenade/internal/state"
)

func loadTestConfig(t *testing.T, content string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	return cfg
}

func TestEngineConfig(t *testing.T) {
	cfg := loadTestConfig(t, `
[playback]
volume = 0.5
fade_in_out = true
fade_ms = 500
auto_play = false
announce = true
lower_on_notification = true
`)

	c := engineConfig(cfg, nil)
	assert.InDelta(t, 0.5, c.Volume, 1e-9)
	assert.True(t, c.FadeInOut)
	assert.Equal(t, 500*time.Millisecond, c.FadeDuration)
	assert.False(t, c.AutoPlay)
	assert.True(t, c.AnnounceTracks)
	assert.True(t, c.DuckOnNotice)
	assert.Equal(t, playback.DefaultDuckDuration, c.DuckDuration)
	assert.Equal(t, playback.DefaultFadeSteps, c.FadeSteps)

	saved := &state.Settings{Volume: 0.2, Muted: true, FadeInOut: false, AutoPlay: true}
	c = engineConfig(cfg, saved)
	assert.InDelta(t, 0.2, c.Volume, 1e-9, "saved settings win")
	assert.True(t, c.Muted)
	assert.False(t, c.FadeInOut)
	assert.True(t, c.AutoPlay)
}

func TestNowPlayingConfig(t *testing.T) {
	cfg := loadTestConfig(t, `
[nowplaying]
redis_addr = "localhost:6379"
redis_db = 2
`)
	np := nowPlayingConfig(cfg)
	assert.Equal(t, "localhost:6379", np.Addr)
	assert.Equal(t, 2, np.DB)
	assert.Equal(t, "serenade:nowplaying", np.Key)
	assert.Equal(t, "serenade:nowplaying", np.Channel)
}

func TestResolveLibrary(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg := &config.Config{}

	assert.Empty(t, resolveLibrary("", cfg))
	assert.Equal(t, "flag.json", resolveLibrary("flag.json", cfg))

	cfg.Library = "/srv/music-library.json"
	assert.Equal(t, "/srv/music-library.json", resolveLibrary("", cfg))

	cfg.Library = ""
	require.NoError(t, os.WriteFile("music-library.json", []byte("{}"), 0o600))
	assert.Equal(t, "music-library.json", resolveLibrary("", cfg))
}

func TestLoadLibrary_FallsBack(t *testing.T) {
	tracks, err := loadLibrary(t.Context(), filepath.Join(t.TempDir(), "missing.json"), consoleLogger())
	require.Error(t, err)
	assert.NotEmpty(t, tracks)
}

func TestLibraryRows(t *testing.T) {
	st := state.NewMock()
	_, err := st.ToggleFavorite("b")
	require.NoError(t, err)
	require.NoError(t, st.RecordPlay("a", time.Now()))
	require.NoError(t, st.RecordPlay("a", time.Now()))
	require.NoError(t, st.SaveDuration("a", 2*time.Minute))

	tracks := []playlist.Track{
		{ID: "a", Title: "Moonlight", Artist: "Ana"},
		{ID: "b", Title: "Sunrise", Artist: "Ben", Duration: time.Minute},
	}

	rows, err := libraryRows(st, tracks, libraryFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Plays)
	assert.Equal(t, 2*time.Minute, rows[0].Track.Duration)
	assert.True(t, rows[1].Favorite)

	rows, err = libraryRows(st, tracks, libraryFilter{Favorites: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "b", rows[0].Track.ID)

	rows, err = libraryRows(st, tracks, libraryFilter{Query: "moon"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].Index)
}

func TestLibraryRows_Browse(t *testing.T) {
	st := state.NewMock()
	_, err := st.ToggleFavorite("c")
	require.NoError(t, err)

	tracks := []playlist.Track{
		{ID: "a", Title: "Moonlight", Artist: "Ana", Album: "Nights", Genre: "Love"},
		{ID: "b", Title: "Sunrise", Artist: "Ben", Album: "Days", Genre: "Pop"},
		{ID: "c", Title: "Starlight", Artist: "Ana", Album: "Nights", Genre: "Pop"},
	}

	tests := []struct {
		name   string
		filter libraryFilter
		want   []int
	}{
		{"artist", libraryFilter{Artist: "ana"}, []int{0, 2}},
		{"album", libraryFilter{Album: "Nights"}, []int{0, 2}},
		{"genre", libraryFilter{Genre: "pop"}, []int{1, 2}},
		{"artist and genre", libraryFilter{Artist: "Ana", Genre: "Pop"}, []int{2}},
		{"favorites of an artist", libraryFilter{Artist: "Ana", Favorites: true}, []int{2}},
		{"query and album", libraryFilter{Query: "light", Album: "Days"}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := libraryRows(st, tracks, tt.filter)
			require.NoError(t, err)
			got := make([]int, 0, len(rows))
			for _, r := range rows {
				got = append(got, r.Index)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLibraryStats(t *testing.T) {
	st := state.NewMock()
	_, err := st.ToggleFavorite("a")
	require.NoError(t, err)
	require.NoError(t, st.RecordPlay("a", time.Now()))
	require.NoError(t, st.RecordPlay("b", time.Now()))

	tracks := []playlist.Track{
		{ID: "a", Title: "Moonlight", Artist: "Ana", Album: "Nights", Genre: "Love", Duration: time.Minute},
		{ID: "b", Title: "Sunrise", Artist: "Ben", Album: "Days", Genre: "Pop", Duration: 2 * time.Minute},
	}
	stats, err := libraryStats(st, tracks)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Tracks)
	assert.Equal(t, 2, stats.Artists)
	assert.Equal(t, 1, stats.Favorites)
	assert.Equal(t, 2, stats.Played)

	var buf bytes.Buffer
	renderStats(&buf, stats)
	out := buf.String()
	assert.Contains(t, out, "Artists")
	assert.Contains(t, out, "3:00")
}

func TestRenderGroups(t *testing.T) {
	tracks := []playlist.Track{
		{ID: "a", Artist: "Ana", Duration: time.Minute},
		{ID: "b", Artist: "Ben", Duration: time.Minute},
		{ID: "c", Artist: "Ana", Duration: time.Minute},
	}

	var buf bytes.Buffer
	renderGroups(&buf, library.ByArtist, library.Browse(tracks, library.ByArtist))
	out := buf.String()
	assert.Contains(t, out, "Artist")
	assert.Contains(t, out, "2:00")
	assert.Contains(t, out, "2 artists")

	buf.Reset()
	renderGroups(&buf, library.ByGenre, nil)
	assert.Equal(t, "No genres found\n", buf.String())
}

func TestRenderLibrary(t *testing.T) {
	var buf bytes.Buffer
	renderLibrary(&buf, []libraryRow{
		{Index: 0, Track: playlist.Track{Title: "Moonlight", Artist: "Ana", Album: "Nights", Year: 2021, Duration: 3 * time.Minute}, Plays: 4},
		{Index: 1, Track: playlist.Track{Title: "Sunrise", Artist: "Ben", Duration: 90 * time.Second}, Favorite: true},
	}, 120)

	out := buf.String()
	assert.Contains(t, out, "Moonlight")
	assert.Contains(t, out, "Nights (2021)")
	assert.Contains(t, out, "2 tracks")
	assert.Contains(t, out, "4:30")
}

func TestRenderRecent(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	renderRecent(&buf, []state.RecentEntry{
		{TrackID: "a", Title: "Moonlight", Artist: "Ana", PlayedAt: now.Add(-3 * time.Minute)},
		{TrackID: "b", Title: "Sunrise", Artist: "Ben"},
	}, now)

	out := buf.String()
	assert.Contains(t, out, "3 minutes ago")
	assert.Contains(t, out, "Sunrise")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 6, "header, two rows and borders")
}

func TestRenderTop(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	renderTop(&buf, []state.PlayCount{
		{TrackID: "a", Count: 1200, LastPlayedAt: now.Add(-time.Hour)},
		{TrackID: "b", Count: 3},
		{TrackID: "c", Count: 1},
	}, map[string]string{"a": "Moonlight"}, 2, now)

	out := buf.String()
	assert.Contains(t, out, "Moonlight")
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "1 hour ago")
	assert.Contains(t, out, " b ")
	assert.NotContains(t, out, " c ")
}

func TestRenderConfig(t *testing.T) {
	var buf bytes.Buffer
	renderConfig(&buf, &config.Config{})
	out := buf.String()
	assert.Contains(t, out, "(built-in)")
	assert.Contains(t, out, "70%")
}
