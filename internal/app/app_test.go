package app

import (
	"testing"
	"testing/synctest"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/serenade/internal/playback"
	"github.com/llehouerou/serenade/internal/player"
	"github.com/llehouerou/serenade/internal/playlist"
	"github.com/llehouerou/serenade/internal/state"
	"github.com/llehouerou/serenade/internal/ui/testutil"
)

func testTracks() []playlist.Track {
	return []playlist.Track{
		{ID: "a", Title: "Moonlight", Artist: "Ana", Source: "/music/a.mp3"},
		{ID: "b", Title: "Sunrise", Artist: "Ben", Source: "/music/b.mp3"},
		{ID: "c", Title: "Rain", Artist: "Cy", Source: "/music/c.mp3"},
	}
}

// newTestEngine must be called inside a synctest bubble.
func newTestEngine(t *testing.T, tracks []playlist.Track) *playback.Engine {
	t.Helper()
	m := player.NewMock()
	for _, tr := range tracks {
		m.SetDurationFor(tr.Source, 3*time.Minute)
	}
	pl := playlist.NewState()
	pl.SetTracks(tracks)
	e := playback.New(m, pl)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func newTestModel(t *testing.T, tracks []playlist.Track) (Model, *playback.Engine, *state.Mock) {
	t.Helper()
	e := newTestEngine(t, tracks)
	st := state.NewMock()
	m := New(Options{Service: e, State: st, Logger: zerolog.Nop()})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	return m, e, st
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = update(t, m, keyMsg(k))
	}
	return m
}

func TestModel_PlayPause(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, e, _ := newTestModel(t, testTracks())

		m = press(t, m, " ")
		synctest.Wait()
		assert.Equal(t, playback.StatePlaying, e.State())

		m = press(t, m, " ")
		synctest.Wait()
		assert.Equal(t, playback.StatePaused, e.State())

		m = press(t, m, "s")
		synctest.Wait()
		assert.Equal(t, playback.StateIdle, m.Snapshot().State)
	})
}

func TestModel_NextAndPlaySelected(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, e, _ := newTestModel(t, testTracks())

		m = press(t, m, " ", "n")
		synctest.Wait()
		assert.Equal(t, 1, e.Snapshot().Index)

		m = press(t, m, "G", "enter")
		synctest.Wait()
		assert.Equal(t, 2, e.Snapshot().Index)
		assert.Equal(t, playback.StatePlaying, e.State())

		m = press(t, m, "g", ".")
		assert.Equal(t, 2, m.list.Cursor())
	})
}

func TestModel_Volume(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, e, _ := newTestModel(t, testTracks())
		start := e.Snapshot().Volume

		m = press(t, m, "+")
		assert.InDelta(t, start+defaultVolumeStep, e.Snapshot().Volume, 1e-9)

		m = press(t, m, "m")
		assert.True(t, e.Snapshot().Muted)

		// Raising the volume while muted unmutes first.
		press(t, m, "+")
		snap := e.Snapshot()
		assert.False(t, snap.Muted)
		assert.InDelta(t, start+2*defaultVolumeStep, snap.Volume, 1e-9)
	})
}

func TestModel_Modes(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, e, _ := newTestModel(t, testTracks())
		before := e.Snapshot()

		m = press(t, m, "S", "R", "F", "A")
		snap := e.Snapshot()
		assert.True(t, snap.Shuffle)
		assert.True(t, snap.Repeat)
		assert.Equal(t, !before.FadeInOut, snap.FadeInOut)
		assert.Equal(t, !before.AutoPlay, snap.AutoPlay)
		assert.Equal(t, snap.Shuffle, m.Snapshot().Shuffle)
	})
}

func TestModel_SeekWhileIdleIsIgnored(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, _, _ := newTestModel(t, testTracks())
		m = press(t, m, "l")
		assert.Nil(t, m.notice)
	})
}

func TestModel_EmptyPlaylist(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, _, _ := newTestModel(t, nil)
		m = press(t, m, " ")
		require.NotNil(t, m.notice)
		assert.Equal(t, playback.SeverityWarning, m.notice.severity)
		assert.Contains(t, testutil.StripANSI(m.View()), "The playlist is empty")
	})
}

func TestModel_FavoritesView(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, _, st := newTestModel(t, testTracks())

		m = press(t, m, "j", "f")
		fav, err := st.IsFavorite("b")
		require.NoError(t, err)
		assert.True(t, fav)

		m = press(t, m, "tab")
		assert.Equal(t, ViewFavorites, m.ViewMode())
		require.Len(t, m.list.Rows(), 1)
		assert.Equal(t, "b", m.list.Rows()[0].Track.ID)
		assert.Equal(t, 1, m.list.Rows()[0].Index)

		// Unfavoriting from the favorites view removes the row.
		m = press(t, m, "f")
		assert.Empty(t, m.list.Rows())

		m = press(t, m, "tab")
		assert.Equal(t, ViewRecent, m.ViewMode())
		m = press(t, m, "tab")
		assert.Equal(t, ViewAll, m.ViewMode())
		assert.Len(t, m.list.Rows(), 3)
	})
}

func TestModel_LoadsStoredFavorites(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e := newTestEngine(t, testTracks())
		st := state.NewMock()
		_, err := st.ToggleFavorite("c")
		require.NoError(t, err)

		m := New(Options{Service: e, State: st, StartTrackID: "c"})
		rows := m.list.Rows()
		require.Len(t, rows, 3)
		assert.True(t, rows[2].Favorite)
		assert.False(t, rows[0].Favorite)
		assert.Equal(t, 2, m.list.Cursor())
	})
}

func TestModel_RecentView(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e := newTestEngine(t, testTracks())
		h := &fakeHistory{tracks: []playlist.Track{{ID: "c"}, {ID: "gone"}, {ID: "a"}}}
		m := New(Options{Service: e, State: state.NewMock(), History: h})

		m = press(t, m, "tab", "tab")
		rows := m.list.Rows()
		require.Len(t, rows, 2)
		assert.Equal(t, "Rain", rows[0].Track.Title)
		assert.Equal(t, 0, rows[1].Index)
	})
}

type fakeHistory struct {
	tracks []playlist.Track
}

func (f *fakeHistory) Recent() []playlist.Track { return f.tracks }

func TestModel_Search(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, e, _ := newTestModel(t, testTracks())

		m = press(t, m, "/", "s", "u", "n")
		assert.True(t, m.searching)
		assert.Equal(t, ViewSearch, m.ViewMode())
		require.Len(t, m.list.Rows(), 1)
		assert.Equal(t, "Sunrise", m.list.Rows()[0].Track.Title)

		// Enter leaves the input; a second Enter plays the match.
		m = press(t, m, "enter")
		assert.False(t, m.searching)
		m = press(t, m, "enter")
		synctest.Wait()
		assert.Equal(t, 1, e.Snapshot().Index)

		m = press(t, m, "/", "esc")
		assert.Equal(t, ViewAll, m.ViewMode())
		assert.Len(t, m.list.Rows(), 3)
		assert.Empty(t, m.search.Value())
	})
}

func TestModel_SearchKeysDoNotTriggerActions(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, e, _ := newTestModel(t, testTracks())
		m = press(t, m, "/", "q", " ", "n")
		synctest.Wait()
		assert.False(t, m.quitting)
		assert.Equal(t, playback.StateIdle, e.State())
		assert.Equal(t, "q n", m.search.Value())
	})
}

func TestModel_Quit(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, _, _ := newTestModel(t, testTracks())
		next, cmd := m.Update(keyMsg("q"))
		require.NotNil(t, cmd)
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok)
		assert.Empty(t, next.View())
	})
}

func TestModel_Notices(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, _, _ := newTestModel(t, testTracks())

		m = update(t, m, NoticeMsg{Notice: playback.Notice{Message: "Could not play Rain", Severity: playback.SeverityError}})
		require.NotNil(t, m.notice)
		assert.Contains(t, testutil.StripANSI(m.View()), "Could not play Rain")

		seq := m.notice.seq
		m = update(t, m, NoticeExpiredMsg{Seq: seq - 1})
		assert.NotNil(t, m.notice, "stale expiry keeps the notice")
		m = update(t, m, NoticeExpiredMsg{Seq: seq})
		assert.Nil(t, m.notice)
	})
}

func TestModel_View(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, _, _ := newTestModel(t, testTracks())
		view := testutil.StripANSI(m.View())
		assert.Contains(t, view, "Serenade")
		assert.Contains(t, view, "Moonlight")
		assert.Contains(t, view, "Nothing playing")

		m = press(t, m, " ")
		synctest.Wait()
		m = update(t, m, TickMsg(time.Now()))
		assert.NotContains(t, testutil.StripANSI(m.View()), "Nothing playing")

		// The expanded player leaves fewer rows for the list.
		before := m.listHeight()
		m = press(t, m, "v")
		assert.Less(t, m.listHeight(), before)

		m = press(t, m, "?")
		assert.True(t, m.help.ShowAll)
		assert.LessOrEqual(t, testutil.CountLines(m.View()), 30)
	})
}

func TestModel_WatchServiceEvents(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m, e, _ := newTestModel(t, testTracks())
		require.NoError(t, e.PlayIndex(1))
		synctest.Wait()

		var sawTrack bool
		for !sawTrack {
			msg := m.WatchServiceEvents()()
			if tc, ok := msg.(ServiceTrackChangedMsg); ok {
				sawTrack = true
				assert.Equal(t, 1, tc.CurrentIndex)
			}
			m = update(t, m, msg)
		}
		assert.True(t, sawTrack)
		assert.Equal(t, 1, m.Snapshot().Index)

		require.NoError(t, e.Close())
		for {
			if _, ok := m.WatchServiceEvents()().(ServiceClosedMsg); ok {
				break
			}
		}
	})
}
