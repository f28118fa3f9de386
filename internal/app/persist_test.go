package app

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/serenade/internal/state"
)

func TestPersister_RecordsPlayback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e := newTestEngine(t, testTracks())
		st := state.NewMock()
		p := NewPersister(e, st, zerolog.Nop())
		require.NoError(t, p.Restore(e.Tracks()))

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan struct{})
		go func() {
			p.Run(ctx)
			close(done)
		}()

		require.NoError(t, e.PlayIndex(1))
		synctest.Wait()
		require.NoError(t, e.Next())
		synctest.Wait()

		recent, err := st.GetRecent()
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, "c", recent[0].TrackID)
		assert.Equal(t, "Sunrise", recent[1].Title)
		assert.False(t, recent[1].PlayedAt.IsZero(), "earlier entries keep their time")

		counts, err := st.PlayCounts()
		require.NoError(t, err)
		assert.Len(t, counts, 2)

		durations, err := st.Durations()
		require.NoError(t, err)
		assert.Equal(t, 3*time.Minute, durations["b"])
		assert.Equal(t, 3*time.Minute, durations["c"])

		ids := make([]string, 0, 2)
		for _, tr := range p.Recent() {
			ids = append(ids, tr.ID)
		}
		assert.Equal(t, []string{"c", "b"}, ids)

		cancel()
		<-done
	})
}

func TestPersister_SavesSettings(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e := newTestEngine(t, testTracks())
		st := state.NewMock()
		p := NewPersister(e, st, zerolog.Nop())

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan struct{})
		go func() {
			p.Run(ctx)
			close(done)
		}()

		e.SetShuffle(true)
		e.SetVolume(0.4)
		e.ToggleMute()
		synctest.Wait()

		s, err := st.GetSettings()
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.True(t, s.Shuffle)
		assert.True(t, s.Muted)
		assert.InDelta(t, 0.4, s.Volume, 1e-9, "the pre-mute level is stored")

		// Stopping keeps the last played track.
		require.NoError(t, e.PlayIndex(2))
		synctest.Wait()
		require.NoError(t, e.Stop())
		e.SetRepeat(true)
		synctest.Wait()

		s, _ = st.GetSettings()
		assert.Equal(t, "c", s.CurrentTrackID)
		assert.True(t, s.Repeat)

		saves := st.SettingsSaves()
		cancel()
		<-done
		assert.Equal(t, saves, st.SettingsSaves(), "unchanged settings are not rewritten")
	})
}

func TestPersister_Restore(t *testing.T) {
	st := state.NewMock()
	at := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	require.NoError(t, st.SaveRecent([]state.RecentEntry{
		{TrackID: "c", PlayedAt: at},
		{TrackID: "removed", PlayedAt: at},
		{TrackID: "a", PlayedAt: at},
	}))

	synctest.Test(t, func(t *testing.T) {
		e := newTestEngine(t, testTracks())
		p := NewPersister(e, st, zerolog.Nop())
		require.NoError(t, p.Restore(e.Tracks()))

		got := p.Recent()
		require.Len(t, got, 2)
		assert.Equal(t, "c", got[0].ID)
		assert.Equal(t, "Moonlight", got[1].Title)
	})
}
