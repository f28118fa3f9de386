package playback

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/serenade/internal/player"
)

// retryOnce retries the first transient failure of each source once.
type retryOnce struct {
	mu        sync.Mutex
	delay     time.Duration
	tried     map[string]bool
	failures  []Failure
	recovered []string
}

func newRetryOnce(delay time.Duration) *retryOnce {
	return &retryOnce{delay: delay, tried: make(map[string]bool)}
}

func (h *retryOnce) HandleFailure(f Failure) Decision {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures = append(h.failures, f)
	if f.Kind == TransientNetworkFailure && !h.tried[f.URI] {
		h.tried[f.URI] = true
		return Decision{Action: ActionRetry, Delay: h.delay, Attempt: 1}
	}
	return Decision{Action: ActionSkip, Delay: h.delay}
}

func (h *retryOnce) Recovered(uri string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.recovered = append(h.recovered, uri)
}

func (h *retryOnce) Failures() []Failure {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Failure(nil), h.failures...)
}

func (h *retryOnce) Recoveries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.recovered...)
}

func TestEngine_FailureChainTerminates(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e, m, rec := newTestEngine(t, testTracks("a", "b", "c"))
		m.SetLoadError(errors.New("boom"))

		require.NoError(t, e.Play())
		time.Sleep(time.Millisecond)
		synctest.Wait()

		assert.Equal(t, StateIdle, e.State())
		assert.Equal(t, []string{"/music/a.mp3", "/music/b.mp3", "/music/c.mp3"}, m.LoadCalls())

		// Nothing else is attempted later.
		time.Sleep(time.Minute)
		synctest.Wait()
		assert.Len(t, m.LoadCalls(), 3)

		notices := rec.Notices()
		require.Len(t, notices, 3, "one notice per failed track")
		terminal := 0
		for _, n := range notices {
			if strings.HasPrefix(n.Message, "No playable tracks") {
				terminal++
			}
		}
		assert.Equal(t, 1, terminal)
		assert.True(t, strings.HasPrefix(notices[2].Message, "No playable tracks"))
	})
}

func TestEngine_FailureChainResetsOnUserCommand(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e, m, _ := newTestEngine(t, testTracks("a", "b"))
		m.SetLoadError(errors.New("boom"))

		require.NoError(t, e.Play())
		time.Sleep(time.Millisecond)
		synctest.Wait()
		require.Equal(t, StateIdle, e.State())

		m.SetLoadError(nil)
		require.NoError(t, e.Play())
		synctest.Wait()
		assert.Equal(t, StatePlaying, e.State())
	})
}

func TestEngine_DecodeErrorSkips(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newRetryOnce(2 * time.Second)
		e, m, rec := newTestEngine(t, testTracks("a", "b", "c"), WithFailureHandler(h))
		sub := e.Subscribe()

		require.NoError(t, e.Play())
		synctest.Wait()

		m.EmitError(player.CodeDecode)
		synctest.Wait()
		assert.Equal(t, StateErrored, e.State())

		time.Sleep(2 * time.Second)
		synctest.Wait()

		assert.Equal(t, StatePlaying, e.State())
		assert.Equal(t, 1, e.Snapshot().Index)
		assert.Equal(t, []string{"/music/a.mp3", "/music/b.mp3"}, m.LoadCalls(), "decode errors are never retried")

		notices := rec.Notices()
		require.Len(t, notices, 1)
		assert.Equal(t, "Audio file is corrupted or unsupported, skipping", notices[0].Message)

		ev := <-sub.Error
		assert.Equal(t, DecodeFailure, ev.Failure.Kind)
		assert.Equal(t, "/music/a.mp3", ev.Failure.URI)
	})
}

func TestEngine_NetworkErrorRetriesThenSkips(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newRetryOnce(2 * time.Second)
		e, m, rec := newTestEngine(t, testTracks("a", "b"), WithFailureHandler(h))
		sub := e.Subscribe()

		require.NoError(t, e.Play())
		synctest.Wait()
		<-sub.TrackChanged

		m.EmitError(player.CodeNetwork)
		time.Sleep(2 * time.Second)
		synctest.Wait()

		assert.Equal(t, StatePlaying, e.State(), "retry resumes playback")
		assert.Equal(t, 0, e.Snapshot().Index)
		assert.Equal(t, []string{"/music/a.mp3", "/music/a.mp3"}, m.LoadCalls())
		select {
		case tc := <-sub.TrackChanged:
			t.Errorf("retry emitted TrackChange %+v", tc)
		default:
		}

		m.EmitError(player.CodeNetwork)
		time.Sleep(2 * time.Second)
		synctest.Wait()

		assert.Equal(t, 1, e.Snapshot().Index, "second failure skips")
		assert.Equal(t, StatePlaying, e.State())

		notices := rec.Notices()
		require.Len(t, notices, 2)
		assert.Equal(t, "Network error while loading audio, retrying (1)", notices[0].Message)
		assert.Equal(t, "Network error while loading audio, skipping", notices[1].Message)

		assert.Contains(t, h.Recoveries(), "/music/a.mp3")
		assert.Len(t, h.Failures(), 2)
	})
}

func TestEngine_RetryCancelledByUserCommand(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newRetryOnce(5 * time.Second)
		e, m, _ := newTestEngine(t, testTracks("a", "b", "c"), WithFailureHandler(h))

		require.NoError(t, e.Play())
		synctest.Wait()
		m.EmitError(player.CodeNetwork)
		synctest.Wait()

		require.NoError(t, e.PlayIndex(2))
		time.Sleep(10 * time.Second)
		synctest.Wait()

		assert.Equal(t, 2, e.Snapshot().Index)
		assert.Equal(t, []string{"/music/a.mp3", "/music/c.mp3"}, m.LoadCalls(), "stale retry ignored")
	})
}

func TestEngine_ErrorWhileIdleIgnored(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e, _, rec := newTestEngine(t, testTracks("a"))

		_ = e.exec(func() error {
			e.handleEventLocked(player.Event{Kind: player.EventError, Code: player.CodeDecode})
			return nil
		})
		synctest.Wait()

		assert.Equal(t, StateIdle, e.State())
		assert.Empty(t, rec.Notices())
	})
}

func TestEngine_PlayErrorFails(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newRetryOnce(time.Second)
		e, m, rec := newTestEngine(t, testTracks("a", "b"), WithFailureHandler(h))
		m.SetPlayError(&player.MediaError{Code: player.CodeSrcNotSupported, URI: "/music/a.mp3"})

		require.NoError(t, e.Play())
		synctest.Wait()
		assert.Equal(t, StateErrored, e.State())

		m.SetPlayError(nil)
		time.Sleep(time.Second)
		synctest.Wait()

		assert.Equal(t, 1, e.Snapshot().Index)
		assert.Equal(t, StatePlaying, e.State())
		notices := rec.Notices()
		require.NotEmpty(t, notices)
		assert.Equal(t, "Audio format not supported, skipping", notices[0].Message)
	})
}

func TestEngine_PauseDuringSkipWaitHoldsNextTrack(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newRetryOnce(2 * time.Second)
		e, m, _ := newTestEngine(t, testTracks("a", "b", "c"), WithFailureHandler(h))

		require.NoError(t, e.Play())
		synctest.Wait()

		m.EmitError(player.CodeDecode)
		synctest.Wait()
		require.Equal(t, StateErrored, e.State())

		require.NoError(t, e.Pause())
		time.Sleep(3 * time.Second)
		synctest.Wait()

		snap := e.Snapshot()
		assert.Equal(t, 1, snap.Index, "the skip still moves on")
		assert.Equal(t, StateReady, snap.State, "but does not start playback")
		assert.Equal(t, 1, m.PlayCalls())
	})
}

func TestEngine_PauseDuringRetryWaitHoldsPlayback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newRetryOnce(2 * time.Second)
		e, m, _ := newTestEngine(t, testTracks("a", "b"), WithFailureHandler(h))

		require.NoError(t, e.Play())
		synctest.Wait()

		m.EmitError(player.CodeNetwork)
		synctest.Wait()
		require.NoError(t, e.Pause())
		time.Sleep(3 * time.Second)
		synctest.Wait()

		assert.Equal(t, []string{"/music/a.mp3", "/music/a.mp3"}, m.LoadCalls())
		assert.Equal(t, StateReady, e.State())
		assert.Equal(t, 1, m.PlayCalls())
	})
}
