package notify

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/serenade/internal/playback"
)

// mockNotifier records notifications for testing.
type mockNotifier struct {
	notifications []Notification
	lastID        uint32
	err           error
}

func (m *mockNotifier) Notify(n Notification) (uint32, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.lastID++
	m.notifications = append(m.notifications, n)
	return m.lastID, nil
}

func (m *mockNotifier) Close(_ uint32) error {
	return nil
}

func TestForPlayback_Error(t *testing.T) {
	mock := &mockNotifier{}
	p := ForPlayback(mock, zerolog.Nop())

	p.Notify(playback.Notice{
		Message:  "Network error while loading audio, skipping",
		Severity: playback.SeverityError,
		Duration: 4 * time.Second,
	})

	if len(mock.notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(mock.notifications))
	}
	n := mock.notifications[0]
	if n.Title != AppName {
		t.Errorf("Title = %q, want %q", n.Title, AppName)
	}
	if n.Body != "Network error while loading audio, skipping" {
		t.Errorf("Body = %q", n.Body)
	}
	if n.Urgency != UrgencyCritical {
		t.Errorf("Urgency = %d, want UrgencyCritical", n.Urgency)
	}
	if n.Timeout != 4000 {
		t.Errorf("Timeout = %d, want 4000", n.Timeout)
	}
	if n.Icon != "dialog-error" {
		t.Errorf("Icon = %q, want dialog-error", n.Icon)
	}
	if n.ReplacesID != 0 {
		t.Errorf("ReplacesID = %d, want 0", n.ReplacesID)
	}
}

func TestForPlayback_ReplaceChainsIDs(t *testing.T) {
	art := filepath.Join(t.TempDir(), "art.jpg")
	if err := os.WriteFile(art, []byte{}, 0o600); err != nil {
		t.Fatal(err)
	}
	mock := &mockNotifier{}
	p := ForPlayback(mock, zerolog.Nop())

	announce := func(title string) {
		p.Notify(playback.Notice{
			Message:  "Artist",
			Severity: playback.SeverityInfo,
			Options:  playback.NoticeOptions{Title: title, Icon: art, Replace: true},
		})
	}
	announce("One")
	p.Notify(playback.Notice{Message: "oops", Severity: playback.SeverityWarning})
	announce("Two")

	if len(mock.notifications) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(mock.notifications))
	}
	if got := mock.notifications[0].ReplacesID; got != 0 {
		t.Errorf("first ReplacesID = %d, want 0", got)
	}
	if got := mock.notifications[1].ReplacesID; got != 0 {
		t.Errorf("warning ReplacesID = %d, want 0", got)
	}
	if got := mock.notifications[2].ReplacesID; got != 1 {
		t.Errorf("second announce ReplacesID = %d, want 1", got)
	}
	if mock.notifications[2].Title != "Two" || mock.notifications[2].Icon != art {
		t.Errorf("announce = %+v", mock.notifications[2])
	}
	if mock.notifications[2].Timeout != -1 {
		t.Errorf("Timeout = %d, want server default", mock.notifications[2].Timeout)
	}
	if !mock.notifications[2].Transient || mock.notifications[1].Transient {
		t.Errorf("only announcements are transient")
	}
	if mock.notifications[1].Urgency != UrgencyNormal {
		t.Errorf("warning Urgency = %d, want UrgencyNormal", mock.notifications[1].Urgency)
	}
}

func TestForPlayback_ErrorsAreSwallowed(t *testing.T) {
	mock := &mockNotifier{err: errors.New("bus gone")}
	p := ForPlayback(mock, zerolog.Nop())

	p.Notify(playback.Notice{Message: "x", Options: playback.NoticeOptions{Replace: true}})
	if p.lastID != 0 {
		t.Errorf("lastID = %d, want 0 after failure", p.lastID)
	}
}

func TestForPlayback_NilNotifier(t *testing.T) {
	p := ForPlayback(nil, zerolog.Nop())
	p.Notify(playback.Notice{Message: "x"})
}

func TestForPlayback_RemoteArtworkUsesGenericIcon(t *testing.T) {
	mock := &mockNotifier{}
	p := ForPlayback(mock, zerolog.Nop())

	p.Notify(playback.Notice{
		Message: "Artist",
		Options: playback.NoticeOptions{Title: "Song", Icon: "https://x.org/a.jpg"},
	})
	if got := mock.notifications[0].Icon; got != "audio-x-generic" {
		t.Errorf("Icon = %q, want audio-x-generic", got)
	}
}
