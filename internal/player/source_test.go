package player

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSource(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		wantRemote bool
		wantPath   string
		wantExt    string
		wantErr    bool
	}{
		{"local path", "/music/song.mp3", false, "/music/song.mp3", ".mp3", false},
		{"upper ext", "/music/SONG.FLAC", false, "/music/SONG.FLAC", ".flac", false},
		{"file uri", "file:///music/song.ogg", false, "/music/song.ogg", ".ogg", false},
		{"http", "http://example.com/a/song.wav", true, "http://example.com/a/song.wav", ".wav", false},
		{"https query", "https://example.com/song.mp3?x=1", true, "https://example.com/song.mp3?x=1", ".mp3", false},
		{"windows path", `C:\music\song.mp3`, false, `C:\music\song.mp3`, ".mp3", false},
		{"unsupported ext", "/music/song.aac", false, "", "", true},
		{"no ext", "/music/song", false, "", "", true},
		{"bad scheme", "ftp://example.com/song.mp3", false, "", "", true},
		{"empty", "", false, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := parseSource(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, CodeSrcNotSupported, CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRemote, src.remote)
			assert.Equal(t, tt.wantPath, src.path)
			assert.Equal(t, tt.wantExt, src.ext)
		})
	}
}

func TestParseSource_UnsupportedWrapsSentinel(t *testing.T) {
	_, err := parseSource("/music/song.aac")

	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestSourceOpen_Local(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.mp3")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o600))

	src, err := parseSource(path)
	require.NoError(t, err)

	rc, err := src.open(context.Background(), http.DefaultClient)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}

func TestSourceOpen_LocalMissing(t *testing.T) {
	src, err := parseSource(filepath.Join(t.TempDir(), "missing.mp3"))
	require.NoError(t, err)

	_, err = src.open(context.Background(), http.DefaultClient)

	assert.Equal(t, CodeSrcNotSupported, CodeOf(err))
}

func TestOpenRemote_StatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantCode ErrorCode
		wantErr  bool
	}{
		{"ok", http.StatusOK, CodeUnknown, false},
		{"not found", http.StatusNotFound, CodeSrcNotSupported, true},
		{"server error", http.StatusBadGateway, CodeNetwork, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("audio"))
			}))
			defer srv.Close()

			rc, err := openRemote(context.Background(), srv.Client(), srv.URL+"/song.mp3")
			if tt.wantErr {
				assert.Equal(t, tt.wantCode, CodeOf(err))
				return
			}
			require.NoError(t, err)
			data, _ := io.ReadAll(rc)
			assert.Equal(t, "audio", string(data))

			// In-memory sources must be seekable for the decoders.
			_, err = rc.Seek(0, io.SeekStart)
			assert.NoError(t, err)
		})
	}
}

func TestOpenRemote_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/song.mp3"
	srv.Close()

	_, err := openRemote(context.Background(), http.DefaultClient, url)

	assert.Equal(t, CodeNetwork, CodeOf(err))
}

func TestOpenRemote_Canceled(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := openRemote(ctx, srv.Client(), srv.URL+"/song.mp3")

	assert.Equal(t, CodeAborted, CodeOf(err))
}
