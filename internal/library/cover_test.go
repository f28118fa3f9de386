package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o600))
	}
}

func TestFindCover(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		dirs  []string
		want  string
	}{
		{"none", []string{"song.mp3"}, nil, ""},
		{"cover", []string{"song.mp3", "cover.jpg"}, nil, "cover.jpg"},
		{"cover beats folder", []string{"song.mp3", "folder.png", "cover.png"}, nil, "cover.png"},
		{"jpg beats png", []string{"song.mp3", "front.png", "front.jpg"}, nil, "front.jpg"},
		{"case insensitive", []string{"song.mp3", "Folder.JPG"}, nil, "Folder.JPG"},
		{"directories are skipped", []string{"song.mp3", "album.png"}, []string{"cover.jpg"}, "album.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			touch(t, dir, tt.files...)
			for _, d := range tt.dirs {
				require.NoError(t, os.Mkdir(filepath.Join(dir, d), 0o700))
			}
			want := ""
			if tt.want != "" {
				want = filepath.Join(dir, tt.want)
			}
			if got := FindCover(filepath.Join(dir, "song.mp3")); got != want {
				t.Errorf("FindCover() = %q, want %q", got, want)
			}
		})
	}

	assert.Empty(t, FindCover(""))
	assert.Empty(t, FindCover("https://x.org/a.mp3"))
	assert.Empty(t, FindCover(filepath.Join(t.TempDir(), "missing", "a.mp3")))
}

func TestArtworkPath(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "song.mp3", "art.png", "cover.jpg")
	track := filepath.Join(dir, "song.mp3")
	art := filepath.Join(dir, "art.png")
	cover := filepath.Join(dir, "cover.jpg")

	tests := []struct {
		name    string
		artwork string
		source  string
		want    string
	}{
		{"local artwork", art, track, art},
		{"file uri artwork", "file://" + art, track, art},
		{"missing artwork falls back to folder", filepath.Join(dir, "gone.png"), track, cover},
		{"remote artwork falls back to folder", "https://x.org/a.jpg", track, cover},
		{"file uri source", "", "file://" + track, cover},
		{"remote source", "", "https://x.org/a.mp3", ""},
		{"nothing", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ArtworkPath(tt.artwork, tt.source); got != tt.want {
				t.Errorf("ArtworkPath(%q, %q) = %q, want %q", tt.artwork, tt.source, got, tt.want)
			}
		})
	}
}
