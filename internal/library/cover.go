package library

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Cover image names, best first. Matching ignores case.
var (
	coverStems = []string{"cover", "folder", "album", "front"}
	coverExts  = []string{".jpg", ".jpeg", ".png"}
)

// FindCover returns an image next to a local audio file that looks like
// album art, or "".
func FindCover(audioPath string) string {
	if audioPath == "" || isRemote(audioPath) {
		return ""
	}
	dir := filepath.Dir(audioPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	names := make(map[string]string, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names[strings.ToLower(e.Name())] = e.Name()
		}
	}
	for _, stem := range coverStems {
		for _, ext := range coverExts {
			if name, ok := names[stem+ext]; ok {
				return filepath.Join(dir, name)
			}
		}
	}
	return ""
}

// ArtworkPath resolves a song's artwork to a local image file. A missing or
// remote artwork falls back to a cover next to the audio file.
func ArtworkPath(artwork, source string) string {
	if p := localPath(artwork); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return FindCover(localPath(source))
}

func localPath(ref string) string {
	switch {
	case ref == "", isRemote(ref):
		return ""
	case strings.HasPrefix(ref, "file://"):
		u, err := url.Parse(ref)
		if err != nil {
			return ""
		}
		return u.Path
	}
	return ref
}
