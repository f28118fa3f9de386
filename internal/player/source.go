package player

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Supported audio extensions.
const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extOGG  = ".ogg"
)

// maxRemoteSize bounds how much of a remote source is buffered in memory.
const maxRemoteSize = 256 << 20

// source describes where a URI points to.
type source struct {
	uri    string
	remote bool
	path   string // local path or remote URL
	ext    string
}

// parseSource validates uri without touching the file system or network.
func parseSource(uri string) (source, error) {
	if uri == "" {
		return source{}, mediaError(CodeSrcNotSupported, uri, errors.New("empty source"))
	}

	src := source{uri: uri, path: uri}
	u, err := url.Parse(uri)
	switch {
	case err != nil || len(u.Scheme) <= 1:
		// Plain path, including Windows drive letters like C:\music.
		src.ext = strings.ToLower(filepath.Ext(uri))
	case u.Scheme == "file":
		src.path = u.Path
		src.ext = strings.ToLower(path.Ext(u.Path))
	case u.Scheme == "http" || u.Scheme == "https":
		src.remote = true
		src.ext = strings.ToLower(path.Ext(u.Path))
	default:
		return source{}, mediaError(CodeSrcNotSupported, uri, fmt.Errorf("unsupported scheme %q", u.Scheme))
	}

	switch src.ext {
	case extMP3, extFLAC, extWAV, extOGG:
		return src, nil
	default:
		return source{}, mediaError(CodeSrcNotSupported, uri, fmt.Errorf("%w: %q", ErrUnsupportedFormat, src.ext))
	}
}

// memSource is an in-memory io.ReadSeekCloser.
type memSource struct {
	*bytes.Reader
}

func (memSource) Close() error { return nil }

// open returns a seekable reader over the source's bytes.
func (s source) open(ctx context.Context, client *http.Client) (io.ReadSeekCloser, error) {
	if s.remote {
		return openRemote(ctx, client, s.uri)
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, mediaError(CodeSrcNotSupported, s.uri, err)
	}
	return f, nil
}

func openRemote(ctx context.Context, client *http.Client, uri string) (io.ReadSeekCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, mediaError(CodeSrcNotSupported, uri, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, mediaError(CodeAborted, uri, ctx.Err())
		}
		return nil, mediaError(CodeNetwork, uri, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 500:
		return nil, mediaError(CodeNetwork, uri, fmt.Errorf("http status %d", resp.StatusCode))
	default:
		return nil, mediaError(CodeSrcNotSupported, uri, fmt.Errorf("http status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteSize))
	if err != nil {
		if ctx.Err() != nil {
			return nil, mediaError(CodeAborted, uri, ctx.Err())
		}
		return nil, mediaError(CodeNetwork, uri, err)
	}
	return memSource{bytes.NewReader(data)}, nil
}
