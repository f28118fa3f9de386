// Package cli defines the serenade command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/llehouerou/serenade/internal/config"
	"github.com/llehouerou/serenade/internal/library"
	"github.com/llehouerou/serenade/internal/playlist"
	"github.com/llehouerou/serenade/internal/ready"
)

// libraryTimeout bounds the wait for the library document at startup.
const libraryTimeout = 10 * time.Second

func paramEnricher() boa.ParamEnricher {
	return boa.ParamEnricherCombine(
		boa.ParamEnricherBool,
		boa.ParamEnricherName,
		boa.ParamEnricherShort,
	)
}

// exitOnError prints err and exits with status 1.
func exitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// loadConfig reads the default config locations, or only path when set.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// openLog opens the log file. The TUI owns the terminal, so the player
// never logs to stderr.
func openLog(cfg *config.Config) (zerolog.Logger, func(), error) {
	path := cfg.Log.File
	if path == "" {
		p, err := xdg.StateFile(filepath.Join("serenade", "serenade.log"))
		if err != nil {
			return zerolog.Nop(), func() {}, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), func() {}, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return zerolog.Nop(), func() {}, err
	}
	logger := zerolog.New(f).Level(cfg.LogLevel()).With().Timestamp().Logger()
	return logger, func() { _ = f.Close() }, nil
}

// consoleLogger is used by the non-interactive commands.
func consoleLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()
}

// resolveLibrary picks the library location: the flag, the config, then
// music-library.json in the working directory.
func resolveLibrary(flag string, cfg *config.Config) string {
	if flag != "" {
		return flag
	}
	if cfg.Library != "" {
		return cfg.Library
	}
	if _, err := os.Stat(library.DefaultFile); err == nil {
		return library.DefaultFile
	}
	return ""
}

type loadResult struct {
	tracks []playlist.Track
	err    error
}

// loadLibrary reads the library document. When it cannot be read in time
// the built-in list is returned along with the error.
func loadLibrary(ctx context.Context, location string, logger zerolog.Logger) ([]playlist.Track, error) {
	loader := library.NewLoader(library.WithLogger(logger))
	ch := ready.Go(func() loadResult {
		tracks, err := loader.LoadOrFallback(ctx, location)
		return loadResult{tracks: tracks, err: err}
	})
	res, err := ready.Await(ctx, libraryTimeout, ch)
	if err != nil {
		return library.Fallback(), err
	}
	return res.tracks, res.err
}

func terminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 120
}
