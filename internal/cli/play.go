package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/GiGurra/boa/pkg/boa"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/llehouerou/serenade/internal/app"
	"github.com/llehouerou/serenade/internal/config"
	"github.com/llehouerou/serenade/internal/errmsg"
	"github.com/llehouerou/serenade/internal/gate"
	"github.com/llehouerou/serenade/internal/icons"
	"github.com/llehouerou/serenade/internal/library"
	"github.com/llehouerou/serenade/internal/mpris"
	"github.com/llehouerou/serenade/internal/notify"
	"github.com/llehouerou/serenade/internal/nowplaying"
	"github.com/llehouerou/serenade/internal/playback"
	"github.com/llehouerou/serenade/internal/player"
	"github.com/llehouerou/serenade/internal/playlist"
	"github.com/llehouerou/serenade/internal/recovery"
	"github.com/llehouerou/serenade/internal/state"
	"github.com/llehouerou/serenade/internal/stderr"
)

type PlayParams struct {
	Library string `short:"l" optional:"true" help:"Path or URL of music-library.json."`
	Config  string `optional:"true" help:"Read this config file instead of the default locations."`
	Shuffle bool   `short:"s" optional:"true" help:"Start with shuffle on."`
	Start   bool   `optional:"true" help:"Start playing right away."`
}

func PlayCmd() *cobra.Command {
	return boa.CmdT[PlayParams]{
		Use:         "play",
		Short:       "Open the player",
		ParamEnrich: paramEnricher(),
		RunFunc: func(params *PlayParams, cmd *cobra.Command, args []string) {
			exitOnError(RunPlay(params))
		},
	}.ToCobra()
}

// RunPlay wires the engine to its collaborators and runs the TUI until the
// user quits.
func RunPlay(params *PlayParams) error {
	cfg, err := loadConfig(params.Config)
	if err != nil {
		return errmsg.Wrap(errmsg.OpConfigLoad, err)
	}
	logger, closeLog, err := openLog(cfg)
	if err != nil {
		return errmsg.Wrap(errmsg.OpInitialize, err)
	}
	defer closeLog()
	icons.Init(cfg.UI.Icons)

	st, err := state.Open(logger)
	if err != nil {
		return errmsg.Wrap(errmsg.OpInitialize, err)
	}
	defer st.Close()

	if err := unlockGate(cfg, st, logger); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var startup []playback.Notice
	tracks, err := loadLibrary(ctx, resolveLibrary(params.Library, cfg), logger)
	if err != nil && !errors.Is(err, library.ErrNoLocation) {
		logger.Warn().Err(err).Msg("library unavailable, using built-in list")
		startup = append(startup, playback.Notice{
			Message:  errmsg.Format(errmsg.OpLibraryLoad, err),
			Severity: playback.SeverityWarning,
		})
	}
	if durations, err := st.Durations(); err != nil {
		logger.Warn().Err(err).Msg("loading stored durations failed")
	} else {
		library.ApplyDurations(tracks, durations)
	}

	saved, err := st.GetSettings()
	if err != nil {
		logger.Warn().Err(err).Msg("loading settings failed")
		saved = nil
	}

	pl := playlist.NewState()
	pl.SetTracks(tracks)

	sink := app.NewNoticeSink(desktopNotifier(cfg, logger))
	if capture, err := stderr.Start(); err != nil {
		logger.Debug().Err(err).Msg("stderr capture unavailable")
	} else {
		defer capture.Stop()
		go forwardStderr(capture.Lines(), sink, logger)
	}
	session := mpris.New(logger)
	opts := []playback.Option{
		playback.WithConfig(engineConfig(cfg, saved)),
		playback.WithNotifier(sink),
		playback.WithMediaSession(session),
		playback.WithFailureHandler(recovery.New(
			recovery.WithMaxRetries(cfg.MaxRetries()),
			recovery.WithDelay(cfg.RetryDelay()),
			recovery.WithLogger(logger),
		)),
		playback.WithLogger(logger.With().Str("component", "playback").Logger()),
	}
	if cfg.HasNowPlayingConfig() {
		pub, err := nowplaying.Connect(ctx, nowPlayingConfig(cfg), logger)
		if err != nil {
			logger.Warn().Err(err).Msg("now-playing publisher disabled")
			startup = append(startup, playback.Notice{
				Message:  errmsg.Format(errmsg.OpNowPlayingPublish, err),
				Severity: playback.SeverityWarning,
			})
		} else {
			defer pub.Close()
			opts = append(opts, playback.WithNowPlaying(pub))
		}
	}

	engine := playback.New(player.New(player.WithLogger(logger)), pl, opts...)
	defer engine.Close()

	if saved != nil {
		engine.SetShuffle(saved.Shuffle)
		engine.SetRepeat(saved.Repeat)
	}
	if params.Shuffle {
		engine.SetShuffle(true)
	}

	if cfg.MprisEnabled() {
		if err := session.Start(engine); err != nil {
			logger.Warn().Err(err).Msg("media controls unavailable")
			startup = append(startup, playback.Notice{
				Message:  errmsg.Format(errmsg.OpMprisStart, err),
				Severity: playback.SeverityWarning,
			})
		}
		defer session.Close()
	}

	persister := app.NewPersister(engine, st, logger)
	if err := persister.Restore(tracks); err != nil {
		logger.Warn().Err(err).Msg("restoring history failed")
	}
	persistCtx, stopPersist := context.WithCancel(ctx)
	persistDone := make(chan struct{})
	go func() {
		persister.Run(persistCtx)
		close(persistDone)
	}()

	startTrack := ""
	if saved != nil {
		startTrack = saved.CurrentTrackID
	}
	model := app.New(app.Options{
		Service:      engine,
		State:        st,
		Notices:      sink,
		History:      persister,
		Logger:       logger.With().Str("component", "ui").Logger(),
		SeekStep:     cfg.SeekStep(),
		StartTrackID: startTrack,
	})
	for _, n := range startup {
		sink.Notify(n)
	}
	if params.Start {
		if err := engine.Play(); err != nil {
			logger.Warn().Err(err).Msg("autostart failed")
		}
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err = p.Run()

	stopPersist()
	<-persistDone
	return err
}

// engineConfig merges the config file with the settings saved by the last
// session. Saved values win.
func engineConfig(cfg *config.Config, saved *state.Settings) playback.Config {
	c := playback.DefaultConfig()
	c.Volume = cfg.PlaybackVolume()
	c.FadeInOut = cfg.Playback.FadeInOut
	c.FadeDuration = cfg.FadeDuration()
	c.FadeSteps = cfg.FadeSteps()
	c.AutoPlay = cfg.AutoPlay()
	c.NoticeDuration = cfg.NoticeDuration()
	c.AnnounceTracks = cfg.Playback.Announce
	c.DuckOnNotice = cfg.Playback.LowerOnNotification
	if saved != nil {
		c.Volume = saved.Volume
		c.Muted = saved.Muted
		c.FadeInOut = saved.FadeInOut
		c.AutoPlay = saved.AutoPlay
	}
	return c
}

func nowPlayingConfig(cfg *config.Config) nowplaying.Config {
	np := cfg.GetNowPlayingConfig()
	return nowplaying.Config{
		Addr:     np.RedisAddr,
		Password: np.RedisPassword,
		DB:       np.RedisDB,
		Key:      np.Key,
		Channel:  np.Channel,
	}
}

// desktopNotifier returns nil when notifications are off or unavailable.
func desktopNotifier(cfg *config.Config, logger zerolog.Logger) playback.Notifier {
	if !cfg.NotificationsEnabled() {
		return nil
	}
	n, err := notify.New()
	if err != nil {
		logger.Warn().Err(err).Msg("desktop notifications unavailable")
		return nil
	}
	return notify.ForPlayback(n, logger)
}

// forwardStderr logs lines written by the audio backend and shows them in
// the status line.
func forwardStderr(lines <-chan string, sink *app.NoticeSink, logger zerolog.Logger) {
	for line := range lines {
		logger.Warn().Str("source", "stderr").Msg(line)
		sink.Show(playback.Notice{Message: line, Severity: playback.SeverityWarning})
	}
}

// unlockGate asks for the passphrase when one is configured.
func unlockGate(cfg *config.Config, st *state.Manager, logger zerolog.Logger) error {
	if !cfg.HasGate() {
		return nil
	}
	g, err := gate.New(cfg.Gate.PassphraseHash, st,
		gate.WithSession(cfg.GateSession()),
		gate.WithLogger(logger),
	)
	if err != nil {
		return errmsg.Wrap(errmsg.OpGateUnlock, err)
	}
	if err := gate.NewPrompter(os.Stdin, os.Stderr).Unlock(g); err != nil {
		return errmsg.Wrap(errmsg.OpGateUnlock, err)
	}
	return nil
}
