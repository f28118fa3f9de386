package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// Environment variables that override secrets from the config files.
// A .env file in the working directory is loaded first.
const (
	EnvRedisPassword = "SERENADE_REDIS_PASSWORD"
	EnvGateHash      = "SERENADE_GATE_HASH"
	EnvLibrary       = "SERENADE_LIBRARY"
)

type Config struct {
	// Library is the path or URL of music-library.json. Empty uses the
	// built-in fallback list.
	Library string `koanf:"library"`

	Playback      PlaybackConfig      `koanf:"playback"`
	Recovery      RecoveryConfig      `koanf:"recovery"`
	Notifications NotificationsConfig `koanf:"notifications"`
	Mpris         MprisConfig         `koanf:"mpris"`
	NowPlaying    NowPlayingConfig    `koanf:"nowplaying"`
	Gate          GateConfig          `koanf:"gate"`
	Log           LogConfig           `koanf:"log"`
	UI            UIConfig            `koanf:"ui"`
}

// PlaybackConfig holds the initial engine settings. Values persisted in the
// state database win over these once the user changes them.
type PlaybackConfig struct {
	Volume    *float64 `koanf:"volume"`      // 0.0-1.0 (default: 0.7)
	FadeInOut bool     `koanf:"fade_in_out"` // ramp volume on play/pause (default: false)
	FadeMS    int      `koanf:"fade_ms"`     // fade length (default: 1000)
	FadeSteps int      `koanf:"fade_steps"`  // volume steps per fade (default: 20)
	AutoPlay  *bool    `koanf:"auto_play"`   // advance at track end (default: true)
	SeekStepS int      `koanf:"seek_step_s"` // seconds per seek key press (default: 10)
	Announce  bool     `koanf:"announce"`    // notify on every track change (default: false)
	// LowerOnNotification drops the volume by 30% for 3s whenever a notice
	// is shown (default: false).
	LowerOnNotification bool `koanf:"lower_on_notification"`
}

// RecoveryConfig bounds automatic retries of failing sources.
type RecoveryConfig struct {
	MaxRetries   *int `koanf:"max_retries"`    // per source (default: 3)
	RetryDelayMS int  `koanf:"retry_delay_ms"` // wait before retry or skip (default: 2000)
}

// NotificationsConfig controls desktop notifications.
type NotificationsConfig struct {
	Enabled    *bool `koanf:"enabled"`     // default: true
	DurationMS int   `koanf:"duration_ms"` // default: 4000
}

// MprisConfig controls the desktop media-session integration.
type MprisConfig struct {
	Enabled *bool `koanf:"enabled"` // default: true
}

// NowPlayingConfig configures the Redis now-playing publisher. It is
// disabled unless RedisAddr is set.
type NowPlayingConfig struct {
	RedisAddr     string `koanf:"redis_addr"` // e.g. "localhost:6379"
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	Key           string `koanf:"key"`     // default: "serenade:nowplaying"
	Channel       string `koanf:"channel"` // default: "serenade:nowplaying"
}

// GateConfig configures the convenience passphrase prompt. It is not a
// security boundary.
type GateConfig struct {
	PassphraseHash string `koanf:"passphrase_hash"` // bcrypt hash; empty disables the gate
	SessionMinutes int    `koanf:"session_minutes"` // default: 720
}

// LogConfig configures the log file.
type LogConfig struct {
	Level string `koanf:"level"` // zerolog level name (default: "info")
	File  string `koanf:"file"`  // default: xdg state dir
}

// UIConfig configures the terminal interface.
type UIConfig struct {
	Icons string `koanf:"icons"` // "nerd", "unicode" or "none" (default: "unicode")
}

// Load reads the layered config files and applies environment overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given config files in order (last wins). Missing files
// are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()

	// Expand ~ in paths, leave URLs alone
	if !isURL(cfg.Library) {
		cfg.Library = expandPath(cfg.Library)
	}
	cfg.Log.File = expandPath(cfg.Log.File)

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvRedisPassword); ok {
		c.NowPlaying.RedisPassword = v
	}
	if v, ok := os.LookupEnv(EnvGateHash); ok {
		c.Gate.PassphraseHash = v
	}
	if v, ok := os.LookupEnv(EnvLibrary); ok && v != "" {
		c.Library = v
	}
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/serenade/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "serenade", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Playback settings with defaults applied.

// PlaybackVolume returns the initial volume clamped to [0,1].
func (c *Config) PlaybackVolume() float64 {
	if c.Playback.Volume == nil {
		return 0.7
	}
	return min(max(*c.Playback.Volume, 0), 1)
}

// FadeDuration returns the length of one fade.
func (c *Config) FadeDuration() time.Duration {
	if c.Playback.FadeMS <= 0 {
		return time.Second
	}
	return time.Duration(c.Playback.FadeMS) * time.Millisecond
}

// FadeSteps returns the number of volume steps per fade.
func (c *Config) FadeSteps() int {
	if c.Playback.FadeSteps <= 0 {
		return 20
	}
	return c.Playback.FadeSteps
}

// AutoPlay reports whether playback advances at track end.
func (c *Config) AutoPlay() bool {
	return c.Playback.AutoPlay == nil || *c.Playback.AutoPlay
}

// SeekStep returns the relative seek used by the seek keys.
func (c *Config) SeekStep() time.Duration {
	if c.Playback.SeekStepS <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Playback.SeekStepS) * time.Second
}

// MaxRetries returns the retry budget per failing source.
func (c *Config) MaxRetries() int {
	if c.Recovery.MaxRetries == nil || *c.Recovery.MaxRetries < 0 {
		return 3
	}
	return *c.Recovery.MaxRetries
}

// RetryDelay returns the wait before a retry or skip.
func (c *Config) RetryDelay() time.Duration {
	if c.Recovery.RetryDelayMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.Recovery.RetryDelayMS) * time.Millisecond
}

// NotificationsEnabled reports whether desktop notifications are shown.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications.Enabled == nil || *c.Notifications.Enabled
}

// NoticeDuration returns how long notifications stay visible.
func (c *Config) NoticeDuration() time.Duration {
	if c.Notifications.DurationMS <= 0 {
		return 4 * time.Second
	}
	return time.Duration(c.Notifications.DurationMS) * time.Millisecond
}

// MprisEnabled reports whether the media-session integration runs.
func (c *Config) MprisEnabled() bool {
	return c.Mpris.Enabled == nil || *c.Mpris.Enabled
}

// HasNowPlayingConfig returns true if the Redis publisher is configured.
func (c *Config) HasNowPlayingConfig() bool {
	return c.NowPlaying.RedisAddr != ""
}

// GetNowPlayingConfig returns the publisher configuration with defaults applied.
func (c *Config) GetNowPlayingConfig() NowPlayingConfig {
	cfg := c.NowPlaying
	if cfg.Key == "" {
		cfg.Key = "serenade:nowplaying"
	}
	if cfg.Channel == "" {
		cfg.Channel = "serenade:nowplaying"
	}
	return cfg
}

// HasGate returns true if a passphrase hash is configured.
func (c *Config) HasGate() bool {
	return c.Gate.PassphraseHash != ""
}

// GateSession returns how long an unlocked session lasts.
func (c *Config) GateSession() time.Duration {
	if c.Gate.SessionMinutes <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(c.Gate.SessionMinutes) * time.Minute
}

// LogLevel returns the configured zerolog level, info when unset or unknown.
func (c *Config) LogLevel() zerolog.Level {
	if c.Log.Level == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// formatPercent renders a volume for display, e.g. "70%".
func formatPercent(v float64) string {
	return strconv.Itoa(int(v*100+0.5)) + "%"
}

// Summary returns key/value pairs describing the effective settings.
func (c *Config) Summary() [][2]string {
	library := c.Library
	if library == "" {
		library = "(built-in)"
	}
	return [][2]string{
		{"library", library},
		{"volume", formatPercent(c.PlaybackVolume())},
		{"fade", strconv.FormatBool(c.Playback.FadeInOut) + " (" + c.FadeDuration().String() + ")"},
		{"auto play", strconv.FormatBool(c.AutoPlay())},
		{"lower on notification", strconv.FormatBool(c.Playback.LowerOnNotification)},
		{"retries", strconv.Itoa(c.MaxRetries()) + " x " + c.RetryDelay().String()},
		{"notifications", strconv.FormatBool(c.NotificationsEnabled())},
		{"mpris", strconv.FormatBool(c.MprisEnabled())},
		{"now playing", strconv.FormatBool(c.HasNowPlayingConfig())},
		{"gate", strconv.FormatBool(c.HasGate())},
	}
}
