//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/music",
			expected: filepath.Join(home, "music"),
		},
		{
			name:     "tilde with nested path",
			input:    "~/music/library.json",
			expected: filepath.Join(home, "music", "library.json"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/srv/music/music-library.json",
			expected: "/srv/music/music-library.json",
		},
		{
			name:     "relative path unchanged",
			input:    "music/library.json",
			expected: "music/library.json",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) == 0 {
		t.Error("getConfigPaths() returned empty slice")
	}

	// Last path should be local config.toml
	lastPath := paths[len(paths)-1]
	if lastPath != "config.toml" {
		t.Errorf("last config path = %q, want %q", lastPath, "config.toml")
	}

	if home, err := os.UserHomeDir(); err == nil {
		expectedFirst := filepath.Join(home, ".config", "serenade", "config.toml")
		if paths[0] != expectedFirst {
			t.Errorf("first config path = %q, want %q", paths[0], expectedFirst)
		}
	}
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFrom_LayersFiles(t *testing.T) {
	dir := t.TempDir()
	global := writeConfig(t, dir, "global.toml", `
library = "https://example.com/music-library.json"

[playback]
volume = 0.5
fade_in_out = true
fade_ms = 800

[recovery]
max_retries = 5
`)
	local := writeConfig(t, dir, "local.toml", `
[playback]
volume = 0.9

[nowplaying]
redis_addr = "localhost:6379"
`)

	cfg, err := LoadFrom(global, local, filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/music-library.json", cfg.Library)
	assert.InDelta(t, 0.9, cfg.PlaybackVolume(), 1e-9, "last file wins")
	assert.True(t, cfg.Playback.FadeInOut)
	assert.Equal(t, 800*time.Millisecond, cfg.FadeDuration())
	assert.Equal(t, 5, cfg.MaxRetries())
	assert.True(t, cfg.HasNowPlayingConfig())
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	bad := writeConfig(t, dir, "bad.toml", "[playback\nvolume = ")

	_, err := LoadFrom(bad)
	assert.Error(t, err)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.toml", `
[gate]
passphrase_hash = "from-file"

[nowplaying]
redis_password = "from-file"
`)
	t.Setenv(EnvGateHash, "from-env")
	t.Setenv(EnvRedisPassword, "secret")
	t.Setenv(EnvLibrary, "/srv/music/music-library.json")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Gate.PassphraseHash)
	assert.Equal(t, "secret", cfg.NowPlaying.RedisPassword)
	assert.Equal(t, "/srv/music/music-library.json", cfg.Library)
}

func TestDefaults(t *testing.T) {
	cfg := Config{}

	if got := cfg.PlaybackVolume(); got != 0.7 {
		t.Errorf("PlaybackVolume() = %v, want 0.7", got)
	}
	if got := cfg.FadeDuration(); got != time.Second {
		t.Errorf("FadeDuration() = %v, want 1s", got)
	}
	if got := cfg.FadeSteps(); got != 20 {
		t.Errorf("FadeSteps() = %d, want 20", got)
	}
	if !cfg.AutoPlay() {
		t.Error("AutoPlay() = false, want true")
	}
	if got := cfg.SeekStep(); got != 10*time.Second {
		t.Errorf("SeekStep() = %v, want 10s", got)
	}
	if got := cfg.MaxRetries(); got != 3 {
		t.Errorf("MaxRetries() = %d, want 3", got)
	}
	if got := cfg.RetryDelay(); got != 2*time.Second {
		t.Errorf("RetryDelay() = %v, want 2s", got)
	}
	if !cfg.NotificationsEnabled() {
		t.Error("NotificationsEnabled() = false, want true")
	}
	if got := cfg.NoticeDuration(); got != 4*time.Second {
		t.Errorf("NoticeDuration() = %v, want 4s", got)
	}
	if !cfg.MprisEnabled() {
		t.Error("MprisEnabled() = false, want true")
	}
	if cfg.HasNowPlayingConfig() {
		t.Error("HasNowPlayingConfig() = true, want false")
	}
	if cfg.HasGate() {
		t.Error("HasGate() = true, want false")
	}
	if got := cfg.GateSession(); got != 12*time.Hour {
		t.Errorf("GateSession() = %v, want 12h", got)
	}
	if got := cfg.LogLevel(); got != zerolog.InfoLevel {
		t.Errorf("LogLevel() = %v, want info", got)
	}
}

func TestPlaybackVolume_Clamped(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.3, 0.3},
		{1.4, 1},
		{-0.1, 0},
	}
	for _, tt := range tests {
		v := tt.in
		cfg := Config{Playback: PlaybackConfig{Volume: &v}}
		if got := cfg.PlaybackVolume(); got != tt.want {
			t.Errorf("PlaybackVolume(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExplicitFalseOverridesDefault(t *testing.T) {
	off := false
	zero := 0
	cfg := Config{
		Playback:      PlaybackConfig{AutoPlay: &off},
		Recovery:      RecoveryConfig{MaxRetries: &zero},
		Notifications: NotificationsConfig{Enabled: &off},
		Mpris:         MprisConfig{Enabled: &off},
	}

	assert.False(t, cfg.AutoPlay())
	assert.Equal(t, 0, cfg.MaxRetries())
	assert.False(t, cfg.NotificationsEnabled())
	assert.False(t, cfg.MprisEnabled())
}

func TestGetNowPlayingConfig_Defaults(t *testing.T) {
	cfg := Config{NowPlaying: NowPlayingConfig{RedisAddr: "localhost:6379"}}
	np := cfg.GetNowPlayingConfig()

	assert.Equal(t, "serenade:nowplaying", np.Key)
	assert.Equal(t, "serenade:nowplaying", np.Channel)

	cfg.NowPlaying.Key = "site:song"
	assert.Equal(t, "site:song", cfg.GetNowPlayingConfig().Key)
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		cfg := Config{Log: LogConfig{Level: tt.level}}
		if got := cfg.LogLevel(); got != tt.want {
			t.Errorf("LogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestSummary(t *testing.T) {
	cfg := Config{}
	summary := cfg.Summary()

	require.NotEmpty(t, summary)
	assert.Equal(t, [2]string{"library", "(built-in)"}, summary[0])
	assert.Equal(t, [2]string{"volume", "70%"}, summary[1])
}
