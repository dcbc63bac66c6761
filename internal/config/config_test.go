package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[stream]
url = "ws://localhost:43211/events"

[playback]
sub_language = "jpn,eng"
subtitle_blacklist = "Signs"

[subtitles]
customization = true
font_size = 48
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:43211/events", cfg.Stream.URL)
	assert.Equal(t, "jpn,eng", cfg.Playback.SubLanguage)
	assert.Equal(t, "eng", cfg.Playback.AudioLanguage)
	assert.Equal(t, 48, cfg.Subtitles.FontSize)
	assert.Equal(t, "Roboto Medium", cfg.Subtitles.Font)
}

func TestLoadFromInvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[stream\nurl ="), 0o644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Server.URL = "http://jellyfin.local:8096"
	cfg.Keybinds.SubCycle = "C"
	cfg.Log.File = "/tmp/cuesync.log"

	require.NoError(t, cfg.SaveTo(path))
	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Playback.SubtitleBlacklist = "Signs"
	cfg.Subtitles.Customization = true

	s := cfg.Settings()
	assert.Equal(t, "eng", s.PreferredSubtitleLanguage)
	assert.Equal(t, "eng", s.PreferredAudioLanguage)
	assert.Equal(t, "Signs", s.SubtitleBlacklist)
	assert.True(t, s.Customization.Enabled)
	assert.Equal(t, "Roboto Medium", s.Customization.FontName)
	assert.Equal(t, 62, s.Customization.FontSize)
	assert.Equal(t, 120, s.Customization.MarginV)
}

func TestConfigPathHonoursXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cuesync", "config.toml"), path)
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, DefaultConfig().SaveTo(path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates, err := Watch(ctx, path)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Playback.SubLanguage = "jpn"
	require.NoError(t, cfg.SaveTo(path))

	var got *Config
	require.Eventually(t, func() bool {
		select {
		case got = <-updates:
		default:
		}
		return got != nil && got.Playback.SubLanguage == "jpn"
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool {
		for {
			select {
			case _, ok := <-updates:
				if !ok {
					return true
				}
			default:
				return false
			}
		}
	}, 5*time.Second, 20*time.Millisecond)
}
