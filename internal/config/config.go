package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/depeter/cuesync/internal/media"
)

type Config struct {
	Server    ServerConfig   `toml:"server"`
	Stream    StreamConfig   `toml:"stream"`
	Subtitles SubtitleConfig `toml:"subtitles"`
	Playback  PlaybackConfig `toml:"playback"`
	UI        UIConfig       `toml:"ui"`
	Keybinds  KeybindConfig  `toml:"keybinds"`
	Log       LogConfig      `toml:"log"`
	Metrics   MetricsConfig  `toml:"metrics"`
}

type ServerConfig struct {
	URL    string `toml:"url"`
	Token  string `toml:"token"`
	UserID string `toml:"user_id"`
}

// StreamConfig points at the websocket endpoint that pushes playback and
// subtitle events.
type StreamConfig struct {
	URL      string `toml:"url"`
	ClientID string `toml:"client_id"`
}

type SubtitleConfig struct {
	Font          string  `toml:"font"`
	FontSize      int     `toml:"font_size"`
	Color         string  `toml:"color"`
	BorderColor   string  `toml:"border_color"`
	BackColor     string  `toml:"back_color"`
	BorderSize    float64 `toml:"border_size"`
	ShadowOffset  float64 `toml:"shadow_offset"`
	MarginV       int     `toml:"margin_v"`
	Delay         float64 `toml:"delay"`
	Customization bool    `toml:"customization"`
}

type PlaybackConfig struct {
	HWAccel           string `toml:"hwdec"`
	AudioLanguage     string `toml:"audio_language"`
	SubLanguage       string `toml:"sub_language"`
	SubtitleBlacklist string `toml:"subtitle_blacklist"`
	Volume            int    `toml:"volume"`
}

type UIConfig struct {
	Fullscreen bool `toml:"fullscreen"`
	Width      int  `toml:"width"`
	Height     int  `toml:"height"`
}

type KeybindConfig struct {
	SubCycle   string `toml:"sub_cycle"`
	SubOff     string `toml:"sub_off"`
	AudioCycle string `toml:"audio_cycle"`
	PlayPause  string `toml:"play_pause"`
	Fullscreen string `toml:"fullscreen"`
	Quit       string `toml:"quit"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// MetricsConfig enables the Prometheus endpoint when Listen is set.
type MetricsConfig struct {
	Listen string `toml:"listen"`
}

func DefaultConfig() *Config {
	return &Config{
		Subtitles: SubtitleConfig{
			Font:          "Roboto Medium",
			FontSize:      62,
			Color:         "#FFFFFF",
			BorderColor:   "#000000",
			BackColor:     "#000000",
			BorderSize:    3,
			ShadowOffset:  0,
			MarginV:       120,
			Customization: false,
		},
		Playback: PlaybackConfig{
			HWAccel:       "auto-safe",
			AudioLanguage: "eng",
			SubLanguage:   "eng",
			Volume:        100,
		},
		UI: UIConfig{
			Fullscreen: false,
			Width:      1920,
			Height:     1080,
		},
		Keybinds: KeybindConfig{
			SubCycle:   "S",
			SubOff:     "V",
			AudioCycle: "A",
			PlayPause:  "Space",
			Fullscreen: "F",
			Quit:       "Q",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
	}
}

// Settings returns the track preferences and subtitle customization.
func (c *Config) Settings() media.Settings {
	return media.Settings{
		PreferredSubtitleLanguage: c.Playback.SubLanguage,
		PreferredAudioLanguage:    c.Playback.AudioLanguage,
		SubtitleBlacklist:         c.Playback.SubtitleBlacklist,
		Customization: media.Customization{
			Enabled:      c.Subtitles.Customization,
			FontName:     c.Subtitles.Font,
			FontSize:     c.Subtitles.FontSize,
			PrimaryColor: c.Subtitles.Color,
			OutlineColor: c.Subtitles.BorderColor,
			BackColor:    c.Subtitles.BackColor,
			Outline:      c.Subtitles.BorderSize,
			Shadow:       c.Subtitles.ShadowOffset,
			MarginV:      c.Subtitles.MarginV,
		},
	}
}

func ConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "cuesync"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config from the default path.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path over the defaults. A missing file
// yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the config to path, creating its directory.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

// Save writes the config to the default path.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}
