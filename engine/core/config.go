package core

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hubastard/grove-webview/engine/colors"
)

// Config for the host window and the embedded view.
type Config struct {
	Title      string       `toml:"title"`
	Width      int          `toml:"width"`
	Height     int          `toml:"height"`
	VSync      bool         `toml:"vsync"`
	ClearColor colors.Color `toml:"clear_color"`

	// URL is the target locator of the single view.
	URL string `toml:"url"`

	// GLES requests a GLES context instead of desktop GL.
	GLES    bool `toml:"gles"`
	GLMajor int  `toml:"gl_major"`
	GLMinor int  `toml:"gl_minor"`

	// PumpIntervalMS paces the repeating engine pump while the host is idle.
	PumpIntervalMS int    `toml:"pump_interval_ms"`
	LogLevel       string `toml:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		Title:          "Grove",
		Width:          800,
		Height:         600,
		VSync:          true,
		ClearColor:     colors.DarkGray,
		URL:            "https://servo.org",
		GLMajor:        3,
		GLMinor:        2,
		PumpIntervalMS: 16,
		LogLevel:       "info",
	}
}

// LoadConfig reads a TOML file over the defaults. A missing file yields the
// defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("No config file, using defaults", slog.String("path", path))
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("load config %q: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		slog.Warn("Unknown config key", slog.String("key", key.String()))
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the host cannot honour.
func (c Config) Validate() error {
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("config: negative window size %dx%d", c.Width, c.Height)
	}
	if c.GLMajor < 2 {
		return fmt.Errorf("config: unsupported GL version %d.%d", c.GLMajor, c.GLMinor)
	}
	if c.PumpIntervalMS < 0 {
		return fmt.Errorf("config: negative pump interval %d", c.PumpIntervalMS)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c Config) PumpInterval() time.Duration {
	return time.Duration(c.PumpIntervalMS) * time.Millisecond
}

// ParseLevel maps a config log level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var lvl slog.Level
	if name == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
	return lvl, nil
}
