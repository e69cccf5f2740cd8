// Package config loads and saves viewer and brush settings.
package config

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/terrain-sculpt/internal/history"
	"github.com/Faultbox/terrain-sculpt/internal/sculpt"
)

// Config holds all settings.
type Config struct {
	Viewer  ViewerConfig         `yaml:"viewer" toml:"viewer"`
	Brush   sculpt.BrushSettings `yaml:"brush" toml:"brush"`
	History HistoryConfig        `yaml:"history" toml:"history"`
	Logging LoggingConfig        `yaml:"logging" toml:"logging"`
}

// ViewerConfig holds window and demo scene settings.
type ViewerConfig struct {
	Width      int  `yaml:"width" toml:"width"`
	Height     int  `yaml:"height" toml:"height"`
	Fullscreen bool `yaml:"fullscreen" toml:"fullscreen"`
	VSync      bool `yaml:"vsync" toml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit" toml:"fps_limit"`

	// GridSize and GridSegments shape the terrain created at startup.
	GridSize     float32 `yaml:"grid_size" toml:"grid_size"`
	GridSegments int     `yaml:"grid_segments" toml:"grid_segments"`
	// Heightmap optionally seeds the grid from a grayscale image whose white
	// level is HeightScale.
	Heightmap   string  `yaml:"heightmap" toml:"heightmap"`
	HeightScale float32 `yaml:"height_scale" toml:"height_scale"`

	ScreenshotDir string `yaml:"screenshot_dir" toml:"screenshot_dir"`
}

// HistoryConfig holds undo settings.
type HistoryConfig struct {
	Capacity int `yaml:"capacity" toml:"capacity"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			Width:         1280,
			Height:        720,
			VSync:         true,
			GridSize:      64,
			GridSegments:  128,
			HeightScale:   16,
			ScreenshotDir: "screenshots",
		},
		Brush: sculpt.DefaultBrushSettings(),
		History: HistoryConfig{
			Capacity: history.DefaultCapacity,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("viewer size must be positive, got %dx%d", c.Viewer.Width, c.Viewer.Height))
	}
	if c.Viewer.FPSLimit < 0 {
		err = multierr.Append(err, fmt.Errorf("fps_limit must not be negative, got %d", c.Viewer.FPSLimit))
	}
	if c.Viewer.GridSize <= 0 || c.Viewer.GridSegments < 1 {
		err = multierr.Append(err, fmt.Errorf("grid needs a positive size and at least one segment, got %g/%d",
			c.Viewer.GridSize, c.Viewer.GridSegments))
	}
	if c.Viewer.HeightScale <= 0 {
		err = multierr.Append(err, fmt.Errorf("height_scale must be positive, got %g", c.Viewer.HeightScale))
	}
	if c.History.Capacity < 1 {
		err = multierr.Append(err, fmt.Errorf("history capacity must be at least 1, got %d", c.History.Capacity))
	}
	if _, lerr := zapcore.ParseLevel(c.Logging.Level); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("logging level: %w", lerr))
	}
	if berr := c.Brush.Validate(); berr != nil {
		err = multierr.Append(err, fmt.Errorf("brush: %w", berr))
	}
	return err
}
