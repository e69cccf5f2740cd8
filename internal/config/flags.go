package config

import (
	"flag"
	"fmt"

	"github.com/Faultbox/terrain-sculpt/internal/sculpt"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagMode       = flag.String("mode", "", "Initial brush mode (draw, level, add, subtract, slope, smooth, ramp)")
	flagRadius     = flag.Float64("radius", 0, "Initial brush radius")
	flagSphere     = flag.Bool("sphere", false, "Treat the terrain as a sphere around the origin")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Viewer.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Viewer.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Viewer.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Viewer.Height = *flagHeight
	}
	if *flagMode != "" {
		mode, err := sculpt.ParseMode(*flagMode)
		if err != nil {
			return fmt.Errorf("-mode: %w", err)
		}
		cfg.Brush.Mode = mode
	}
	if *flagRadius > 0 {
		cfg.Brush.Radius = float32(*flagRadius)
	}
	if *flagSphere {
		cfg.Brush.WorldShape = sculpt.ShapeSphere
	}
	return nil
}
