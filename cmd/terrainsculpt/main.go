// Package main is the entry point for the terrain sculpt viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/terrain-sculpt/internal/config"
	"github.com/Faultbox/terrain-sculpt/internal/logger"
	"github.com/Faultbox/terrain-sculpt/internal/viewer"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Terrain Sculpt ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	var reloads <-chan *config.Config
	if path := config.ResolvePath(); path != "" {
		w, err := config.Watch(path, logger.Named("config"))
		if err != nil {
			logger.Warn("config hot reload disabled", zap.String("path", path), zap.Error(err))
		} else {
			defer w.Close()
			reloads = w.Updates()
		}
	}

	v, err := viewer.New(cfg, reloads)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}
