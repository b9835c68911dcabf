// Package main is the entry point for the wyrmrig viewer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/wyrmrig/internal/animation"
	"github.com/Faultbox/wyrmrig/internal/config"
	"github.com/Faultbox/wyrmrig/internal/logger"
	"github.com/Faultbox/wyrmrig/internal/viewer"
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

	logger.Info("=== wyrmrig ===")
	logger.Sugar.Debugf("config:\n%s", spew.Sdump(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	v, err := viewer.New(viewer.Config{
		Title:      animation.Title,
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
		Camera:     mgl32.Vec3(cfg.Viewer.Camera),
		Background: cfg.Viewer.Background,
	})
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	a, err := animation.New(cfg, v)
	if err != nil {
		logger.Error("failed to create animation", zap.Error(err))
		os.Exit(1)
	}

	if path := config.Path(); path != "" {
		go func() {
			err := config.Watch(ctx, path, func(c *config.Config) {
				if err := a.UpdateMotion(c.Motion); err != nil {
					logger.Warn("ignoring motion settings", zap.Error(err))
				}
			})
			if err != nil {
				logger.Warn("config watch stopped", zap.String("path", path), zap.Error(err))
			}
		}()
	}

	runErr := a.Run(ctx)
	if err := a.Close(); err != nil {
		logger.Error("closing animation", zap.Error(err))
	}
	if runErr != nil {
		logger.Error("animation error", zap.Error(runErr))
		os.Exit(1)
	}

	logger.Info("animation closed normally")
}
