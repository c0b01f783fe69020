package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/petems/snapcam/internal/app"
	"github.com/petems/snapcam/internal/config"
	"github.com/petems/snapcam/internal/export"
	"github.com/petems/snapcam/internal/logging"
	"github.com/petems/snapcam/internal/permissions"
	"github.com/petems/snapcam/internal/platform"
	"github.com/petems/snapcam/internal/preview"
	"github.com/petems/snapcam/internal/tray"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func main() {
	// Load config from XDG/Library/AppData
	cfg, err := config.Load()
	if err != nil {
		// Use default logger if config fails to load
		log := logging.New()
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Initialize logger with configured level
	log := logging.NewWithLevel(cfg.LogLevel)

	// macOS requires explicit camera approval before capture works
	if err := permissions.EnsurePermissions(); err != nil {
		log.Fatal().Err(err).Msg("Required permissions not granted")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create tray UI first (we'll pass it to app)
	trayUI := tray.New(nil, cfg, Version, Commit, log) // App reference set below

	// Create app with tray as status updater
	application := app.New(app.Config{
		Provider:      platform.New(),
		Surface:       preview.New(log),
		Exporter:      export.New(cfg.Output),
		Config:        cfg,
		Logger:        log,
		StatusUpdater: trayUI,
	})

	// Set app reference in tray
	trayUI.SetApp(application)

	log.Info().Str("version", Version).Msg("snapcam starting...")

	// Setup shutdown signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Shutting down...")
		if err := application.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Shutdown error")
		}
		os.Exit(0)
	}()

	// Start tray UI - MUST run on main thread
	if err := trayUI.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Tray error")
	}

	if err := application.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}
}
