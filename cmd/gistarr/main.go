package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/amaumene/gistarr/internal/api"
	"github.com/amaumene/gistarr/internal/config"
	"github.com/amaumene/gistarr/internal/controllers"
	"github.com/amaumene/gistarr/internal/models"
	"github.com/amaumene/gistarr/internal/scheduler"
	"github.com/amaumene/gistarr/internal/services/gist"
	"github.com/amaumene/gistarr/internal/services/tmdb"
	"github.com/amaumene/gistarr/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting Gistarr")
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Info("Configuration loaded")

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// A gist id from the environment seeds the stored sync state, but a
	// previously discovered id is not overwritten.
	if cfg.GistID != "" {
		state, err := db.GetSyncState()
		if err != nil {
			return fmt.Errorf("failed to read sync state: %w", err)
		}
		if state.GistID == "" {
			state.GistID = cfg.GistID
			if err := db.SaveSyncState(state); err != nil {
				return fmt.Errorf("failed to save sync state: %w", err)
			}
			logger.WithField("gist_id", cfg.GistID).Info("Gist id adopted from configuration")
		}
	}

	// 4. Initialize services
	gistClient := gist.NewClient(cfg.GistToken, logger)
	logger.Info("Gist client initialized")

	tmdbClient, err := tmdb.NewClient(cfg.TMDBAPIKey, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize TMDB client: %w", err)
	}
	logger.Info("TMDB client initialized")

	// 5. Initialize controllers
	collectionCtrl := controllers.NewCollectionController(db, logger)
	syncCtrl := controllers.NewSyncController(db, gistClient, tmdbClient, logger)
	logger.Info("Controllers initialized")

	// 6. Initialize scheduler
	sched := scheduler.NewScheduler(syncCtrl, cfg.SyncIntervalMinutes, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 7. Initialize HTTP server
	server := api.NewServer(cfg, db, collectionCtrl, syncCtrl, tmdbClient, logger)

	// Start server in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 8. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Gistarr is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Gistarr stopped")
	return nil
}
