package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/gistarr/internal/api/handlers"
	"github.com/amaumene/gistarr/internal/api/middleware"
	"github.com/amaumene/gistarr/internal/config"
	"github.com/amaumene/gistarr/internal/controllers"
	"github.com/amaumene/gistarr/internal/models"
)

// Server represents the HTTP server
type Server struct {
	server   *http.Server
	db       *models.Database
	coll     *controllers.CollectionController
	syncCtrl *controllers.SyncController
	searcher handlers.Searcher
	logger   *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, db *models.Database, coll *controllers.CollectionController, syncCtrl *controllers.SyncController, searcher handlers.Searcher, logger *logrus.Logger) *Server {
	s := &Server{
		db:       db,
		coll:     coll,
		syncCtrl: syncCtrl,
		searcher: searcher,
		logger:   logger,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	healthHandler := handlers.NewHealthHandler(s.logger)
	mux.HandleFunc("/health", healthHandler.ServeHTTP)

	statusHandler := handlers.NewStatusHandler(s.db, s.syncCtrl, s.logger)
	mux.HandleFunc("/status", statusHandler.ServeHTTP)

	itemsHandler := handlers.NewItemsHandler(s.coll, s.syncCtrl, s.logger)
	itemsHandler.Register(mux)

	searchHandler := handlers.NewSearchHandler(s.searcher, s.logger)
	mux.HandleFunc("/api/search", searchHandler.ServeHTTP)

	syncHandler := handlers.NewSyncHandler(s.syncCtrl, s.logger)
	mux.HandleFunc("/api/sync", syncHandler.ServeHTTP)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
