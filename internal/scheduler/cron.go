package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/gistarr/internal/controllers"
)

// Scheduler manages the periodic full reconciliation
type Scheduler struct {
	cron            *cron.Cron
	syncCtrl        *controllers.SyncController
	intervalMinutes int
	logger          *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(syncCtrl *controllers.SyncController, intervalMinutes int, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(),
		syncCtrl:        syncCtrl,
		intervalMinutes: intervalMinutes,
		logger:          logger,
	}
}

// Start starts the scheduler and runs an immediate startup sync
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	spec := fmt.Sprintf("@every %dm", s.intervalMinutes)
	if _, err := s.cron.AddFunc(spec, s.runFullSync); err != nil {
		return fmt.Errorf("failed to add sync job: %w", err)
	}

	s.cron.Start()
	s.logger.WithField("interval_minutes", s.intervalMinutes).Info("Scheduler started")

	// Startup reconciliation runs right away rather than waiting a
	// full interval.
	go s.runFullSync()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runFullSync executes the scheduled pull-merge-push cycle. Scheduled
// syncs fail silently to the log; the next trigger retries naturally.
func (s *Scheduler) runFullSync() {
	s.logger.Info("Running scheduled sync")

	err := s.syncCtrl.FullSync(context.Background())
	switch {
	case errors.Is(err, controllers.ErrSyncInProgress):
		s.logger.Debug("Scheduled sync skipped, another sync in flight")
	case err != nil:
		s.logger.WithError(err).Error("Scheduled sync failed")
	default:
		s.logger.Info("Scheduled sync completed")
	}
}
