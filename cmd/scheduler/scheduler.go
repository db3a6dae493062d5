package main

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// reconcileTimeout bounds a single reconciliation run
const reconcileTimeout = 10 * time.Minute

// Reconciler defines the enrollment progress reconciliation run by the scheduler
type Reconciler interface {
	// ReconcileAll enqueues a progress recompute for every enrollment
	//
	// Returns the number of enqueued tasks and the joined enqueue errors, if any.
	ReconcileAll(ctx context.Context) (int, error)
}

// Scheduler runs the progress reconciliation on a cron schedule
type Scheduler struct {
	cron       *cron.Cron
	reconciler Reconciler
	logger     *zap.Logger
}

// NewScheduler creates a new scheduler instance.
// "spec" is a standard five field cron expression.
func NewScheduler(spec string, reconciler Reconciler, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:       cron.New(),
		reconciler: reconciler,
		logger:     logger,
	}

	if _, err := s.cron.AddFunc(spec, s.reconcile); err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", spec, err)
	}

	return s, nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop stops the scheduler and waits for a running reconciliation to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// reconcile runs one reconciliation
func (s *Scheduler) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()

	start := time.Now()
	count, err := s.reconciler.ReconcileAll(ctx)
	if err != nil {
		s.logger.Error("Progress reconciliation finished with errors",
			zap.Int("enqueued", count),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Progress reconciliation enqueued",
		zap.Int("enqueued", count),
		zap.Duration("duration", time.Since(start)),
	)
}
