package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/japanesestudent/progress-service/internal/models"
	"github.com/japanesestudent/progress-service/internal/tasks"
	"go.uber.org/zap"
)

// ProgressRefresher defines the enrollment progress refresh used by the worker
type ProgressRefresher interface {
	// RefreshProgress recomputes and stores the cached progress of an enrollment
	//
	// "userID" parameter is the ID of the enrolled user.
	// "courseID" parameter is the ID of the course.
	//
	// If some error occurs during the recompute, the error will be returned together with 0.
	RefreshProgress(ctx context.Context, userID, courseID string) (int, error)
}

// Worker handles background progress tasks
type Worker struct {
	logger    *zap.Logger
	refresher ProgressRefresher
}

// NewWorker creates a new worker instance
func NewWorker(logger *zap.Logger, refresher ProgressRefresher) *Worker {
	return &Worker{
		logger:    logger,
		refresher: refresher,
	}
}

// HandleProgressRecompute handles progress recompute tasks.
// Malformed payloads and removed courses are not retried.
func (w *Worker) HandleProgressRecompute(ctx context.Context, t *asynq.Task) error {
	payload, err := tasks.ParseProgressRecomputePayload(t)
	if err != nil {
		w.logger.Error("Invalid progress recompute payload", zap.Error(err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	pct, err := w.refresher.RefreshProgress(ctx, payload.UserID, payload.CourseID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			w.logger.Warn("Course of enrollment no longer exists",
				zap.String("user_id", payload.UserID),
				zap.String("course_id", payload.CourseID),
				zap.Error(err),
			)
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		w.logger.Error("Failed to refresh enrollment progress",
			zap.String("user_id", payload.UserID),
			zap.String("course_id", payload.CourseID),
			zap.Error(err),
		)
		return err
	}

	w.logger.Info("Enrollment progress refreshed",
		zap.String("user_id", payload.UserID),
		zap.String("course_id", payload.CourseID),
		zap.Int("percentage", pct),
	)
	return nil
}
