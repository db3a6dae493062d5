// Package tasks defines the background tasks exchanged between the API, the scheduler and the worker
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TypeProgressRecompute recomputes the cached progress of one enrollment
	TypeProgressRecompute = "progress:recompute"
	// QueueProgress is the queue progress tasks are enqueued to
	QueueProgress = "progress"
)

const (
	progressMaxRetry     = 5
	progressUniqueWindow = 30 * time.Second
)

// ProgressRecomputePayload identifies the enrollment to recompute
type ProgressRecomputePayload struct {
	UserID   string `json:"userId"`
	CourseID string `json:"courseId"`
}

// NewProgressRecomputeTask builds a progress recompute task
func NewProgressRecomputeTask(userID, courseID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ProgressRecomputePayload{UserID: userID, CourseID: courseID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeProgressRecompute, payload), nil
}

// ParseProgressRecomputePayload decodes and validates the payload of a progress recompute task
func ParseProgressRecomputePayload(t *asynq.Task) (ProgressRecomputePayload, error) {
	var payload ProgressRecomputePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to parse payload: %w", err)
	}
	if payload.UserID == "" || payload.CourseID == "" {
		return payload, fmt.Errorf("payload requires userId and courseId")
	}
	return payload, nil
}

// Client is the part of asynq.Client used to enqueue tasks
type Client interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer enqueues progress tasks
type Enqueuer struct {
	client Client
}

// NewEnqueuer creates a new enqueuer
func NewEnqueuer(client Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueProgressRecompute schedules a recompute for an enrollment.
// A recompute already pending for the same enrollment is not duplicated.
func (e *Enqueuer) EnqueueProgressRecompute(ctx context.Context, userID, courseID string) error {
	task, err := NewProgressRecomputeTask(userID, courseID)
	if err != nil {
		return err
	}

	_, err = e.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueProgress),
		asynq.MaxRetry(progressMaxRetry),
		asynq.Unique(progressUniqueWindow),
	)
	if err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
		return fmt.Errorf("failed to enqueue progress recompute: %w", err)
	}
	return nil
}
