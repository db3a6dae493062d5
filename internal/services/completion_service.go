package services

import (
	"context"
	"fmt"
	"time"

	"github.com/japanesestudent/progress-service/internal/models"
	"github.com/japanesestudent/progress-service/internal/progress"
	"go.uber.org/zap"
)

// ProgressEnqueuer defines methods for scheduling background progress recomputation
type ProgressEnqueuer interface {
	// EnqueueProgressRecompute schedules a refresh of the cached enrollment progress
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	//
	// Returns an error if the task could not be enqueued.
	EnqueueProgressRecompute(ctx context.Context, userID, courseID string) error
}

type completionService struct {
	content        ContentReader
	completionRepo CompletionRepository
	enqueuer       ProgressEnqueuer
	logger         *zap.Logger
	now            func() time.Time
}

// NewCompletionService creates a new lesson completion service.
// enqueuer may be nil, in which case cached enrollment progress is only refreshed by the scheduler.
func NewCompletionService(content ContentReader, completionRepo CompletionRepository, enqueuer ProgressEnqueuer, logger *zap.Logger) *completionService {
	return &completionService{
		content:        content,
		completionRepo: completionRepo,
		enqueuer:       enqueuer,
		logger:         logger,
		now:            time.Now,
	}
}

// MarkComplete records that a user completed a lesson and returns the updated course progress.
// Marking an already completed lesson overwrites the completion time.
func (s *completionService) MarkComplete(ctx context.Context, userID, courseID, lessonID string) (*models.CompleteLessonResponse, error) {
	if userID == "" {
		return nil, models.ErrNotAuthenticated
	}

	course, err := s.content.FetchCourseStructure(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course structure: %w", err)
	}
	if !progress.Contains(course, lessonID) {
		return nil, fmt.Errorf("lesson %q in course %q: %w", lessonID, courseID, models.ErrNotFound)
	}

	completion := models.LessonCompletion{
		UserID:      userID,
		LessonID:    lessonID,
		CourseID:    course.ID,
		Completed:   true,
		CompletedAt: s.now().UTC(),
	}
	if err := s.completionRepo.Upsert(ctx, &completion); err != nil {
		return nil, fmt.Errorf("failed to record completion: %w", err)
	}

	// Progress is read after the write so the response reflects this completion
	current, err := courseProgress(ctx, s.completionRepo, course, userID)
	if err != nil {
		return nil, err
	}

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueProgressRecompute(ctx, userID, course.ID); err != nil {
			s.logger.Warn("failed to enqueue progress recompute",
				zap.String("user_id", userID),
				zap.String("course_id", course.ID),
				zap.Error(err),
			)
		}
	}

	return &models.CompleteLessonResponse{
		Completion: completion,
		Progress:   *current,
	}, nil
}
