package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/japanesestudent/progress-service/internal/models"
	"go.uber.org/zap"
)

const reconcilePageSize = 100

// EnrollmentRepository defines methods for enrollment data access
type EnrollmentRepository interface {
	// Create inserts an enrollment unless the user is already enrolled in the course
	//
	// "ctx" is the context for the request.
	// "enrollment" is the enrollment to insert.
	//
	// Returns whether a new enrollment was created and an error if any.
	Create(ctx context.Context, enrollment *models.Enrollment) (bool, error)
	// GetByUserAndCourse retrieves the enrollment of a user in a course
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	//
	// Returns the enrollment and an error wrapping models.ErrNotFound if there is none.
	GetByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
	// ListByUser retrieves all enrollments of a user
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the enrollments and an error if any.
	ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error)
	// ListPage retrieves enrollments in ID order
	//
	// "ctx" is the context for the request.
	// "afterID" is the last ID of the previous page, 0 for the first page.
	// "limit" is the page size.
	//
	// Returns the enrollments and an error if any.
	ListPage(ctx context.Context, afterID, limit int) ([]models.Enrollment, error)
	// UpdateProgress stores the cached progress percentage of an enrollment
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	// "percentage" is the progress percentage.
	//
	// Returns an error if any.
	UpdateProgress(ctx context.Context, userID, courseID string, percentage int) error
}

type enrollmentService struct {
	content        ContentReader
	completionRepo CompletionRepository
	enrollmentRepo EnrollmentRepository
	enqueuer       ProgressEnqueuer
	logger         *zap.Logger
	now            func() time.Time
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(
	content ContentReader,
	completionRepo CompletionRepository,
	enrollmentRepo EnrollmentRepository,
	enqueuer ProgressEnqueuer,
	logger *zap.Logger,
) *enrollmentService {
	return &enrollmentService{
		content:        content,
		completionRepo: completionRepo,
		enrollmentRepo: enrollmentRepo,
		enqueuer:       enqueuer,
		logger:         logger,
		now:            time.Now,
	}
}

// Enroll enrolls a user in a course. Enrolling twice returns the existing enrollment.
func (s *enrollmentService) Enroll(ctx context.Context, userID, courseID string) (*models.Enrollment, bool, error) {
	if userID == "" {
		return nil, false, models.ErrNotAuthenticated
	}

	course, err := s.content.FetchCourseStructure(ctx, courseID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get course structure: %w", err)
	}

	// Lessons completed before enrolling still count
	current, err := courseProgress(ctx, s.completionRepo, course, userID)
	if err != nil {
		return nil, false, err
	}

	created, err := s.enrollmentRepo.Create(ctx, &models.Enrollment{
		UserID:             userID,
		CourseID:           course.ID,
		ProgressPercentage: current.Percentage,
		EnrolledAt:         s.now().UTC(),
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to enroll: %w", err)
	}

	enrollment, err := s.enrollmentRepo.GetByUserAndCourse(ctx, userID, course.ID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get enrollment: %w", err)
	}

	return enrollment, created, nil
}

// GetEnrollment retrieves the enrollment of a user in a course
func (s *enrollmentService) GetEnrollment(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	if userID == "" {
		return nil, models.ErrNotAuthenticated
	}
	return s.enrollmentRepo.GetByUserAndCourse(ctx, userID, courseID)
}

// ListEnrollments retrieves all enrollments of a user with their cached progress
func (s *enrollmentService) ListEnrollments(ctx context.Context, userID string) ([]models.Enrollment, error) {
	if userID == "" {
		return nil, models.ErrNotAuthenticated
	}

	enrollments, err := s.enrollmentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollments: %w", err)
	}
	return enrollments, nil
}

// RefreshProgress recomputes and stores the cached progress of an enrollment
func (s *enrollmentService) RefreshProgress(ctx context.Context, userID, courseID string) (int, error) {
	course, err := s.content.FetchCourseStructure(ctx, courseID)
	if err != nil {
		return 0, fmt.Errorf("failed to get course structure: %w", err)
	}

	current, err := courseProgress(ctx, s.completionRepo, course, userID)
	if err != nil {
		return 0, err
	}

	if err := s.enrollmentRepo.UpdateProgress(ctx, userID, course.ID, current.Percentage); err != nil {
		return 0, fmt.Errorf("failed to update enrollment progress: %w", err)
	}

	s.logger.Debug("enrollment progress refreshed",
		zap.String("user_id", userID),
		zap.String("course_id", course.ID),
		zap.Int("percentage", current.Percentage),
	)
	return current.Percentage, nil
}

// ReconcileAll enqueues a progress recompute for every enrollment.
// It keeps going after an enqueue failure and returns the number of enqueued tasks with the joined errors.
func (s *enrollmentService) ReconcileAll(ctx context.Context) (int, error) {
	if s.enqueuer == nil {
		return 0, errors.New("progress enqueuer is not configured")
	}

	var enqueued int
	var errs []error
	afterID := 0
	for {
		page, err := s.enrollmentRepo.ListPage(ctx, afterID, reconcilePageSize)
		if err != nil {
			return enqueued, fmt.Errorf("failed to list enrollments: %w", err)
		}

		for _, enrollment := range page {
			if err := s.enqueuer.EnqueueProgressRecompute(ctx, enrollment.UserID, enrollment.CourseID); err != nil {
				errs = append(errs, fmt.Errorf("enrollment %d: %w", enrollment.ID, err))
				continue
			}
			enqueued++
		}

		if len(page) < reconcilePageSize {
			break
		}
		afterID = page[len(page)-1].ID
	}

	return enqueued, errors.Join(errs...)
}
