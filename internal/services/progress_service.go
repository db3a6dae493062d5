package services

import (
	"context"
	"fmt"

	"github.com/japanesestudent/progress-service/internal/models"
	"github.com/japanesestudent/progress-service/internal/progress"
)

// ContentReader defines methods for reading content owned by the content service
type ContentReader interface {
	// FetchCourseStructure retrieves a course with its ordered modules and lessons
	//
	// "ctx" is the context for the request.
	// "courseID" is the document ID of the course.
	//
	// Returns the course and an error wrapping models.ErrNotFound or models.ErrTransientIO.
	FetchCourseStructure(ctx context.Context, courseID string) (*models.Course, error)
	// FetchQuiz retrieves a quiz definition
	//
	// "ctx" is the context for the request.
	// "quizID" is the document ID of the quiz.
	//
	// Returns the quiz and an error wrapping models.ErrNotFound or models.ErrTransientIO.
	FetchQuiz(ctx context.Context, quizID string) (*models.Quiz, error)
	// FetchActivity retrieves a matching activity definition
	//
	// "ctx" is the context for the request.
	// "activityID" is the document ID of the activity.
	//
	// Returns the activity and an error wrapping models.ErrNotFound or models.ErrTransientIO.
	FetchActivity(ctx context.Context, activityID string) (*models.Activity, error)
}

// CompletionRepository defines methods for lesson completion data access
type CompletionRepository interface {
	// Upsert creates or overwrites the completion of a lesson by a user
	//
	// "ctx" is the context for the request.
	// "completion" is the completion record, unique per user and lesson.
	//
	// Returns an error if any.
	Upsert(ctx context.Context, completion *models.LessonCompletion) error
	// ListCompletedLessonIDs retrieves the IDs of lessons a user completed within a course
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	//
	// Returns the lesson IDs and an error if any.
	ListCompletedLessonIDs(ctx context.Context, userID, courseID string) ([]string, error)
}

type progressService struct {
	content        ContentReader
	completionRepo CompletionRepository
}

// NewProgressService creates a new progress service
func NewProgressService(content ContentReader, completionRepo CompletionRepository) *progressService {
	return &progressService{
		content:        content,
		completionRepo: completionRepo,
	}
}

// ComputeProgress computes the completion percentage of a course for a user and the lesson to resume from
func (s *progressService) ComputeProgress(ctx context.Context, userID, courseID string) (*models.CourseProgress, error) {
	if userID == "" {
		return nil, models.ErrNotAuthenticated
	}

	course, err := s.content.FetchCourseStructure(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course structure: %w", err)
	}

	return courseProgress(ctx, s.completionRepo, course, userID)
}

// Navigation returns the previous and next lessons around a lesson of a course
func (s *progressService) Navigation(ctx context.Context, courseID, lessonID string) (*models.LessonNavigation, error) {
	course, err := s.content.FetchCourseStructure(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course structure: %w", err)
	}

	previous, next, err := progress.Neighbors(course, lessonID)
	if err != nil {
		return nil, err
	}

	return &models.LessonNavigation{
		CourseID:       courseID,
		LessonID:       lessonID,
		PreviousLesson: previous,
		NextLesson:     next,
	}, nil
}

// courseProgress reads the completions of a user and calculates the progress of course.
// A course without lessons is 0% and the store is not queried.
func courseProgress(ctx context.Context, repo CompletionRepository, course *models.Course, userID string) (*models.CourseProgress, error) {
	result := models.CourseProgress{CourseID: course.ID}
	if len(progress.Flatten(course)) == 0 {
		return &result, nil
	}

	completed, err := repo.ListCompletedLessonIDs(ctx, userID, course.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get completed lessons: %w", err)
	}

	calculated := progress.Calculate(course, completed)
	result.Percentage = calculated.Percentage
	result.NextLessonID = calculated.NextLessonID
	result.TotalLessons = calculated.Total
	result.CompletedLessons = calculated.Completed
	return &result, nil
}
