package services

import (
	"context"
	"fmt"

	"github.com/japanesestudent/progress-service/internal/models"
)

// mockContentReader is a mock implementation of ContentReader
type mockContentReader struct {
	course      *models.Course
	quiz        *models.Quiz
	activity    *models.Activity
	err         error
	courseCalls int
}

func (m *mockContentReader) FetchCourseStructure(ctx context.Context, courseID string) (*models.Course, error) {
	m.courseCalls++
	if m.err != nil {
		return nil, m.err
	}
	if m.course == nil {
		return nil, fmt.Errorf("course %q: %w", courseID, models.ErrNotFound)
	}
	return m.course, nil
}

func (m *mockContentReader) FetchQuiz(ctx context.Context, quizID string) (*models.Quiz, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.quiz == nil {
		return nil, fmt.Errorf("quiz %q: %w", quizID, models.ErrNotFound)
	}
	return m.quiz, nil
}

func (m *mockContentReader) FetchActivity(ctx context.Context, activityID string) (*models.Activity, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.activity == nil {
		return nil, fmt.Errorf("activity %q: %w", activityID, models.ErrNotFound)
	}
	return m.activity, nil
}

// mockCompletionRepository is a mock implementation of CompletionRepository.
// Upserted lessons are reported by later ListCompletedLessonIDs calls.
type mockCompletionRepository struct {
	completed []string
	upserted  []models.LessonCompletion
	upsertErr error
	listErr   error
	listCalls int
}

func (m *mockCompletionRepository) Upsert(ctx context.Context, completion *models.LessonCompletion) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, *completion)
	m.completed = append(m.completed, completion.LessonID)
	return nil
}

func (m *mockCompletionRepository) ListCompletedLessonIDs(ctx context.Context, userID, courseID string) ([]string, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.completed, nil
}

// mockEnqueuer is a mock implementation of ProgressEnqueuer
type mockEnqueuer struct {
	calls []models.EnrollmentKey
	err   error
}

func (m *mockEnqueuer) EnqueueProgressRecompute(ctx context.Context, userID, courseID string) error {
	if m.err != nil {
		return m.err
	}
	m.calls = append(m.calls, models.EnrollmentKey{UserID: userID, CourseID: courseID})
	return nil
}

// testCourse returns a course with modules [M1: [L1, L2], M2: [L3]]
func testCourse() *models.Course {
	return &models.Course{
		ID: "course-1",
		Modules: []models.Module{
			{ID: "M1", Lessons: []models.Lesson{{ID: "L1", Slug: "l1"}, {ID: "L2", Slug: "l2"}}},
			{ID: "M2", Lessons: []models.Lesson{{ID: "L3", Slug: "l3"}}},
		},
	}
}

func strPtr(s string) *string { return &s }
