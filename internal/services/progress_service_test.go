package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/japanesestudent/progress-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgressService(t *testing.T) {
	content := &mockContentReader{}
	completionRepo := &mockCompletionRepository{}

	svc := NewProgressService(content, completionRepo)

	assert.NotNil(t, svc)
	assert.Equal(t, content, svc.content)
	assert.Equal(t, completionRepo, svc.completionRepo)
}

func TestProgressService_ComputeProgress(t *testing.T) {
	tests := []struct {
		name             string
		userID           string
		content          *mockContentReader
		completionRepo   *mockCompletionRepository
		expectedError    bool
		expectedErrIs    error
		expectedPct      int
		expectedNext     *string
		expectListCalled bool
	}{
		{
			name:             "one of three lessons",
			userID:           "user-1",
			content:          &mockContentReader{course: testCourse()},
			completionRepo:   &mockCompletionRepository{completed: []string{"L1"}},
			expectedPct:      33,
			expectedNext:     strPtr("L2"),
			expectListCalled: true,
		},
		{
			name:             "all complete resumes from first lesson",
			userID:           "user-1",
			content:          &mockContentReader{course: testCourse()},
			completionRepo:   &mockCompletionRepository{completed: []string{"L1", "L2", "L3"}},
			expectedPct:      100,
			expectedNext:     strPtr("L1"),
			expectListCalled: true,
		},
		{
			name:           "empty course is zero without reading completions",
			userID:         "user-1",
			content:        &mockContentReader{course: &models.Course{ID: "course-1"}},
			completionRepo: &mockCompletionRepository{},
			expectedPct:    0,
		},
		{
			name:           "not authenticated",
			userID:         "",
			content:        &mockContentReader{course: testCourse()},
			completionRepo: &mockCompletionRepository{},
			expectedError:  true,
			expectedErrIs:  models.ErrNotAuthenticated,
		},
		{
			name:           "course not found",
			userID:         "user-1",
			content:        &mockContentReader{},
			completionRepo: &mockCompletionRepository{},
			expectedError:  true,
			expectedErrIs:  models.ErrNotFound,
		},
		{
			name:           "content service unavailable",
			userID:         "user-1",
			content:        &mockContentReader{err: fmt.Errorf("%w: status 502", models.ErrTransientIO)},
			completionRepo: &mockCompletionRepository{},
			expectedError:  true,
			expectedErrIs:  models.ErrTransientIO,
		},
		{
			name:             "completion store failure is not zero progress",
			userID:           "user-1",
			content:          &mockContentReader{course: testCourse()},
			completionRepo:   &mockCompletionRepository{listErr: errors.New("connection reset")},
			expectedError:    true,
			expectListCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewProgressService(tt.content, tt.completionRepo)

			result, err := svc.ComputeProgress(context.Background(), tt.userID, "course-1")

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, result)
				if tt.expectedErrIs != nil {
					assert.ErrorIs(t, err, tt.expectedErrIs)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, "course-1", result.CourseID)
				assert.Equal(t, tt.expectedPct, result.Percentage)
				assert.Equal(t, tt.expectedNext, result.NextLessonID)
			}
			assert.Equal(t, tt.expectListCalled, tt.completionRepo.listCalls > 0)
		})
	}
}

func TestProgressService_Navigation(t *testing.T) {
	svc := NewProgressService(&mockContentReader{course: testCourse()}, &mockCompletionRepository{})

	nav, err := svc.Navigation(context.Background(), "course-1", "L2")
	require.NoError(t, err)
	assert.Equal(t, "L1", nav.PreviousLesson.ID)
	assert.Equal(t, "L3", nav.NextLesson.ID)

	nav, err = svc.Navigation(context.Background(), "course-1", "L3")
	require.NoError(t, err)
	assert.Nil(t, nav.NextLesson)

	_, err = svc.Navigation(context.Background(), "course-1", "L9")
	assert.ErrorIs(t, err, models.ErrNotFound)

	svc = NewProgressService(&mockContentReader{}, &mockCompletionRepository{})
	_, err = svc.Navigation(context.Background(), "course-2", "L1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
