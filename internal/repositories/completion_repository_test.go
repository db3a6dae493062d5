package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/japanesestudent/progress-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupCompletionTestRepository creates a completion repository with a mock database
func setupCompletionTestRepository(t *testing.T) (*completionRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewCompletionRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestNewCompletionRepository(t *testing.T) {
	db := &sql.DB{}

	repo := NewCompletionRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestCompletionRepository_Upsert(t *testing.T) {
	completedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		completion    *models.LessonCompletion
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
	}{
		{
			name: "success - new completion",
			completion: &models.LessonCompletion{
				UserID:      "user-1",
				LessonID:    "L1",
				CourseID:    "course-1",
				Completed:   true,
				CompletedAt: completedAt,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO lesson_completions \(user_id, lesson_id, course_id, completed, completed_at\) VALUES \(\?, \?, \?, \?, \?\) ON DUPLICATE KEY UPDATE`).
					WithArgs("user-1", "L1", "course-1", true, completedAt).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
			expectedError: false,
		},
		{
			name: "success - existing completion overwritten",
			completion: &models.LessonCompletion{
				UserID:      "user-1",
				LessonID:    "L1",
				CourseID:    "course-1",
				Completed:   true,
				CompletedAt: completedAt,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				// MySQL reports 2 affected rows when an existing row is updated
				mock.ExpectExec(`INSERT INTO lesson_completions`).
					WithArgs("user-1", "L1", "course-1", true, completedAt).
					WillReturnResult(sqlmock.NewResult(1, 2))
			},
			expectedError: false,
		},
		{
			name: "database error",
			completion: &models.LessonCompletion{
				UserID:      "user-1",
				LessonID:    "L1",
				CourseID:    "course-1",
				Completed:   true,
				CompletedAt: completedAt,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO lesson_completions`).
					WithArgs("user-1", "L1", "course-1", true, completedAt).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCompletionTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Upsert(context.Background(), tt.completion)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCompletionRepository_ListCompletedLessonIDs(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedIDs   []string
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"lesson_id"}).
					AddRow("L1").
					AddRow("L3")
				mock.ExpectQuery(`SELECT lesson_id FROM lesson_completions WHERE user_id = \? AND course_id = \? AND completed = TRUE`).
					WithArgs("user-1", "course-1").
					WillReturnRows(rows)
			},
			expectedError: false,
			expectedIDs:   []string{"L1", "L3"},
		},
		{
			name: "success - nothing completed",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT lesson_id FROM lesson_completions`).
					WithArgs("user-1", "course-1").
					WillReturnRows(sqlmock.NewRows([]string{"lesson_id"}))
			},
			expectedError: false,
			expectedIDs:   []string{},
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT lesson_id FROM lesson_completions`).
					WithArgs("user-1", "course-1").
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
		{
			name: "row error",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"lesson_id"}).
					AddRow("L1").
					RowError(0, errors.New("row error"))
				mock.ExpectQuery(`SELECT lesson_id FROM lesson_completions`).
					WithArgs("user-1", "course-1").
					WillReturnRows(rows)
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCompletionTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			ids, err := repo.ListCompletedLessonIDs(context.Background(), "user-1", "course-1")

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, ids)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedIDs, ids)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
