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

// setupEnrollmentTestRepository creates an enrollment repository with a mock database
func setupEnrollmentTestRepository(t *testing.T) (*enrollmentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewEnrollmentRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

var enrollmentColumns = []string{"id", "user_id", "course_id", "progress_percentage", "enrolled_at"}

func TestEnrollmentRepository_Create(t *testing.T) {
	enrolledAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		setupMock       func(sqlmock.Sqlmock)
		expectedError   bool
		expectedCreated bool
	}{
		{
			name: "success - created",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT IGNORE INTO enrollments \(user_id, course_id, progress_percentage, enrolled_at\) VALUES \(\?, \?, \?, \?\)`).
					WithArgs("user-1", "course-1", 0, enrolledAt).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
			expectedCreated: true,
		},
		{
			name: "success - already enrolled",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT IGNORE INTO enrollments`).
					WithArgs("user-1", "course-1", 0, enrolledAt).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedCreated: false,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT IGNORE INTO enrollments`).
					WithArgs("user-1", "course-1", 0, enrolledAt).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupEnrollmentTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			created, err := repo.Create(context.Background(), &models.Enrollment{
				UserID:     "user-1",
				CourseID:   "course-1",
				EnrolledAt: enrolledAt,
			})

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedCreated, created)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEnrollmentRepository_GetByUserAndCourse(t *testing.T) {
	enrolledAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
		expected      *models.Enrollment
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(enrollmentColumns).AddRow(3, "user-1", "course-1", 67, enrolledAt)
				mock.ExpectQuery(`SELECT id, user_id, course_id, progress_percentage, enrolled_at FROM enrollments WHERE user_id = \? AND course_id = \?`).
					WithArgs("user-1", "course-1").
					WillReturnRows(rows)
			},
			expected: &models.Enrollment{ID: 3, UserID: "user-1", CourseID: "course-1", ProgressPercentage: 67, EnrolledAt: enrolledAt},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, user_id, course_id`).
					WithArgs("user-1", "course-1").
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: models.ErrNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, user_id, course_id`).
					WithArgs("user-1", "course-1").
					WillReturnError(errors.New("database error"))
			},
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupEnrollmentTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			enrollment, err := repo.GetByUserAndCourse(context.Background(), "user-1", "course-1")

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Nil(t, enrollment)
				if errors.Is(tt.expectedError, models.ErrNotFound) {
					assert.ErrorIs(t, err, models.ErrNotFound)
				} else {
					assert.NotErrorIs(t, err, models.ErrNotFound)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, enrollment)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEnrollmentRepository_ListByUser(t *testing.T) {
	repo, mock, cleanup := setupEnrollmentTestRepository(t)
	defer cleanup()

	enrolledAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(enrollmentColumns).
		AddRow(2, "user-1", "course-2", 0, enrolledAt.Add(time.Hour)).
		AddRow(1, "user-1", "course-1", 33, enrolledAt)
	mock.ExpectQuery(`SELECT id, user_id, course_id, progress_percentage, enrolled_at FROM enrollments WHERE user_id = \? ORDER BY enrolled_at DESC, id DESC`).
		WithArgs("user-1").
		WillReturnRows(rows)

	enrollments, err := repo.ListByUser(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, enrollments, 2)
	assert.Equal(t, "course-2", enrollments[0].CourseID)
	assert.Equal(t, 33, enrollments[1].ProgressPercentage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_ListPage(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedCount int
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(enrollmentColumns).
					AddRow(11, "user-1", "course-1", 0, time.Now()).
					AddRow(12, "user-2", "course-1", 100, time.Now())
				mock.ExpectQuery(`SELECT id, user_id, course_id, progress_percentage, enrolled_at FROM enrollments WHERE id > \? ORDER BY id LIMIT \?`).
					WithArgs(10, 2).
					WillReturnRows(rows)
			},
			expectedCount: 2,
		},
		{
			name: "scan error",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(enrollmentColumns).
					AddRow("not-a-number", "user-1", "course-1", 0, time.Now())
				mock.ExpectQuery(`SELECT id, user_id, course_id`).
					WithArgs(10, 2).
					WillReturnRows(rows)
			},
			expectedError: true,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, user_id, course_id`).
					WithArgs(10, 2).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupEnrollmentTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			enrollments, err := repo.ListPage(context.Background(), 10, 2)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, enrollments)
			} else {
				assert.NoError(t, err)
				assert.Len(t, enrollments, tt.expectedCount)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEnrollmentRepository_UpdateProgress(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE enrollments SET progress_percentage = \? WHERE user_id = \? AND course_id = \?`).
					WithArgs(67, "user-1", "course-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "success - unchanged value",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE enrollments`).
					WithArgs(67, "user-1", "course-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE enrollments`).
					WithArgs(67, "user-1", "course-1").
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupEnrollmentTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.UpdateProgress(context.Background(), "user-1", "course-1", 67)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
