package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/japanesestudent/progress-service/internal/models"
)

type enrollmentRepository struct {
	db *sql.DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *sql.DB) *enrollmentRepository {
	return &enrollmentRepository{
		db: db,
	}
}

// Create inserts an enrollment unless one already exists for the user and course.
// It reports whether a new row was created.
func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) (bool, error) {
	query := `
		INSERT IGNORE INTO enrollments (user_id, course_id, progress_percentage, enrolled_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		enrollment.UserID,
		enrollment.CourseID,
		enrollment.ProgressPercentage,
		enrollment.EnrolledAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create enrollment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// GetByUserAndCourse returns the enrollment of a user in a course
func (r *enrollmentRepository) GetByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, progress_percentage, enrolled_at
		FROM enrollments
		WHERE user_id = ? AND course_id = ?
	`

	var enrollment models.Enrollment
	err := r.db.QueryRowContext(ctx, query, userID, courseID).Scan(
		&enrollment.ID,
		&enrollment.UserID,
		&enrollment.CourseID,
		&enrollment.ProgressPercentage,
		&enrollment.EnrolledAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("enrollment: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	return &enrollment, nil
}

// ListByUser returns all enrollments of a user, most recent first
func (r *enrollmentRepository) ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, progress_percentage, enrolled_at
		FROM enrollments
		WHERE user_id = ?
		ORDER BY enrolled_at DESC, id DESC
	`

	return r.list(ctx, query, userID)
}

// ListPage returns up to limit enrollments with an ID greater than afterID, in ID order
func (r *enrollmentRepository) ListPage(ctx context.Context, afterID, limit int) ([]models.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, progress_percentage, enrolled_at
		FROM enrollments
		WHERE id > ?
		ORDER BY id
		LIMIT ?
	`

	return r.list(ctx, query, afterID, limit)
}

// UpdateProgress stores the cached progress percentage of an enrollment
func (r *enrollmentRepository) UpdateProgress(ctx context.Context, userID, courseID string, percentage int) error {
	query := `
		UPDATE enrollments
		SET progress_percentage = ?
		WHERE user_id = ? AND course_id = ?
	`

	// MySQL reports zero affected rows for an unchanged value, so the count is not checked
	if _, err := r.db.ExecContext(ctx, query, percentage, userID, courseID); err != nil {
		return fmt.Errorf("failed to update enrollment progress: %w", err)
	}

	return nil
}

func (r *enrollmentRepository) list(ctx context.Context, query string, args ...any) ([]models.Enrollment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []models.Enrollment{}
	for rows.Next() {
		var enrollment models.Enrollment
		err := rows.Scan(
			&enrollment.ID,
			&enrollment.UserID,
			&enrollment.CourseID,
			&enrollment.ProgressPercentage,
			&enrollment.EnrolledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollments: %w", err)
	}

	return enrollments, nil
}
