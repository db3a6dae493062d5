package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/japanesestudent/progress-service/internal/models"
)

type completionRepository struct {
	db *sql.DB
}

// NewCompletionRepository creates a new lesson completion repository
func NewCompletionRepository(db *sql.DB) *completionRepository {
	return &completionRepository{
		db: db,
	}
}

// Upsert records a completion keyed on (user_id, lesson_id).
// Repeated calls overwrite the existing row.
func (r *completionRepository) Upsert(ctx context.Context, completion *models.LessonCompletion) error {
	query := `
		INSERT INTO lesson_completions (user_id, lesson_id, course_id, completed, completed_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			course_id = VALUES(course_id),
			completed = VALUES(completed),
			completed_at = VALUES(completed_at)
	`

	_, err := r.db.ExecContext(ctx, query,
		completion.UserID,
		completion.LessonID,
		completion.CourseID,
		completion.Completed,
		completion.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert lesson completion: %w", err)
	}

	return nil
}

// ListCompletedLessonIDs returns the IDs of lessons the user completed within a course
func (r *completionRepository) ListCompletedLessonIDs(ctx context.Context, userID, courseID string) ([]string, error) {
	query := `
		SELECT lesson_id
		FROM lesson_completions
		WHERE user_id = ? AND course_id = ? AND completed = TRUE
	`

	rows, err := r.db.QueryContext(ctx, query, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed lessons: %w", err)
	}
	defer rows.Close()

	lessonIDs := []string{}
	for rows.Next() {
		var lessonID string
		if err := rows.Scan(&lessonID); err != nil {
			return nil, fmt.Errorf("failed to scan lesson id: %w", err)
		}
		lessonIDs = append(lessonIDs, lessonID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating completed lessons: %w", err)
	}

	return lessonIDs, nil
}
