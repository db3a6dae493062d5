package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/japanesestudent/progress-service/internal/models"
)

type attemptRepository struct {
	db *sql.DB
}

// NewAttemptRepository creates a new quiz attempt repository
func NewAttemptRepository(db *sql.DB) *attemptRepository {
	return &attemptRepository{
		db: db,
	}
}

// Create appends an attempt and sets its ID. Attempts are never updated.
func (r *attemptRepository) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	answers, err := json.Marshal(attempt.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	query := `
		INSERT INTO quiz_attempts (user_id, quiz_id, lesson_id, score, answers, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		attempt.UserID,
		attempt.QuizID,
		nullString(attempt.LessonID),
		attempt.Score,
		answers,
		attempt.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create quiz attempt: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	attempt.ID = int(id)
	return nil
}

// ListByUserAndQuiz returns up to limit attempts of a user for a quiz, newest first
func (r *attemptRepository) ListByUserAndQuiz(ctx context.Context, userID, quizID string, limit int) ([]models.QuizAttempt, error) {
	query := `
		SELECT id, user_id, quiz_id, lesson_id, score, answers, submitted_at
		FROM quiz_attempts
		WHERE user_id = ? AND quiz_id = ?
		ORDER BY submitted_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, userID, quizID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz attempts: %w", err)
	}
	defer rows.Close()

	attempts := []models.QuizAttempt{}
	for rows.Next() {
		var attempt models.QuizAttempt
		var lessonID sql.NullString
		var answers []byte

		err := rows.Scan(
			&attempt.ID,
			&attempt.UserID,
			&attempt.QuizID,
			&lessonID,
			&attempt.Score,
			&answers,
			&attempt.SubmittedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz attempt: %w", err)
		}

		if lessonID.Valid {
			attempt.LessonID = &lessonID.String
		}
		if err := json.Unmarshal(answers, &attempt.Answers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal answers of attempt %d: %w", attempt.ID, err)
		}

		attempts = append(attempts, attempt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quiz attempts: %w", err)
	}

	return attempts, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
