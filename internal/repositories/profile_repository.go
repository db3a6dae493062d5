package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/japanesestudent/progress-service/internal/models"
)

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB) *profileRepository {
	return &profileRepository{
		db: db,
	}
}

// GetOrCreate returns the profile of a user, creating it with displayName if it does not exist.
// Insert and read happen in one transaction, concurrent first calls resolve to the same row.
func (r *profileRepository) GetOrCreate(ctx context.Context, userID, displayName string, now time.Time) (*models.Profile, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT IGNORE INTO profiles (user_id, display_name, created_at)
		VALUES (?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, insertQuery, userID, displayName, now); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	selectQuery := `
		SELECT user_id, display_name, created_at
		FROM profiles
		WHERE user_id = ?
	`
	var profile models.Profile
	err = tx.QueryRowContext(ctx, selectQuery, userID).Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &profile, nil
}
