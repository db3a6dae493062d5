package services

import (
	"context"
	"fmt"
	"time"

	"github.com/japanesestudent/progress-service/internal/models"
)

// ProfileRepository defines methods for profile data access
type ProfileRepository interface {
	// GetOrCreate retrieves the profile of a user, creating it atomically if it does not exist
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "displayName" is used only when the profile is created.
	// "now" is the creation time.
	//
	// Returns the profile and an error if any.
	GetOrCreate(ctx context.Context, userID, displayName string, now time.Time) (*models.Profile, error)
}

type profileService struct {
	profileRepo ProfileRepository
	now         func() time.Time
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo ProfileRepository) *profileService {
	return &profileService{
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

// GetProfile returns the profile of the user, creating an empty one on first access
func (s *profileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	if userID == "" {
		return nil, models.ErrNotAuthenticated
	}

	profile, err := s.profileRepo.GetOrCreate(ctx, userID, "", s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}
