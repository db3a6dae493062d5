// Package content provides readers for course, quiz and activity definitions
// owned by the external content service
package content

import (
	"context"
	"fmt"

	"github.com/japanesestudent/progress-service/internal/config"
	"github.com/japanesestudent/progress-service/internal/models"
	"go.uber.org/zap"
)

// Reader fetches read-only content documents.
// Implementations return errors wrapping models.ErrNotFound or models.ErrTransientIO.
type Reader interface {
	FetchCourseStructure(ctx context.Context, courseID string) (*models.Course, error)
	FetchQuiz(ctx context.Context, quizID string) (*models.Quiz, error)
	FetchActivity(ctx context.Context, activityID string) (*models.Activity, error)
}

// New builds the reader selected by cfg.Source.
// A non-nil cache wraps it in a CachedReader when cfg.CacheTTL is positive.
func New(cfg config.ContentConfig, cache CacheClient, logger *zap.Logger) (Reader, error) {
	var reader Reader
	switch cfg.Source {
	case config.ContentSourceHTTP:
		reader = NewHTTPReader(cfg.BaseURL, cfg.APIToken, cfg.Timeout, logger)
	case config.ContentSourceFile:
		fileReader, err := NewFileReader(cfg.Dir, logger)
		if err != nil {
			return nil, err
		}
		reader = fileReader
	default:
		return nil, fmt.Errorf("unknown content source %q", cfg.Source)
	}

	if cache == nil || cfg.CacheTTL <= 0 {
		return reader, nil
	}
	return NewCachedReader(reader, cache, cfg.CacheTTL, logger), nil
}
