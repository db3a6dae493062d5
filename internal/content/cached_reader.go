package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/japanesestudent/progress-service/internal/models"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "content"

// CacheClient is the subset of the Redis client used by CachedReader
type CacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedReader caches documents of another reader in Redis.
// Cache failures fall through to the underlying reader, errors are never cached.
type CachedReader struct {
	next   Reader
	cache  CacheClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedReader wraps next with a Redis cache
func NewCachedReader(next Reader, cache CacheClient, ttl time.Duration, logger *zap.Logger) *CachedReader {
	return &CachedReader{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// FetchCourseStructure returns a cached course, fetching it on a miss
func (r *CachedReader) FetchCourseStructure(ctx context.Context, courseID string) (*models.Course, error) {
	return cached(ctx, r, cacheKey(KindCourse, courseID), func() (*models.Course, error) {
		return r.next.FetchCourseStructure(ctx, courseID)
	})
}

// FetchQuiz returns a cached quiz, fetching it on a miss
func (r *CachedReader) FetchQuiz(ctx context.Context, quizID string) (*models.Quiz, error) {
	return cached(ctx, r, cacheKey(KindQuiz, quizID), func() (*models.Quiz, error) {
		return r.next.FetchQuiz(ctx, quizID)
	})
}

// FetchActivity returns a cached activity, fetching it on a miss
func (r *CachedReader) FetchActivity(ctx context.Context, activityID string) (*models.Activity, error) {
	return cached(ctx, r, cacheKey(KindActivity, activityID), func() (*models.Activity, error) {
		return r.next.FetchActivity(ctx, activityID)
	})
}

// Invalidate drops a cached document
func (r *CachedReader) Invalidate(ctx context.Context, kind, id string) error {
	if err := r.cache.Del(ctx, cacheKey(kind, id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate %s %q: %w", kind, id, err)
	}
	return nil
}

func cacheKey(kind, id string) string {
	return fmt.Sprintf("%s:%s:%s", cacheKeyPrefix, kind, id)
}

func cached[T any](ctx context.Context, r *CachedReader, key string, fetch func() (*T, error)) (*T, error) {
	raw, err := r.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var doc T
		if err := json.Unmarshal(raw, &doc); err == nil {
			return &doc, nil
		}
		r.logger.Warn("discarding corrupt cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("content cache read failed", zap.String("key", key), zap.Error(err))
	}

	doc, err := fetch()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return doc, nil
	}
	if err := r.cache.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Warn("content cache write failed", zap.String("key", key), zap.Error(err))
	}
	return doc, nil
}
