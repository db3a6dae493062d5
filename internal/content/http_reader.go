package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/japanesestudent/progress-service/internal/models"
	"go.uber.org/zap"
)

const (
	defaultRetryCount   = 2
	defaultRetryWait    = 100 * time.Millisecond
	defaultRetryMaxWait = time.Second
)

// HTTPReader reads content documents from the headless CMS over HTTP
type HTTPReader struct {
	client *resty.Client
	logger *zap.Logger
}

// NewHTTPReader creates a CMS client.
// baseURL is the CMS API root, token is sent as a bearer token when not empty.
func NewHTTPReader(baseURL, token string, timeout time.Duration, logger *zap.Logger) *HTTPReader {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(defaultRetryCount).
		SetRetryWaitTime(defaultRetryWait).
		SetRetryMaxWaitTime(defaultRetryMaxWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	if token != "" {
		client.SetAuthToken(token)
	}

	return &HTTPReader{
		client: client,
		logger: logger,
	}
}

// FetchCourseStructure fetches a course with its ordered modules and lessons
func (r *HTTPReader) FetchCourseStructure(ctx context.Context, courseID string) (*models.Course, error) {
	var course models.Course
	if err := r.get(ctx, "/courses/{id}", courseID, &course); err != nil {
		return nil, fmt.Errorf("failed to fetch course %q: %w", courseID, err)
	}
	if course.ID == "" {
		course.ID = courseID
	}
	return &course, nil
}

// FetchQuiz fetches a quiz definition
func (r *HTTPReader) FetchQuiz(ctx context.Context, quizID string) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := r.get(ctx, "/quizzes/{id}", quizID, &quiz); err != nil {
		return nil, fmt.Errorf("failed to fetch quiz %q: %w", quizID, err)
	}
	if quiz.ID == "" {
		quiz.ID = quizID
	}
	return &quiz, nil
}

// FetchActivity fetches a matching activity definition
func (r *HTTPReader) FetchActivity(ctx context.Context, activityID string) (*models.Activity, error) {
	var activity models.Activity
	if err := r.get(ctx, "/activities/{id}", activityID, &activity); err != nil {
		return nil, fmt.Errorf("failed to fetch activity %q: %w", activityID, err)
	}
	if activity.ID == "" {
		activity.ID = activityID
	}
	return &activity, nil
}

func (r *HTTPReader) get(ctx context.Context, path, id string, out interface{}) error {
	if id == "" {
		return models.ErrNotFound
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		Get(path)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.logger.Warn("content service request failed", zap.String("path", path), zap.String("id", id), zap.Error(err))
		return fmt.Errorf("%w: %v", models.ErrTransientIO, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return models.ErrNotFound
	case resp.IsError():
		r.logger.Warn("content service returned error status",
			zap.String("path", path),
			zap.String("id", id),
			zap.Int("status", resp.StatusCode()),
		)
		return fmt.Errorf("%w: status %d", models.ErrTransientIO, resp.StatusCode())
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: invalid response body: %v", models.ErrTransientIO, err)
	}
	return nil
}
