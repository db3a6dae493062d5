package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/japanesestudent/progress-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHTTPReader(t *testing.T, handler http.HandlerFunc) *HTTPReader {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	reader := NewHTTPReader(server.URL, "cms-token", 2*time.Second, zap.NewNop())
	reader.client.SetRetryWaitTime(time.Millisecond).SetRetryMaxWaitTime(5 * time.Millisecond)
	return reader
}

func TestHTTPReader_FetchCourseStructure(t *testing.T) {
	reader := newTestHTTPReader(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/courses/course-1", r.URL.Path)
		assert.Equal(t, "Bearer cms-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "course-1",
			"slug": "japanese-101",
			"modules": [
				{"id": "M1", "title": "Kana", "lessons": [{"id": "L1", "title": "Hiragana", "slug": "hiragana"}]},
				{"id": "M2", "title": "Kanji", "lessons": [{"id": "L2", "title": "Radicals", "slug": "radicals"}]}
			]
		}`))
	})

	course, err := reader.FetchCourseStructure(context.Background(), "course-1")

	require.NoError(t, err)
	assert.Equal(t, "course-1", course.ID)
	assert.Equal(t, "japanese-101", course.Slug)
	require.Len(t, course.Modules, 2)
	assert.Equal(t, "L2", course.Modules[1].Lessons[0].ID)
}

func TestHTTPReader_FetchQuiz(t *testing.T) {
	reader := newTestHTTPReader(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quizzes/quiz-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"questions": [{"key": "q1", "text": "?", "options": [
			{"key": "a", "text": "A", "isCorrect": true, "explanation": "because"},
			{"key": "b", "text": "B"}
		]}]}`))
	})

	quiz, err := reader.FetchQuiz(context.Background(), "quiz-1")

	require.NoError(t, err)
	assert.Equal(t, "quiz-1", quiz.ID)
	require.Len(t, quiz.Questions, 1)
	assert.True(t, quiz.Questions[0].Options[0].IsCorrect)
	assert.Equal(t, "because", quiz.Questions[0].Options[0].Explanation)
}

func TestHTTPReader_FetchActivity(t *testing.T) {
	reader := newTestHTTPReader(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activities/act-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": "act-1", "title": "Festivals", "pairs": [
			{"key": "p", "itemA": {"text": "Hanami"}, "itemB": {"imageUrl": "https://cdn.example/spring.png"}}
		]}`))
	})

	activity, err := reader.FetchActivity(context.Background(), "act-1")

	require.NoError(t, err)
	require.Len(t, activity.Pairs, 1)
	assert.Equal(t, "Hanami", activity.Pairs[0].ItemA.Text)
	assert.Equal(t, "https://cdn.example/spring.png", activity.Pairs[0].ItemB.ImageURL)
}

func TestHTTPReader_Errors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		expectedError error
		expectedCalls int32
	}{
		{name: "not found", status: http.StatusNotFound, expectedError: models.ErrNotFound, expectedCalls: 1},
		{name: "server error is retried", status: http.StatusBadGateway, expectedError: models.ErrTransientIO, expectedCalls: 3},
		{name: "client error", status: http.StatusForbidden, expectedError: models.ErrTransientIO, expectedCalls: 1},
		{name: "malformed body", status: http.StatusOK, body: "{", expectedError: models.ErrTransientIO, expectedCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			reader := newTestHTTPReader(t, func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			course, err := reader.FetchCourseStructure(context.Background(), "course-1")

			assert.Nil(t, course)
			assert.ErrorIs(t, err, tt.expectedError)
			assert.Equal(t, tt.expectedCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestHTTPReader_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	reader := NewHTTPReader(url, "", time.Second, zap.NewNop())
	reader.client.SetRetryCount(0)

	_, err := reader.FetchQuiz(context.Background(), "quiz-1")

	assert.ErrorIs(t, err, models.ErrTransientIO)
}

func TestHTTPReader_EmptyID(t *testing.T) {
	reader := newTestHTTPReader(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := reader.FetchActivity(context.Background(), "")

	assert.ErrorIs(t, err, models.ErrNotFound)
}
