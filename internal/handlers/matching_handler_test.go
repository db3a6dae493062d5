package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/japanesestudent/progress-service/internal/matching"
	"github.com/japanesestudent/progress-service/internal/models"
	"github.com/japanesestudent/progress-service/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockMatchingService is a mock implementation of MatchingService
type mockMatchingService struct {
	session *services.MatchingSession
	err     error
	lastReq *models.DragEndRequest
	ended   []string
}

func (m *mockMatchingService) StartSession(ctx context.Context, userID, activityID string) (*services.MatchingSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func (m *mockMatchingService) GetSession(ctx context.Context, userID, sessionID string) (*services.MatchingSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func (m *mockMatchingService) DragEnd(ctx context.Context, userID, sessionID string, req *models.DragEndRequest) (*services.MatchingSession, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func (m *mockMatchingService) EndSession(ctx context.Context, userID, sessionID string) error {
	if m.err != nil {
		return m.err
	}
	m.ended = append(m.ended, sessionID)
	return nil
}

func testMatchingSession() *services.MatchingSession {
	return &services.MatchingSession{
		ID:         "session-1",
		ActivityID: "act-1",
		Snapshot: matching.Snapshot{
			Title: "Festivals",
			Items: []matching.ItemView{
				{Item: matching.Item{ID: "itemA-p", Side: matching.SideA, PairKey: "p"}, State: matching.StateUnmatched},
			},
			Targets:   []matching.Target{{ID: "targetB-p", Side: matching.SideB, PairKey: "p"}},
			Matches:   map[string]string{},
			Incorrect: []string{},
		},
	}
}

func TestMatchingHandler_StartSession(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		service        *mockMatchingService
		expectedStatus int
	}{
		{name: "success", userID: "user-1", service: &mockMatchingService{session: testMatchingSession()}, expectedStatus: http.StatusCreated},
		{name: "unauthenticated", userID: "", service: &mockMatchingService{}, expectedStatus: http.StatusUnauthorized},
		{name: "activity not found", userID: "user-1", service: &mockMatchingService{err: models.ErrNotFound}, expectedStatus: http.StatusNotFound},
		{name: "content unavailable", userID: "user-1", service: &mockMatchingService{err: models.ErrTransientIO}, expectedStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(NewMatchingHandler(tt.service, zap.NewNop()))

			w := doRequest(t, router, http.MethodPost, "/api/v1/activities/act-1/sessions", tt.userID, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusCreated {
				body := decodeBody[map[string]any](t, w)
				assert.Equal(t, "session-1", body["id"])
				assert.Equal(t, "Festivals", body["title"])
				assert.Len(t, body["items"], 1)
				assert.NotContains(t, body, "outcome")
			}
		})
	}
}

func TestMatchingHandler_GetSession(t *testing.T) {
	service := &mockMatchingService{session: testMatchingSession()}
	router := newTestRouter(NewMatchingHandler(service, zap.NewNop()))

	w := doRequest(t, router, http.MethodGet, "/api/v1/matching-sessions/session-1", "user-1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	service.err = models.ErrNotFound
	w = doRequest(t, router, http.MethodGet, "/api/v1/matching-sessions/session-1", "user-2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMatchingHandler_DragEnd(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		service        *mockMatchingService
		expectedStatus int
	}{
		{name: "matched", body: `{"draggableId":"itemA-p","droppableId":"targetB-p"}`, service: &mockMatchingService{session: testMatchingSession()}, expectedStatus: http.StatusOK},
		{name: "cancelled drag", body: `{"draggableId":"itemA-p"}`, service: &mockMatchingService{session: testMatchingSession()}, expectedStatus: http.StatusOK},
		{name: "malformed body", body: `not json`, service: &mockMatchingService{}, expectedStatus: http.StatusBadRequest},
		{name: "session not found", body: `{"draggableId":"itemA-p","droppableId":"targetB-p"}`, service: &mockMatchingService{err: models.ErrNotFound}, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(NewMatchingHandler(tt.service, zap.NewNop()))

			w := doRequest(t, router, http.MethodPost, "/api/v1/matching-sessions/session-1/drag-end", "user-1", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				require.NotNil(t, tt.service.lastReq)
				assert.Equal(t, "itemA-p", tt.service.lastReq.DraggableID)
			}
		})
	}
}

func TestMatchingHandler_EndSession(t *testing.T) {
	service := &mockMatchingService{}
	router := newTestRouter(NewMatchingHandler(service, zap.NewNop()))

	w := doRequest(t, router, http.MethodDelete, "/api/v1/matching-sessions/session-1", "user-1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"session-1"}, service.ended)

	w = doRequest(t, router, http.MethodDelete, "/api/v1/matching-sessions/session-1", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
