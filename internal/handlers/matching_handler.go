package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/japanesestudent/progress-service/internal/models"
	"github.com/japanesestudent/progress-service/internal/services"
	"go.uber.org/zap"
)

// MatchingService is the interface that wraps methods for matching game sessions
type MatchingService interface {
	// StartSession loads an activity and starts a new shuffled session for a user
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the authenticated user.
	// "activityID" is the ID of the matching activity.
	//
	// Returns the new session and an error if any.
	StartSession(ctx context.Context, userID, activityID string) (*services.MatchingSession, error)
	// GetSession returns the current state of a session.
	// Sessions of other users are reported as not found.
	GetSession(ctx context.Context, userID, sessionID string) (*services.MatchingSession, error)
	// DragEnd applies a drop of a draggable item onto a drop target
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the authenticated user.
	// "sessionID" is the ID of the session.
	// "req" holds the draggable and droppable IDs, either may be empty for a cancelled drag.
	//
	// Returns the session after the drop with its outcome and an error if any.
	DragEnd(ctx context.Context, userID, sessionID string, req *models.DragEndRequest) (*services.MatchingSession, error)
	// EndSession stops a session and discards it
	EndSession(ctx context.Context, userID, sessionID string) error
}

// MatchingHandler handles HTTP requests for matching game sessions
type MatchingHandler struct {
	BaseHandler
	service MatchingService
}

// NewMatchingHandler creates a new matching handler
func NewMatchingHandler(svc MatchingService, logger *zap.Logger) *MatchingHandler {
	return &MatchingHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all matching handler routes
func (h *MatchingHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/activities/{activityId}/sessions", h.StartSession)
		r.Route("/matching-sessions/{sessionId}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.EndSession)
			r.Post("/drag-end", h.DragEnd)
		})
	})
}

// StartSession handles POST /activities/{activityId}/sessions
// @Summary Start a matching session
// @Description Load a matching activity and start a new session with shuffled items and targets. Requires authentication.
// @Tags matching
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param activityId path string true "Activity ID"
// @Success 201 {object} services.MatchingSession "New session"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Activity not found"
// @Failure 503 {object} map[string]string "Content service unavailable"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/activities/{activityId}/sessions [post]
func (h *MatchingHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	session, err := h.service.StartSession(r.Context(), userID, chi.URLParam(r, "activityId"))
	if err != nil {
		h.RespondServiceError(w, err, "failed to start matching session")
		return
	}

	h.RespondJSON(w, http.StatusCreated, session)
}

// GetSession handles GET /matching-sessions/{sessionId}
// @Summary Get a matching session
// @Description Get the current state of a matching session. Requires authentication.
// @Tags matching
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param sessionId path string true "Session ID"
// @Success 200 {object} services.MatchingSession "Session state"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /api/v1/matching-sessions/{sessionId} [get]
func (h *MatchingHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	session, err := h.service.GetSession(r.Context(), userID, chi.URLParam(r, "sessionId"))
	if err != nil {
		h.RespondServiceError(w, err, "failed to get matching session")
		return
	}

	h.RespondJSON(w, http.StatusOK, session)
}

// DragEnd handles POST /matching-sessions/{sessionId}/drag-end
// @Summary Drop an item on a target
// @Description Apply a drag-end event. Empty or unknown IDs and drops of matched items are ignored. Requires authentication.
// @Tags matching
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param sessionId path string true "Session ID"
// @Param event body models.DragEndRequest true "Drag-end event"
// @Success 200 {object} services.MatchingSession "Session state with the drop outcome"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /api/v1/matching-sessions/{sessionId}/drag-end [post]
func (h *MatchingHandler) DragEnd(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req models.DragEndRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	session, err := h.service.DragEnd(r.Context(), userID, chi.URLParam(r, "sessionId"), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to apply drag-end event")
		return
	}

	h.RespondJSON(w, http.StatusOK, session)
}

// EndSession handles DELETE /matching-sessions/{sessionId}
// @Summary End a matching session
// @Description Stop and discard a matching session. Requires authentication.
// @Tags matching
// @Security ApiKeyAuth
// @Param sessionId path string true "Session ID"
// @Success 204 "Session ended"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /api/v1/matching-sessions/{sessionId} [delete]
func (h *MatchingHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.service.EndSession(r.Context(), userID, chi.URLParam(r, "sessionId")); err != nil {
		h.RespondServiceError(w, err, "failed to end matching session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
