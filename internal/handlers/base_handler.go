package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/japanesestudent/progress-service/internal/middleware"
	"github.com/japanesestudent/progress-service/internal/models"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// RespondServiceError maps a service error to a status code and sends it.
// Unexpected errors are logged and answered with a generic message.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, models.ErrNotAuthenticated):
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, models.ErrNotFound):
		h.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrInvalidInput):
		h.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrTransientIO):
		h.Logger.Warn(message, zap.Error(err))
		h.RespondError(w, http.StatusServiceUnavailable, "content service unavailable, try again later")
	default:
		h.Logger.Error(message, zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, message)
	}
}

// userID extracts the authenticated user ID, answering 401 when it is missing
func (h *BaseHandler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return "", false
	}
	return userID, true
}

// decodeJSON decodes the request body into dst, answering 400 on malformed input
func (h *BaseHandler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
