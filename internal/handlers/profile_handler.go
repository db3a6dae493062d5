package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/japanesestudent/progress-service/internal/models"
	"go.uber.org/zap"
)

// ProfileService is the interface that wraps the learner profile lookup
type ProfileService interface {
	// GetProfile returns the profile of a user, creating it on first access
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

// ProfileHandler handles HTTP requests for learner profiles
type ProfileHandler struct {
	BaseHandler
	service ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(svc ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all profile handler routes
func (h *ProfileHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.With(authMiddleware).Get("/profile", h.GetProfile)
}

// GetProfile handles GET /profile
// @Summary Get learner profile
// @Description Get the learner profile of the authenticated user, created on first access. Requires authentication.
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Profile "Learner profile"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/profile [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get profile")
		return
	}

	h.RespondJSON(w, http.StatusOK, profile)
}
