package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/japanesestudent/progress-service/internal/models"
	"go.uber.org/zap"
)

// QuizService is the interface that wraps methods for quiz attempts
type QuizService interface {
	// SubmitAttempt scores a submission and stores it as a new attempt
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the authenticated user.
	// "quizID" is the ID of the quiz.
	// "req" holds the selected option per question key and the optional lesson context.
	//
	// Returns the stored attempt and an error if any.
	SubmitAttempt(ctx context.Context, userID, quizID string, req *models.SubmitQuizRequest) (*models.SubmitQuizResponse, error)
	// ListAttempts retrieves the attempts of a user for a quiz, newest first
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the authenticated user.
	// "quizID" is the ID of the quiz.
	// "limit" is the maximum number of attempts to return, 0 for the default.
	//
	// Returns a list of attempts and an error if any.
	ListAttempts(ctx context.Context, userID, quizID string, limit int) ([]models.QuizAttempt, error)
}

// QuizHandler handles HTTP requests for quiz attempts
type QuizHandler struct {
	BaseHandler
	service QuizService
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(svc QuizService, logger *zap.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all quiz handler routes
func (h *QuizHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/quizzes", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/{quizId}/attempts", h.SubmitAttempt)
		r.Get("/{quizId}/attempts", h.ListAttempts)
	})
}

// SubmitAttempt handles POST /quizzes/{quizId}/attempts
// @Summary Submit a quiz attempt
// @Description Score the selected options of a quiz and store the attempt. Unanswered questions count as incorrect. Requires authentication.
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path string true "Quiz ID"
// @Param attempt body models.SubmitQuizRequest true "Selected option key per question key"
// @Success 201 {object} models.SubmitQuizResponse "Stored attempt"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Quiz not found"
// @Failure 503 {object} map[string]string "Content service unavailable"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/quizzes/{quizId}/attempts [post]
func (h *QuizHandler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req models.SubmitQuizRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.SubmitAttempt(r.Context(), userID, chi.URLParam(r, "quizId"), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to submit quiz attempt")
		return
	}

	h.RespondJSON(w, http.StatusCreated, resp)
}

// ListAttempts handles GET /quizzes/{quizId}/attempts
// @Summary List quiz attempts
// @Description Get the attempts of the authenticated user for a quiz, newest first. Requires authentication.
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path string true "Quiz ID"
// @Param limit query int false "Maximum number of attempts (default: 20, max: 100)"
// @Success 200 {array} models.QuizAttempt "List of attempts"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/quizzes/{quizId}/attempts [get]
func (h *QuizHandler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 {
			h.RespondError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = l
	}

	attempts, err := h.service.ListAttempts(r.Context(), userID, chi.URLParam(r, "quizId"), limit)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get quiz attempts")
		return
	}
	if attempts == nil {
		attempts = []models.QuizAttempt{}
	}

	h.RespondJSON(w, http.StatusOK, attempts)
}
