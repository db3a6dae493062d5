package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/japanesestudent/progress-service/internal/models"
	"go.uber.org/zap"
)

// ProgressService is the interface that wraps methods for course progress reads
type ProgressService interface {
	// ComputeProgress computes the progress of a user through a course
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the authenticated user.
	// "courseID" is the ID of the course.
	//
	// Returns the progress and an error if any.
	ComputeProgress(ctx context.Context, userID, courseID string) (*models.CourseProgress, error)
	// Navigation returns the lessons before and after a lesson of a course
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "lessonID" is the ID of the lesson.
	//
	// Returns the navigation and an error if any.
	Navigation(ctx context.Context, courseID, lessonID string) (*models.LessonNavigation, error)
}

// LessonCompletionService is the interface that wraps the lesson completion operation
type LessonCompletionService interface {
	// MarkComplete records a lesson of a course as completed by a user
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the authenticated user.
	// "courseID" is the ID of the course the lesson belongs to.
	// "lessonID" is the ID of the lesson.
	//
	// Returns the stored completion with the refreshed course progress and an error if any.
	MarkComplete(ctx context.Context, userID, courseID, lessonID string) (*models.CompleteLessonResponse, error)
}

// ProgressHandler handles HTTP requests for course progress and lesson completion
type ProgressHandler struct {
	BaseHandler
	progressService   ProgressService
	completionService LessonCompletionService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progressService ProgressService, completionService LessonCompletionService, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:       BaseHandler{Logger: logger},
		progressService:   progressService,
		completionService: completionService,
	}
}

// RegisterRoutes registers all progress handler routes
func (h *ProgressHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/courses/{courseId}/progress", h.GetProgress)
		r.Post("/courses/{courseId}/lessons/{lessonId}/complete", h.CompleteLesson)
		r.Get("/courses/{courseId}/lessons/{lessonId}/navigation", h.GetNavigation)
	})
}

// GetProgress handles GET /courses/{courseId}/progress
// @Summary Get course progress
// @Description Get the completion percentage of a course and the next lesson to study. Requires authentication.
// @Tags progress
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} models.CourseProgress "Course progress"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 503 {object} map[string]string "Content service unavailable"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/courses/{courseId}/progress [get]
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	progress, err := h.progressService.ComputeProgress(r.Context(), userID, chi.URLParam(r, "courseId"))
	if err != nil {
		h.RespondServiceError(w, err, "failed to get course progress")
		return
	}

	h.RespondJSON(w, http.StatusOK, progress)
}

// CompleteLesson handles POST /courses/{courseId}/lessons/{lessonId}/complete
// @Summary Complete a lesson
// @Description Mark a lesson as completed and return the refreshed course progress. Completing a lesson twice is allowed. Requires authentication.
// @Tags progress
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "Course ID"
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} models.CompleteLessonResponse "Stored completion and course progress"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Course or lesson not found"
// @Failure 503 {object} map[string]string "Content service unavailable"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/courses/{courseId}/lessons/{lessonId}/complete [post]
func (h *ProgressHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	resp, err := h.completionService.MarkComplete(r.Context(), userID, chi.URLParam(r, "courseId"), chi.URLParam(r, "lessonId"))
	if err != nil {
		h.RespondServiceError(w, err, "failed to complete lesson")
		return
	}

	h.RespondJSON(w, http.StatusOK, resp)
}

// GetNavigation handles GET /courses/{courseId}/lessons/{lessonId}/navigation
// @Summary Get lesson navigation
// @Description Get the previous and next lessons of a lesson in course order. Requires authentication.
// @Tags progress
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "Course ID"
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} models.LessonNavigation "Previous and next lessons"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Course or lesson not found"
// @Failure 503 {object} map[string]string "Content service unavailable"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/courses/{courseId}/lessons/{lessonId}/navigation [get]
func (h *ProgressHandler) GetNavigation(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.userID(w, r); !ok {
		return
	}

	nav, err := h.progressService.Navigation(r.Context(), chi.URLParam(r, "courseId"), chi.URLParam(r, "lessonId"))
	if err != nil {
		h.RespondServiceError(w, err, "failed to get lesson navigation")
		return
	}

	h.RespondJSON(w, http.StatusOK, nav)
}
