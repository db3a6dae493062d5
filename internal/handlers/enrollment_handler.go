package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/japanesestudent/progress-service/internal/models"
	"go.uber.org/zap"
)

// EnrollmentService is the interface that wraps methods for course enrollments
type EnrollmentService interface {
	// Enroll enrolls a user in a course
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the authenticated user.
	// "courseID" is the ID of the course.
	//
	// Returns the enrollment, whether it was created by this call, and an error if any.
	Enroll(ctx context.Context, userID, courseID string) (*models.Enrollment, bool, error)
	// GetEnrollment retrieves the enrollment of a user in a course
	GetEnrollment(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
	// ListEnrollments retrieves all enrollments of a user
	ListEnrollments(ctx context.Context, userID string) ([]models.Enrollment, error)
	// RefreshProgress recomputes the cached progress of an enrollment
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the enrolled user.
	// "courseID" is the ID of the course.
	//
	// Returns the refreshed percentage and an error if any.
	RefreshProgress(ctx context.Context, userID, courseID string) (int, error)
}

// RefreshProgressResponse is the response of the internal progress refresh endpoint
type RefreshProgressResponse struct {
	UserID             string `json:"userId"`
	CourseID           string `json:"courseId"`
	ProgressPercentage int    `json:"progressPercentage"`
}

// EnrollmentHandler handles HTTP requests for course enrollments
type EnrollmentHandler struct {
	BaseHandler
	service EnrollmentService
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(svc EnrollmentService, logger *zap.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all user facing enrollment routes
func (h *EnrollmentHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/courses/{courseId}/enrollment", h.Enroll)
		r.Get("/courses/{courseId}/enrollment", h.GetEnrollment)
		r.Get("/enrollments", h.ListEnrollments)
	})
}

// RegisterInternalRoutes registers the service-to-service enrollment routes
func (h *EnrollmentHandler) RegisterInternalRoutes(r chi.Router, apiKeyMiddleware func(http.Handler) http.Handler) {
	r.Route("/internal/enrollments", func(r chi.Router) {
		r.Use(apiKeyMiddleware)
		r.Post("/{userId}/{courseId}/refresh", h.RefreshProgress)
	})
}

// Enroll handles POST /courses/{courseId}/enrollment
// @Summary Enroll in a course
// @Description Enroll the authenticated user in a course. Enrolling again returns the existing enrollment. Requires authentication.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "Course ID"
// @Success 201 {object} models.Enrollment "Enrollment created"
// @Success 200 {object} models.Enrollment "Already enrolled"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 503 {object} map[string]string "Content service unavailable"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/courses/{courseId}/enrollment [post]
func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	enrollment, created, err := h.service.Enroll(r.Context(), userID, chi.URLParam(r, "courseId"))
	if err != nil {
		h.RespondServiceError(w, err, "failed to enroll")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.RespondJSON(w, status, enrollment)
}

// GetEnrollment handles GET /courses/{courseId}/enrollment
// @Summary Get an enrollment
// @Description Get the enrollment of the authenticated user in a course with its cached progress. Requires authentication.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} models.Enrollment "Enrollment"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not enrolled"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/courses/{courseId}/enrollment [get]
func (h *EnrollmentHandler) GetEnrollment(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	enrollment, err := h.service.GetEnrollment(r.Context(), userID, chi.URLParam(r, "courseId"))
	if err != nil {
		h.RespondServiceError(w, err, "failed to get enrollment")
		return
	}

	h.RespondJSON(w, http.StatusOK, enrollment)
}

// ListEnrollments handles GET /enrollments
// @Summary List enrollments
// @Description Get all enrollments of the authenticated user, newest first. Requires authentication.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Enrollment "List of enrollments (empty array if none)"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/enrollments [get]
func (h *EnrollmentHandler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	enrollments, err := h.service.ListEnrollments(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get enrollments")
		return
	}
	if enrollments == nil {
		enrollments = []models.Enrollment{}
	}

	h.RespondJSON(w, http.StatusOK, enrollments)
}

// RefreshProgress handles POST /internal/enrollments/{userId}/{courseId}/refresh
// @Summary Refresh enrollment progress
// @Description Recompute the cached progress of an enrollment. Requires an API key.
// @Tags internal
// @Produce json
// @Param X-API-Key header string true "API key"
// @Param userId path string true "User ID"
// @Param courseId path string true "Course ID"
// @Success 200 {object} RefreshProgressResponse "Refreshed progress"
// @Failure 401 {object} map[string]string "Invalid or missing API key"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 503 {object} map[string]string "Content service unavailable"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/internal/enrollments/{userId}/{courseId}/refresh [post]
func (h *EnrollmentHandler) RefreshProgress(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	courseID := chi.URLParam(r, "courseId")

	pct, err := h.service.RefreshProgress(r.Context(), userID, courseID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to refresh enrollment progress")
		return
	}

	h.RespondJSON(w, http.StatusOK, RefreshProgressResponse{
		UserID:             userID,
		CourseID:           courseID,
		ProgressPercentage: pct,
	})
}
