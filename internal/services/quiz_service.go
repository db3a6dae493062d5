package services

import (
	"context"
	"fmt"
	"time"

	"github.com/japanesestudent/progress-service/internal/models"
	"github.com/japanesestudent/progress-service/internal/quiz"
	"go.uber.org/zap"
)

const (
	defaultAttemptsLimit = 20
	maxAttemptsLimit     = 100
)

// AttemptRepository defines methods for quiz attempt data access
type AttemptRepository interface {
	// Create appends a quiz attempt
	//
	// "ctx" is the context for the request.
	// "attempt" is the attempt to store, its ID is set on success.
	//
	// Returns an error if any.
	Create(ctx context.Context, attempt *models.QuizAttempt) error
	// ListByUserAndQuiz retrieves the attempts of a user for a quiz, newest first
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "quizID" is the ID of the quiz.
	// "limit" is the maximum number of attempts to return.
	//
	// Returns the attempts and an error if any.
	ListByUserAndQuiz(ctx context.Context, userID, quizID string, limit int) ([]models.QuizAttempt, error)
}

// LessonCompleter defines the lesson completion used for passing quiz attempts
type LessonCompleter interface {
	// MarkComplete records that a user completed a lesson
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course the lesson belongs to.
	// "lessonID" is the ID of the lesson.
	//
	// Returns the completion with the updated progress and an error if any.
	MarkComplete(ctx context.Context, userID, courseID, lessonID string) (*models.CompleteLessonResponse, error)
}

type quizService struct {
	content      ContentReader
	attemptRepo  AttemptRepository
	completer    LessonCompleter
	passingScore int
	logger       *zap.Logger
	now          func() time.Time
}

// NewQuizService creates a new quiz service.
// A passingScore of 0 disables lesson completion from quiz attempts.
func NewQuizService(content ContentReader, attemptRepo AttemptRepository, completer LessonCompleter, passingScore int, logger *zap.Logger) *quizService {
	return &quizService{
		content:      content,
		attemptRepo:  attemptRepo,
		completer:    completer,
		passingScore: passingScore,
		logger:       logger,
		now:          time.Now,
	}
}

// SubmitAttempt scores a submission and stores exactly one attempt for it
func (s *quizService) SubmitAttempt(ctx context.Context, userID, quizID string, req *models.SubmitQuizRequest) (*models.SubmitQuizResponse, error) {
	if userID == "" {
		return nil, models.ErrNotAuthenticated
	}
	if req == nil {
		return nil, fmt.Errorf("%w: submission is required", models.ErrInvalidInput)
	}

	q, err := s.content.FetchQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	result := quiz.Score(q, req.Answers)
	if len(result.Unscoreable) > 0 {
		s.logger.Warn("quiz has questions without a correct option",
			zap.String("quiz_id", quizID),
			zap.Strings("questions", result.Unscoreable),
			zap.Error(models.ErrDefinitionIntegrity),
		)
	}

	attempt := models.QuizAttempt{
		UserID:      userID,
		QuizID:      quizID,
		LessonID:    req.LessonID,
		Score:       result.Score,
		Answers:     result.Answers,
		SubmittedAt: s.now().UTC(),
	}
	if err := s.attemptRepo.Create(ctx, &attempt); err != nil {
		return nil, fmt.Errorf("failed to save quiz attempt: %w", err)
	}

	response := &models.SubmitQuizResponse{Attempt: attempt}
	if s.passes(&attempt) && req.CourseID != nil {
		// The attempt is already stored, a completion failure must not fail the submission
		if _, err := s.completer.MarkComplete(ctx, userID, *req.CourseID, *req.LessonID); err != nil {
			s.logger.Warn("failed to complete lesson from quiz attempt",
				zap.String("user_id", userID),
				zap.String("quiz_id", quizID),
				zap.Int("attempt_id", attempt.ID),
				zap.Error(err),
			)
		} else {
			response.LessonCompleted = true
		}
	}

	return response, nil
}

// ListAttempts retrieves the attempts of a user for a quiz, newest first
func (s *quizService) ListAttempts(ctx context.Context, userID, quizID string, limit int) ([]models.QuizAttempt, error) {
	if userID == "" {
		return nil, models.ErrNotAuthenticated
	}
	if limit < 1 {
		limit = defaultAttemptsLimit
	}
	if limit > maxAttemptsLimit {
		limit = maxAttemptsLimit
	}

	attempts, err := s.attemptRepo.ListByUserAndQuiz(ctx, userID, quizID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz attempts: %w", err)
	}
	return attempts, nil
}

func (s *quizService) passes(attempt *models.QuizAttempt) bool {
	return s.passingScore > 0 &&
		s.completer != nil &&
		attempt.LessonID != nil &&
		attempt.Score >= s.passingScore
}
