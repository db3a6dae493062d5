package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/japanesestudent/progress-service/internal/matching"
	"github.com/japanesestudent/progress-service/internal/models"
	"go.uber.org/zap"
)

// DefaultSessionIdleTimeout is how long an untouched matching session is kept
const DefaultSessionIdleTimeout = time.Hour

// MatchingSession is the state of a matching session as returned to clients
type MatchingSession struct {
	ID         string `json:"id"`
	ActivityID string `json:"activityId"`
	// Outcome is set for drag-end responses only
	Outcome string `json:"outcome,omitempty"`
	matching.Snapshot
}

type matchingEntry struct {
	game       *matching.Game
	userID     string
	activityID string
	lastUsed   time.Time
}

type matchingService struct {
	content     ContentReader
	flashDelay  time.Duration
	idleTimeout time.Duration
	logger      *zap.Logger
	newRand     func() *rand.Rand
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*matchingEntry
}

// NewMatchingService creates a new matching game service
func NewMatchingService(content ContentReader, flashDelay time.Duration, logger *zap.Logger) *matchingService {
	return &matchingService{
		content:     content,
		flashDelay:  flashDelay,
		idleTimeout: DefaultSessionIdleTimeout,
		logger:      logger,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		now:      time.Now,
		sessions: make(map[string]*matchingEntry),
	}
}

// StartSession loads an activity and starts a new shuffled matching session for the user
func (s *matchingService) StartSession(ctx context.Context, userID, activityID string) (*MatchingSession, error) {
	if userID == "" {
		return nil, models.ErrNotAuthenticated
	}

	activity, err := s.content.FetchActivity(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	// The caller went away while the activity was loading, drop the result
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	session := matching.NewSession(activity, s.newRand())
	entry := &matchingEntry{
		game:       matching.NewGame(session, s.flashDelay),
		userID:     userID,
		activityID: activityID,
		lastUsed:   s.now(),
	}
	id := uuid.NewString()

	s.mu.Lock()
	s.pruneLocked()
	s.sessions[id] = entry
	s.mu.Unlock()

	s.logger.Debug("matching session started",
		zap.String("session_id", id),
		zap.String("activity_id", activityID),
		zap.Int("items", len(session.Items)),
	)

	return &MatchingSession{ID: id, ActivityID: activityID, Snapshot: entry.game.Snapshot()}, nil
}

// GetSession returns the current state of a session owned by the user
func (s *matchingService) GetSession(ctx context.Context, userID, sessionID string) (*MatchingSession, error) {
	entry, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	return &MatchingSession{ID: sessionID, ActivityID: entry.activityID, Snapshot: entry.game.Snapshot()}, nil
}

// DragEnd applies a drop to a session owned by the user
func (s *matchingService) DragEnd(ctx context.Context, userID, sessionID string, req *models.DragEndRequest) (*MatchingSession, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: drag-end event is required", models.ErrInvalidInput)
	}

	entry, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}

	snapshot, outcome, err := entry.game.DragEnd(req.DraggableID, req.DroppableID)
	if err != nil {
		return nil, fmt.Errorf("matching session %q: %w", sessionID, models.ErrNotFound)
	}

	return &MatchingSession{
		ID:         sessionID,
		ActivityID: entry.activityID,
		Outcome:    outcome.String(),
		Snapshot:   snapshot,
	}, nil
}

// EndSession stops a session owned by the user and discards it
func (s *matchingService) EndSession(ctx context.Context, userID, sessionID string) error {
	entry, err := s.lookup(userID, sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	entry.game.Close()
	return nil
}

// Close stops every session
func (s *matchingService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.sessions {
		entry.game.Close()
		delete(s.sessions, id)
	}
}

// lookup returns a session of the user and marks it used.
// Sessions of other users are reported as not found.
func (s *matchingService) lookup(userID, sessionID string) (*matchingEntry, error) {
	if userID == "" {
		return nil, models.ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok || entry.userID != userID {
		return nil, fmt.Errorf("matching session %q: %w", sessionID, models.ErrNotFound)
	}
	entry.lastUsed = s.now()
	return entry, nil
}

func (s *matchingService) pruneLocked() {
	cutoff := s.now().Add(-s.idleTimeout)
	for id, entry := range s.sessions {
		if entry.lastUsed.Before(cutoff) {
			entry.game.Close()
			delete(s.sessions, id)
		}
	}
}
