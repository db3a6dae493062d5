package matching

import (
	"errors"
	"sync"
	"time"
)

// DefaultFlashDelay is how long an incorrect drop stays flagged
const DefaultFlashDelay = time.Second

// ErrGameClosed is returned for events delivered after Close
var ErrGameClosed = errors.New("matching game closed")

// Game owns a session and clears incorrect drops after a delay.
// It is safe for concurrent use.
type Game struct {
	mu      sync.Mutex
	session Session
	delay   time.Duration
	timer   *time.Timer
	closed  bool
}

// NewGame creates a game around session. A non-positive delay uses DefaultFlashDelay.
func NewGame(session Session, delay time.Duration) *Game {
	if delay <= 0 {
		delay = DefaultFlashDelay
	}
	return &Game{session: session, delay: delay}
}

// DragEnd applies a drop and returns the resulting snapshot.
// An incorrect drop (re)starts the clear timer for the current incorrect set.
func (g *Game) DragEnd(draggableID, droppableID string) (Snapshot, Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return Snapshot{}, OutcomeIgnored, ErrGameClosed
	}

	next, outcome := g.session.DragEnd(draggableID, droppableID)
	g.session = next

	if outcome == OutcomeIncorrect {
		if g.timer != nil {
			g.timer.Stop()
		}
		generation := next.FlashGeneration
		g.timer = time.AfterFunc(g.delay, func() { g.clear(generation) })
	}

	return g.session.Snapshot(), outcome, nil
}

// Snapshot returns the current state
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.Snapshot()
}

// Close stops the timer. A clear that fires afterwards is discarded.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.closed = true
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

func (g *Game) clear(generation uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}
	g.session = g.session.ClearIncorrect(generation)
}
