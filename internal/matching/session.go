// Package matching implements the drag-and-drop matching game.
//
// Session is an immutable value: every transition returns a new Session and leaves
// the receiver untouched, so a session can be replayed and tested without any timer.
// Game adds the timed auto-clear of incorrect drops on top of it.
package matching

import (
	"math/rand"

	"github.com/japanesestudent/progress-service/internal/models"
)

// Side identifies which half of a pair an item or target belongs to
type Side string

const (
	SideA Side = "itemA"
	SideB Side = "itemB"
)

// Complement returns the opposite side
func (s Side) Complement() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// State is the visual state of a draggable item
type State string

const (
	StateUnmatched      State = "unmatched"
	StateMatched        State = "matched"
	StateFlashIncorrect State = "flash-incorrect"
)

// Outcome is the result of a drag-end event
type Outcome int

const (
	// OutcomeIgnored means the event did not change the session
	OutcomeIgnored Outcome = iota
	OutcomeMatched
	OutcomeIncorrect
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeIncorrect:
		return "incorrect"
	default:
		return "ignored"
	}
}

// Item is a draggable item
type Item struct {
	ID      string             `json:"id"`
	Side    Side               `json:"side"`
	PairKey string             `json:"pairKey"`
	Content models.TextOrImage `json:"content"`
}

// Target is a drop target
type Target struct {
	ID      string `json:"id"`
	Side    Side   `json:"side"`
	PairKey string `json:"pairKey"`
}

// Session is the state of one matching game
type Session struct {
	Title       string
	Instruction string
	Items       []Item
	Targets     []Target
	// Matches maps draggable IDs to the target they were correctly dropped on
	Matches map[string]string
	// Incorrect holds draggable IDs currently flashing as incorrect
	Incorrect map[string]struct{}
	// FlashGeneration increases with every incorrect drop
	FlashGeneration uint64
}

// NewSession builds a session from an activity. Each pair yields an item and the complementary
// target for every side that has content; a side with neither text nor image is skipped.
// Items and targets are shuffled independently with rng, a nil rng keeps definition order.
func NewSession(activity *models.Activity, rng *rand.Rand) Session {
	s := Session{
		Matches:   map[string]string{},
		Incorrect: map[string]struct{}{},
	}
	if activity == nil {
		return s
	}
	s.Title = activity.Title
	s.Instruction = activity.Instruction

	for _, pair := range activity.Pairs {
		if !pair.ItemA.IsEmpty() {
			s.Items = append(s.Items, Item{ID: ItemID(SideA, pair.Key), Side: SideA, PairKey: pair.Key, Content: *pair.ItemA})
			s.Targets = append(s.Targets, Target{ID: TargetID(SideB, pair.Key), Side: SideB, PairKey: pair.Key})
		}
		if !pair.ItemB.IsEmpty() {
			s.Items = append(s.Items, Item{ID: ItemID(SideB, pair.Key), Side: SideB, PairKey: pair.Key, Content: *pair.ItemB})
			s.Targets = append(s.Targets, Target{ID: TargetID(SideA, pair.Key), Side: SideA, PairKey: pair.Key})
		}
	}

	if rng != nil {
		rng.Shuffle(len(s.Items), func(i, j int) { s.Items[i], s.Items[j] = s.Items[j], s.Items[i] })
		rng.Shuffle(len(s.Targets), func(i, j int) { s.Targets[i], s.Targets[j] = s.Targets[j], s.Targets[i] })
	}
	return s
}

// ItemID returns the draggable ID for a side of a pair
func ItemID(side Side, pairKey string) string {
	return string(side) + "-" + pairKey
}

// TargetID returns the drop target ID for a side of a pair
func TargetID(side Side, pairKey string) string {
	if side == SideA {
		return "targetA-" + pairKey
	}
	return "targetB-" + pairKey
}

// DragEnd applies a drop of draggableID onto droppableID.
// Empty or unknown IDs and drops of an already matched item are ignored.
func (s Session) DragEnd(draggableID, droppableID string) (Session, Outcome) {
	if draggableID == "" || droppableID == "" {
		return s, OutcomeIgnored
	}
	item, ok := s.item(draggableID)
	if !ok {
		return s, OutcomeIgnored
	}
	target, ok := s.target(droppableID)
	if !ok {
		return s, OutcomeIgnored
	}
	if _, matched := s.Matches[draggableID]; matched {
		return s, OutcomeIgnored
	}

	next := s.clone()
	if target.Side == item.Side.Complement() && target.PairKey == item.PairKey {
		next.Matches[draggableID] = droppableID
		delete(next.Incorrect, draggableID)
		return next, OutcomeMatched
	}

	next.Incorrect[draggableID] = struct{}{}
	next.FlashGeneration++
	return next, OutcomeIncorrect
}

// ClearIncorrect empties the incorrect set if no incorrect drop happened after generation
func (s Session) ClearIncorrect(generation uint64) Session {
	if generation != s.FlashGeneration || len(s.Incorrect) == 0 {
		return s
	}
	next := s.clone()
	next.Incorrect = map[string]struct{}{}
	return next
}

// Solved reports whether every item has been matched
func (s Session) Solved() bool {
	if len(s.Items) == 0 {
		return false
	}
	for _, item := range s.Items {
		if _, ok := s.Matches[item.ID]; !ok {
			return false
		}
	}
	return true
}

// Unmatched returns the items still waiting to be matched, in display order
func (s Session) Unmatched() []Item {
	var items []Item
	for _, item := range s.Items {
		if _, ok := s.Matches[item.ID]; !ok {
			items = append(items, item)
		}
	}
	return items
}

// StateOf returns the state of a draggable item
func (s Session) StateOf(draggableID string) State {
	if _, ok := s.Matches[draggableID]; ok {
		return StateMatched
	}
	if _, ok := s.Incorrect[draggableID]; ok {
		return StateFlashIncorrect
	}
	return StateUnmatched
}

func (s Session) item(id string) (Item, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

func (s Session) target(id string) (Target, bool) {
	for _, target := range s.Targets {
		if target.ID == id {
			return target, true
		}
	}
	return Target{}, false
}

// clone copies the mutable maps, item and target slices are never mutated after construction
func (s Session) clone() Session {
	next := s
	next.Matches = make(map[string]string, len(s.Matches)+1)
	for k, v := range s.Matches {
		next.Matches[k] = v
	}
	next.Incorrect = make(map[string]struct{}, len(s.Incorrect)+1)
	for k := range s.Incorrect {
		next.Incorrect[k] = struct{}{}
	}
	return next
}
