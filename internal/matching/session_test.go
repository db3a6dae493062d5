package matching

import (
	"math/rand"
	"testing"

	"github.com/japanesestudent/progress-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(s string) *models.TextOrImage {
	return &models.TextOrImage{Text: s}
}

func testActivity() *models.Activity {
	return &models.Activity{
		ID:          "activity-1",
		Title:       "Festivals",
		Instruction: "Match each festival to its season",
		Pairs: []models.Pair{
			{Key: "p", ItemA: text("Hanami"), ItemB: text("Spring")},
			{Key: "q", ItemA: text("Tanabata"), ItemB: &models.TextOrImage{ImageURL: "https://cdn.example/summer.png", Alt: "Summer"}},
		},
	}
}

func TestNewSession(t *testing.T) {
	s := NewSession(testActivity(), nil)

	assert.Equal(t, "Festivals", s.Title)
	require.Len(t, s.Items, 4)
	require.Len(t, s.Targets, 4)

	assert.Equal(t, Item{ID: "itemA-p", Side: SideA, PairKey: "p", Content: models.TextOrImage{Text: "Hanami"}}, s.Items[0])
	assert.Equal(t, Target{ID: "targetB-p", Side: SideB, PairKey: "p"}, s.Targets[0])
	assert.Equal(t, "itemB-p", s.Items[1].ID)
	assert.Equal(t, Target{ID: "targetA-p", Side: SideA, PairKey: "p"}, s.Targets[1])

	assert.Empty(t, s.Matches)
	assert.Empty(t, s.Incorrect)
	assert.False(t, s.Solved())
}

func TestNewSession_SkipsEmptySides(t *testing.T) {
	activity := &models.Activity{Pairs: []models.Pair{
		{Key: "p", ItemA: text("Hanami"), ItemB: nil},
		{Key: "q", ItemA: &models.TextOrImage{}, ItemB: &models.TextOrImage{}},
	}}

	s := NewSession(activity, nil)

	require.Len(t, s.Items, 1)
	require.Len(t, s.Targets, 1)
	assert.Equal(t, "itemA-p", s.Items[0].ID)
	assert.Equal(t, "targetB-p", s.Targets[0].ID)
}

func TestNewSession_ShuffleIsDeterministicForSeed(t *testing.T) {
	activity := &models.Activity{}
	for _, key := range []string{"a", "b", "c", "d", "e", "f"} {
		activity.Pairs = append(activity.Pairs, models.Pair{Key: key, ItemA: text(key + "1"), ItemB: text(key + "2")})
	}

	first := NewSession(activity, rand.New(rand.NewSource(42)))
	second := NewSession(activity, rand.New(rand.NewSource(42)))

	assert.Equal(t, first.Items, second.Items)
	assert.Equal(t, first.Targets, second.Targets)
	assert.ElementsMatch(t, NewSession(activity, nil).Items, first.Items)
}

func TestNewSession_NilActivity(t *testing.T) {
	s := NewSession(nil, nil)

	assert.Empty(t, s.Items)
	assert.False(t, s.Solved())
}

func TestSession_DragEnd(t *testing.T) {
	tests := []struct {
		name            string
		draggableID     string
		droppableID     string
		expectedOutcome Outcome
		expectMatch     bool
		expectIncorrect bool
	}{
		{name: "A item on B target of same pair", draggableID: "itemA-p", droppableID: "targetB-p", expectedOutcome: OutcomeMatched, expectMatch: true},
		{name: "B item on A target of same pair", draggableID: "itemB-p", droppableID: "targetA-p", expectedOutcome: OutcomeMatched, expectMatch: true},
		{name: "A item on B target of other pair", draggableID: "itemA-p", droppableID: "targetB-q", expectedOutcome: OutcomeIncorrect, expectIncorrect: true},
		{name: "A item on A target of same pair", draggableID: "itemA-p", droppableID: "targetA-p", expectedOutcome: OutcomeIncorrect, expectIncorrect: true},
		{name: "released outside any target", draggableID: "itemA-p", droppableID: "", expectedOutcome: OutcomeIgnored},
		{name: "no draggable", draggableID: "", droppableID: "targetB-p", expectedOutcome: OutcomeIgnored},
		{name: "unknown draggable", draggableID: "itemA-z", droppableID: "targetB-p", expectedOutcome: OutcomeIgnored},
		{name: "unknown target", draggableID: "itemA-p", droppableID: "targetB-z", expectedOutcome: OutcomeIgnored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(testActivity(), nil)

			next, outcome := s.DragEnd(tt.draggableID, tt.droppableID)

			assert.Equal(t, tt.expectedOutcome, outcome)
			_, matched := next.Matches[tt.draggableID]
			assert.Equal(t, tt.expectMatch, matched)
			_, incorrect := next.Incorrect[tt.draggableID]
			assert.Equal(t, tt.expectIncorrect, incorrect)

			// the receiver is never mutated
			assert.Empty(t, s.Matches)
			assert.Empty(t, s.Incorrect)
		})
	}
}

func TestSession_IncorrectLeavesMatchesUntouched(t *testing.T) {
	s := NewSession(testActivity(), nil)
	s, _ = s.DragEnd("itemA-q", "targetB-q")

	next, outcome := s.DragEnd("itemA-p", "targetB-q")

	assert.Equal(t, OutcomeIncorrect, outcome)
	assert.Equal(t, map[string]string{"itemA-q": "targetB-q"}, next.Matches)
	assert.Equal(t, uint64(1), next.FlashGeneration)
	assert.Equal(t, StateFlashIncorrect, next.StateOf("itemA-p"))
}

func TestSession_MatchedIsTerminal(t *testing.T) {
	s := NewSession(testActivity(), nil)
	s, _ = s.DragEnd("itemA-p", "targetB-p")

	next, outcome := s.DragEnd("itemA-p", "targetB-q")

	assert.Equal(t, OutcomeIgnored, outcome)
	assert.Equal(t, StateMatched, next.StateOf("itemA-p"))
	assert.Empty(t, next.Incorrect)
}

func TestSession_MatchRemovesItemFromUnmatched(t *testing.T) {
	s := NewSession(testActivity(), nil)
	require.Len(t, s.Unmatched(), 4)

	s, _ = s.DragEnd("itemA-p", "targetB-p")

	unmatched := s.Unmatched()
	require.Len(t, unmatched, 3)
	for _, item := range unmatched {
		assert.NotEqual(t, "itemA-p", item.ID)
	}
}

func TestSession_Solved(t *testing.T) {
	s := NewSession(testActivity(), rand.New(rand.NewSource(7)))

	for _, drop := range [][2]string{
		{"itemA-p", "targetB-p"},
		{"itemB-p", "targetA-p"},
		{"itemA-q", "targetB-q"},
	} {
		s, _ = s.DragEnd(drop[0], drop[1])
		assert.False(t, s.Solved())
	}

	s, _ = s.DragEnd("itemB-q", "targetA-q")
	assert.True(t, s.Solved())
	assert.Empty(t, s.Unmatched())
}

func TestSession_ClearIncorrect(t *testing.T) {
	s := NewSession(testActivity(), nil)

	s, _ = s.DragEnd("itemA-p", "targetB-q")
	firstGeneration := s.FlashGeneration
	s, _ = s.DragEnd("itemB-p", "targetB-p")
	require.Len(t, s.Incorrect, 2)

	// a timer scheduled for the first drop must not clear the newer flag
	stale := s.ClearIncorrect(firstGeneration)
	assert.Len(t, stale.Incorrect, 2)

	cleared := s.ClearIncorrect(s.FlashGeneration)
	assert.Empty(t, cleared.Incorrect)
	assert.Equal(t, StateUnmatched, cleared.StateOf("itemA-p"))
	assert.Len(t, s.Incorrect, 2)
}

func TestSession_MatchAfterIncorrectClearsFlag(t *testing.T) {
	s := NewSession(testActivity(), nil)
	s, _ = s.DragEnd("itemA-p", "targetB-q")

	s, outcome := s.DragEnd("itemA-p", "targetB-p")

	assert.Equal(t, OutcomeMatched, outcome)
	assert.Equal(t, StateMatched, s.StateOf("itemA-p"))
	assert.NotContains(t, s.Incorrect, "itemA-p")
}

func TestSession_Snapshot(t *testing.T) {
	s := NewSession(testActivity(), nil)
	s, _ = s.DragEnd("itemA-p", "targetB-p")
	s, _ = s.DragEnd("itemB-q", "targetA-p")

	snap := s.Snapshot()

	assert.Equal(t, "Festivals", snap.Title)
	assert.Equal(t, []string{"itemB-q"}, snap.Incorrect)
	assert.Equal(t, map[string]string{"itemA-p": "targetB-p"}, snap.Matches)
	assert.False(t, snap.Solved)
	require.Len(t, snap.Items, 4)
	assert.Equal(t, StateMatched, snap.Items[0].State)

	snap.Matches["itemB-p"] = "targetA-p"
	assert.NotContains(t, s.Matches, "itemB-p")
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "matched", OutcomeMatched.String())
	assert.Equal(t, "incorrect", OutcomeIncorrect.String())
	assert.Equal(t, "ignored", OutcomeIgnored.String())
}
