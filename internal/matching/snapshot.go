package matching

import "sort"

// ItemView is an item together with its current state
type ItemView struct {
	Item
	State State `json:"state"`
}

// Snapshot is a read-only view of a session suitable for serialization
type Snapshot struct {
	Title       string            `json:"title"`
	Instruction string            `json:"instruction,omitempty"`
	Items       []ItemView        `json:"items"`
	Targets     []Target          `json:"targets"`
	Matches     map[string]string `json:"matches"`
	Incorrect   []string          `json:"incorrect"`
	Solved      bool              `json:"solved"`
}

// Snapshot returns a copy of the session that shares no state with it
func (s Session) Snapshot() Snapshot {
	snap := Snapshot{
		Title:       s.Title,
		Instruction: s.Instruction,
		Items:       make([]ItemView, 0, len(s.Items)),
		Targets:     append([]Target{}, s.Targets...),
		Matches:     make(map[string]string, len(s.Matches)),
		Incorrect:   make([]string, 0, len(s.Incorrect)),
		Solved:      s.Solved(),
	}
	for _, item := range s.Items {
		snap.Items = append(snap.Items, ItemView{Item: item, State: s.StateOf(item.ID)})
	}
	for k, v := range s.Matches {
		snap.Matches[k] = v
	}
	for id := range s.Incorrect {
		snap.Incorrect = append(snap.Incorrect, id)
	}
	sort.Strings(snap.Incorrect)
	return snap
}
