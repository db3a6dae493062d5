package models

// Activity represents a matching activity delivered by the content service
type Activity struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Instruction string `json:"instruction,omitempty" yaml:"instruction"`
	Pairs       []Pair `json:"pairs" yaml:"pairs"`
}

// Pair represents two complementary items sharing a pair key
type Pair struct {
	Key   string       `json:"key" yaml:"key"`
	ItemA *TextOrImage `json:"itemA,omitempty" yaml:"itemA"`
	ItemB *TextOrImage `json:"itemB,omitempty" yaml:"itemB"`
}

// TextOrImage holds the content of a matching item
type TextOrImage struct {
	Text     string `json:"text,omitempty" yaml:"text"`
	ImageURL string `json:"imageUrl,omitempty" yaml:"imageUrl"`
	Alt      string `json:"alt,omitempty" yaml:"alt"`
}

// IsEmpty reports whether the item has neither text nor image
func (c *TextOrImage) IsEmpty() bool {
	return c == nil || (c.Text == "" && c.ImageURL == "")
}

// DragEndRequest represents a drop of a draggable item onto a target
type DragEndRequest struct {
	DraggableID string `json:"draggableId"`
	DroppableID string `json:"droppableId"`
}
