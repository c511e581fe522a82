package models

// Mood and effort are scored on a closed 1..5 scale
const (
	MinScore = 1
	MaxScore = 5
)

// Win is a single logged achievement. Wins are never edited in place after creation;
// the only post-creation changes are cascades (category reassignment, tag removal).
type Win struct {
	ID       string   `json:"id"`
	Date     Date     `json:"date"`
	Title    string   `json:"title"`
	Notes    string   `json:"notes,omitempty"`
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
	Mood     int      `json:"mood"`
	Effort   int      `json:"effort"`
	Cost     float64  `json:"cost"`
}

// WinInput is the payload for creating a new win
type WinInput struct {
	Date     Date     `json:"date" validate:"required"`
	Title    string   `json:"title" validate:"required,max=500"`
	Notes    string   `json:"notes,omitempty" validate:"max=10000"`
	Tags     []string `json:"tags" validate:"dive,max=100"`
	Category string   `json:"category" validate:"max=100"`
	Mood     int      `json:"mood" validate:"min=1,max=5"`
	Effort   int      `json:"effort" validate:"min=1,max=5"`
	Cost     float64  `json:"cost" validate:"gte=0,finite"`
}

// HasTag reports whether the win carries tag
func (w Win) HasTag(tag string) bool {
	for _, t := range w.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the win
func (w Win) Clone() Win {
	w.Tags = append([]string(nil), w.Tags...)
	if w.Tags == nil {
		w.Tags = []string{}
	}
	return w
}
