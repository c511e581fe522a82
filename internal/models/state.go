package models

import "time"

// SchemaVersion is the only document version this build reads and writes
const SchemaVersion = "1"

// OtherCategory is the protected fallback category; it can never be deleted
const OtherCategory = "Other"

// AppState is the root aggregate and the single source of truth for a journal.
// Win order is not significant; views always re-sort by date.
type AppState struct {
	Wins            []Win        `json:"wins"`
	Settings        Settings     `json:"settings"`
	Categories      []string     `json:"categories"`
	AnalysisHistory []AIAnalysis `json:"analysisHistory"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
	Version         string       `json:"version"`
}

// DefaultCategories returns the built-in category seed list
func DefaultCategories() []string {
	return []string{
		"Work",
		"Health",
		"Relationships",
		"Faith/Spiritual",
		"Learning",
		"Money",
		"Home",
		OtherCategory,
	}
}

// Clone returns a deep copy so callers can transition state without
// affecting readers of the original.
func (s AppState) Clone() AppState {
	out := s
	out.Wins = make([]Win, len(s.Wins))
	for i, w := range s.Wins {
		out.Wins[i] = w.Clone()
	}
	out.Categories = append(make([]string, 0, len(s.Categories)), s.Categories...)
	out.AnalysisHistory = make([]AIAnalysis, len(s.AnalysisHistory))
	for i, a := range s.AnalysisHistory {
		out.AnalysisHistory[i] = a.Clone()
	}
	return out
}

// HasCategory reports whether name is in the category list (case-sensitive)
func (s AppState) HasCategory(name string) bool {
	for _, c := range s.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// FindWin returns the win with the given id
func (s AppState) FindWin(id string) (Win, bool) {
	for _, w := range s.Wins {
		if w.ID == id {
			return w, true
		}
	}
	return Win{}, false
}
