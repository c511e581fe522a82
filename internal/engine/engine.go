// Package engine holds the state transitions of a journal. Every operation takes
// the current AppState and returns a new one; inputs are never modified in place.
package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/benvon/joyjar/internal/models"
	"github.com/benvon/joyjar/internal/validation"
	"github.com/google/uuid"
)

// Engine applies mutations. It carries only the id source, no state.
type Engine struct {
	newID func() string
}

// Option configures an Engine
type Option func(*Engine)

// WithIDFunc overrides the id generator (uuid v4 by default)
func WithIDFunc(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// New creates a new engine
func New(opts ...Option) *Engine {
	e := &Engine{newID: uuid.NewString}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddWin validates input and prepends a new win with a fresh id.
// Invalid input is rejected with an error matching models.ErrInvalidWin and the
// state is returned unchanged. A category that is empty or not in the list
// falls back to "Other".
func (e *Engine) AddWin(s models.AppState, input models.WinInput) (models.AppState, models.Win, error) {
	input = validation.NormalizeWinInput(input)
	if err := validation.ValidateWinInput(input); err != nil {
		return s, models.Win{}, err
	}

	category := input.Category
	if category == "" || !s.HasCategory(category) {
		category = models.OtherCategory
	}

	win := models.Win{
		ID:       e.newID(),
		Date:     input.Date,
		Title:    input.Title,
		Notes:    input.Notes,
		Tags:     input.Tags,
		Category: category,
		Mood:     input.Mood,
		Effort:   input.Effort,
		Cost:     input.Cost,
	}

	next := s.Clone()
	next.Wins = append([]models.Win{win.Clone()}, next.Wins...)
	return next, win, nil
}

// DeleteWin removes the win with the given id. Unknown ids are a no-op.
func (e *Engine) DeleteWin(s models.AppState, id string) models.AppState {
	next := s.Clone()
	wins := next.Wins[:0]
	for _, w := range next.Wins {
		if w.ID != id {
			wins = append(wins, w)
		}
	}
	next.Wins = wins
	return next
}

// UpdateSettings replaces the settings wholesale
func (e *Engine) UpdateSettings(s models.AppState, settings models.Settings) (models.AppState, error) {
	if err := validation.ValidateSettings(settings); err != nil {
		return s, err
	}
	next := s.Clone()
	next.Settings = settings
	return next, nil
}

// AddCategory inserts a trimmed category name and re-sorts the list.
// Empty names and case-insensitive duplicates are ignored; the bool reports
// whether the list changed.
func (e *Engine) AddCategory(s models.AppState, name string) (models.AppState, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, false
	}
	for _, c := range s.Categories {
		if strings.EqualFold(c, name) {
			return s, false
		}
	}
	next := s.Clone()
	next.Categories = append(next.Categories, name)
	sort.Strings(next.Categories)
	return next, true
}

// DeleteCategory reassigns every win in the category to "Other" and removes the
// category in a single transition. Deleting "Other" fails with
// models.ErrProtectedCategory.
func (e *Engine) DeleteCategory(s models.AppState, name string) (models.AppState, error) {
	if name == models.OtherCategory {
		return s, fmt.Errorf("cannot delete the %q category: %w", name, models.ErrProtectedCategory)
	}

	next := s.Clone()
	for i := range next.Wins {
		if next.Wins[i].Category == name {
			next.Wins[i].Category = models.OtherCategory
		}
	}
	categories := next.Categories[:0]
	for _, c := range next.Categories {
		if c != name {
			categories = append(categories, c)
		}
	}
	next.Categories = categories
	if !next.HasCategory(models.OtherCategory) {
		next.Categories = append(next.Categories, models.OtherCategory)
		sort.Strings(next.Categories)
	}
	return next, nil
}

// DeleteTag strips tag from every win. Wins themselves are kept.
func (e *Engine) DeleteTag(s models.AppState, tag string) models.AppState {
	next := s.Clone()
	for i := range next.Wins {
		tags := next.Wins[i].Tags[:0]
		for _, t := range next.Wins[i].Tags {
			if t != tag {
				tags = append(tags, t)
			}
		}
		next.Wins[i].Tags = tags
	}
	return next
}

// NewAnalysis builds an analysis record from the wins that fed it
func NewAnalysis(period models.TimeWindow, wins []models.Win, content string, now time.Time) models.AIAnalysis {
	ids := make([]string, 0, len(wins))
	for _, w := range wins {
		ids = append(ids, w.ID)
	}
	return models.AIAnalysis{
		Date:              now,
		Period:            period,
		WinsAnalyzedCount: len(wins),
		WinIDs:            ids,
		Content:           content,
	}
}

// AddAnalysis appends entry to the analysis history under a fresh id
func (e *Engine) AddAnalysis(s models.AppState, entry models.AIAnalysis) (models.AppState, models.AIAnalysis) {
	entry = entry.Clone()
	entry.ID = e.newID()
	next := s.Clone()
	next.AnalysisHistory = append(next.AnalysisHistory, entry)
	return next, entry
}

// DeleteAnalysis removes the analysis with the given id. Unknown ids are a no-op.
func (e *Engine) DeleteAnalysis(s models.AppState, id string) models.AppState {
	next := s.Clone()
	history := next.AnalysisHistory[:0]
	for _, a := range next.AnalysisHistory {
		if a.ID != id {
			history = append(history, a)
		}
	}
	next.AnalysisHistory = history
	return next
}
