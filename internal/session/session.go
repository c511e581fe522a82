// Package session owns the running journal: one in-memory AppState behind a
// mutex, written through to the persistence gateway after every change.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/benvon/joyjar/internal/derive"
	"github.com/benvon/joyjar/internal/engine"
	"github.com/benvon/joyjar/internal/logger"
	"github.com/benvon/joyjar/internal/models"
	"github.com/benvon/joyjar/internal/reflection"
	"github.com/benvon/joyjar/internal/store"
	"github.com/benvon/joyjar/internal/transfer"
	"github.com/benvon/joyjar/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Persister loads and saves the journal
type Persister interface {
	Load(ctx context.Context) models.AppState
	Save(ctx context.Context, state models.AppState) (models.AppState, error)
}

var _ Persister = (*store.Gateway)(nil)

// DefaultAnalysisPeriod is the period selected for reflections until changed
const DefaultAnalysisPeriod = models.WindowLast7Days

// Session is the single writer of a journal
type Session struct {
	mu         sync.Mutex
	state      models.AppState
	persister  Persister
	engine     *engine.Engine
	summarizer reflection.Summarizer
	log        *zap.Logger
	now        func() time.Time
	newToken   func() string

	lastSaveErr error

	selectedPeriod models.TimeWindow
	activeToken    string
	inflight       sync.WaitGroup
}

// Option configures a Session
type Option func(*Session)

// WithClock overrides the clock used for date windows and analysis timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithEngine overrides the mutation engine
func WithEngine(e *engine.Engine) Option {
	return func(s *Session) {
		s.engine = e
	}
}

// WithTokenFunc overrides the reflection request token generator
func WithTokenFunc(fn func() string) Option {
	return func(s *Session) {
		s.newToken = fn
	}
}

// New loads the journal through p and returns a session over it. A nil
// summarizer means the offline one.
func New(ctx context.Context, p Persister, summarizer reflection.Summarizer, log *zap.Logger, opts ...Option) *Session {
	if summarizer == nil {
		summarizer = reflection.OfflineSummarizer{}
	}
	s := &Session{
		persister:      p,
		engine:         engine.New(),
		summarizer:     summarizer,
		log:            logger.OrNop(log),
		now:            time.Now,
		newToken:       uuid.NewString,
		selectedPeriod: DefaultAnalysisPeriod,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = p.Load(ctx)
	return s
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// LastSaveError returns the error of the most recent save, or nil if it succeeded.
// A failed save never rolls back the in-memory state.
func (s *Session) LastSaveError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaveErr
}

// commit installs next and writes it through. Callers hold s.mu.
func (s *Session) commit(ctx context.Context, next models.AppState) {
	saved, err := s.persister.Save(ctx, next)
	s.state = saved
	s.lastSaveErr = err
}

// AddWin validates and records a new win
func (s *Session) AddWin(ctx context.Context, input models.WinInput) (models.Win, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, win, err := s.engine.AddWin(s.state, input)
	if err != nil {
		return models.Win{}, err
	}
	s.commit(ctx, next)
	s.log.Debug("win_added",
		zap.String("win_id", win.ID),
		zap.String("title", logger.SanitizeTitle(win.Title)),
	)
	return win, nil
}

// DeleteWin removes a win. The caller is expected to have confirmed the delete.
// It reports whether a win was removed.
func (s *Session) DeleteWin(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.FindWin(id); !ok {
		return false
	}
	s.commit(ctx, s.engine.DeleteWin(s.state, id))
	return true
}

// UpdateSettings replaces the settings
func (s *Session) UpdateSettings(ctx context.Context, settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.engine.UpdateSettings(s.state, settings)
	if err != nil {
		return err
	}
	s.commit(ctx, next)
	return nil
}

// AddCategory adds a category and reports whether the list changed
func (s *Session) AddCategory(ctx context.Context, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, added := s.engine.AddCategory(s.state, name)
	if !added {
		return false
	}
	s.commit(ctx, next)
	return true
}

// DeleteCategory removes a category, moving its wins to "Other"
func (s *Session) DeleteCategory(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.engine.DeleteCategory(s.state, name)
	if err != nil {
		return err
	}
	s.commit(ctx, next)
	return nil
}

// DeleteTag strips tag from every win
func (s *Session) DeleteTag(ctx context.Context, tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(ctx, s.engine.DeleteTag(s.state, tag))
}

// DeleteAnalysis removes an analysis history entry
func (s *Session) DeleteAnalysis(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(ctx, s.engine.DeleteAnalysis(s.state, id))
}

// Import applies a backup document. On failure nothing changes.
func (s *Session) Import(ctx context.Context, doc []byte, mode transfer.Mode) (transfer.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, summary, err := transfer.Import(ctx, s.state, doc, mode)
	if err != nil {
		s.log.Info("import_rejected", zap.String("error", logger.SanitizeError(err)))
		return transfer.Summary{}, err
	}
	s.commit(ctx, next)
	s.log.Info("import_applied",
		zap.String("mode", string(summary.Mode)),
		zap.Int("found", summary.Found),
		zap.Int("added", summary.Added),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

// Export serializes the current state as a backup document
func (s *Session) Export() ([]byte, error) {
	return transfer.Export(s.Snapshot())
}

// View returns the wins matching f, newest first
func (s *Session) View(f derive.Filter) []models.Win {
	state := s.Snapshot()
	return derive.FilterWins(state.Wins, f, s.now())
}

// Tags returns every tag in use, sorted
func (s *Session) Tags() []string {
	return derive.AllTags(s.Snapshot().Wins)
}

// Stats is the statistics panel for one time window
type Stats struct {
	Window        models.TimeWindow      `json:"window"`
	Totals        derive.Totals          `json:"totals"`
	Streak        int                    `json:"streak"`
	LongestStreak int                    `json:"longestStreak"`
	Categories    []derive.CategoryShare `json:"categories"`
	Series        []derive.DailyScore    `json:"series"`
}

// Stats computes statistics over the wins in window. Streaks always look at every win.
func (s *Session) Stats(window models.TimeWindow) (Stats, error) {
	if err := validation.ValidateTimeWindow(string(window)); err != nil {
		return Stats{}, err
	}
	state := s.Snapshot()
	now := s.now()
	wins := derive.WinsInWindow(state.Wins, window, now)
	return Stats{
		Window:        window,
		Totals:        derive.Summarize(wins),
		Streak:        derive.ComputeStreak(state.Wins, now),
		LongestStreak: derive.LongestStreak(state.Wins, now),
		Categories:    derive.CategoryDistribution(wins, state.Categories),
		Series:        derive.MoodEffortTimeSeries(wins),
	}, nil
}
