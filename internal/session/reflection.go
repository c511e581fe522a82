package session

import (
	"context"
	"fmt"

	"github.com/benvon/joyjar/internal/derive"
	"github.com/benvon/joyjar/internal/engine"
	"github.com/benvon/joyjar/internal/logger"
	"github.com/benvon/joyjar/internal/models"
	"github.com/benvon/joyjar/internal/reflection"
	"go.uber.org/zap"
)

// ReflectionOutcome is the result of one RequestReflection call
type ReflectionOutcome struct {
	Token  string
	Period models.TimeWindow
	// Text is the reflection, or a display-only message when Err is set
	Text string
	// Analysis is the history entry that was recorded, if any
	Analysis *models.AIAnalysis
	Err      error
	// Discarded is set when a newer request or a period change superseded this one
	Discarded bool
}

// SelectAnalysisPeriod changes the period reflections are requested for.
// Results of requests issued for another period are discarded on arrival.
func (s *Session) SelectAnalysisPeriod(period models.TimeWindow) error {
	if !period.Valid() {
		return fmt.Errorf("invalid analysis period %q", period)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedPeriod = period
	return nil
}

// SelectedAnalysisPeriod returns the currently selected period
func (s *Session) SelectedAnalysisPeriod() models.TimeWindow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedPeriod
}

// CancelReflection forgets the in-flight request so its result is discarded
func (s *Session) CancelReflection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeToken = ""
}

// RequestReflection selects period and asks the summarizer about the wins in
// it without holding the state lock. The returned channel yields exactly one
// outcome. Only the outcome of the most recent request, arriving while its
// period is still selected, is added to the analysis history; failures are
// never recorded.
func (s *Session) RequestReflection(ctx context.Context, period models.TimeWindow) (string, <-chan ReflectionOutcome, error) {
	if !period.Valid() {
		return "", nil, fmt.Errorf("invalid analysis period %q", period)
	}

	s.mu.Lock()
	token := s.newToken()
	s.selectedPeriod = period
	s.activeToken = token
	wins := derive.WinsInWindow(s.state.Wins, period, s.now())
	s.mu.Unlock()

	s.log.Debug("reflection_requested",
		zap.String("token", token),
		zap.String("period", string(period)),
		zap.Int("wins", len(wins)),
	)

	out := make(chan ReflectionOutcome, 1)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer close(out)
		text, err := s.summarizer.Summarize(ctx, wins, period.Label())
		out <- s.completeReflection(ctx, token, period, wins, text, err)
	}()
	return token, out, nil
}

// Wait blocks until every in-flight reflection has completed
func (s *Session) Wait() {
	s.inflight.Wait()
}

func (s *Session) completeReflection(ctx context.Context, token string, period models.TimeWindow, wins []models.Win, text string, err error) ReflectionOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := ReflectionOutcome{Token: token, Period: period, Text: text}

	if token != s.activeToken || period != s.selectedPeriod {
		outcome.Discarded = true
		s.log.Info("reflection_result_discarded",
			zap.String("token", token),
			zap.String("period", string(period)),
			zap.String("selected_period", string(s.selectedPeriod)),
		)
		return outcome
	}
	s.activeToken = ""

	if err != nil {
		outcome.Err = err
		outcome.Text = reflection.UserMessage(err)
		s.log.Warn("reflection_failed",
			zap.String("token", token),
			zap.String("error", logger.SanitizeError(err)),
		)
		return outcome
	}

	// the no-wins nudge is shown but not kept as an analysis
	if len(wins) == 0 {
		return outcome
	}

	next, entry := s.engine.AddAnalysis(s.state, engine.NewAnalysis(period, wins, text, s.now()))
	// the request context may already be done; the save must still happen
	s.commit(context.WithoutCancel(ctx), next)
	outcome.Analysis = &entry
	s.log.Info("reflection_recorded",
		zap.String("analysis_id", entry.ID),
		zap.String("period", string(period)),
		zap.Int("wins", entry.WinsAnalyzedCount),
	)
	return outcome
}
