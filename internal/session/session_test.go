package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/benvon/joyjar/internal/derive"
	"github.com/benvon/joyjar/internal/engine"
	"github.com/benvon/joyjar/internal/models"
	"github.com/benvon/joyjar/internal/reflection"
	"github.com/benvon/joyjar/internal/storage"
	"github.com/benvon/joyjar/internal/store"
	"github.com/benvon/joyjar/internal/transfer"
	"github.com/tidwall/gjson"
)

var fixedNow = time.Date(2024, 5, 12, 15, 30, 0, 0, time.UTC)

func today() models.Date {
	return models.DateOf(fixedNow)
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// mockPersister is a Persister with overridable behaviour
type mockPersister struct {
	loadFunc func(ctx context.Context) models.AppState
	saveFunc func(ctx context.Context, state models.AppState) (models.AppState, error)
	saves    int
}

func (m *mockPersister) Load(ctx context.Context) models.AppState {
	if m.loadFunc != nil {
		return m.loadFunc(ctx)
	}
	return models.EmptyState(fixedNow)
}

func (m *mockPersister) Save(ctx context.Context, state models.AppState) (models.AppState, error) {
	m.saves++
	if m.saveFunc != nil {
		return m.saveFunc(ctx, state)
	}
	return state, nil
}

func newTestSession(t *testing.T, slot storage.Slot, summarizer reflection.Summarizer) *Session {
	t.Helper()
	gw := store.New(slot, nil, store.WithClock(func() time.Time { return fixedNow }))
	return New(context.Background(), gw, summarizer, nil,
		WithClock(func() time.Time { return fixedNow }),
		WithEngine(engine.New(engine.WithIDFunc(sequentialIDs("id")))),
		WithTokenFunc(sequentialIDs("token")),
	)
}

func validInput(title, category string) models.WinInput {
	return models.WinInput{
		Date:     today(),
		Title:    title,
		Category: category,
		Tags:     []string{"focus"},
		Mood:     4,
		Effort:   3,
	}
}

func TestSession_LoadsSeedAndWritesThrough(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	slot := storage.NewMemorySlot()
	s := newTestSession(t, slot, nil)

	if got := len(s.Snapshot().Wins); got != 6 {
		t.Fatalf("Expected 6 seeded wins, got %d", got)
	}
	if _, err := slot.Read(ctx); !errors.Is(err, storage.ErrSlotEmpty) {
		t.Error("Expected loading alone not to write")
	}

	win, err := s.AddWin(ctx, validInput("Shipped the release", "Work"))
	if err != nil {
		t.Fatalf("AddWin failed: %v", err)
	}
	if win.ID != "id-1" {
		t.Errorf("Expected id-1, got %s", win.ID)
	}

	doc, err := slot.Read(ctx)
	if err != nil {
		t.Fatalf("Expected state to be saved, got %v", err)
	}
	if gjson.GetBytes(doc, "wins.#").Int() != 7 || gjson.GetBytes(doc, "wins.0.id").String() != "id-1" {
		t.Errorf("Expected saved document to contain the new win first, got %s", gjson.GetBytes(doc, "wins.0").Raw)
	}
}

func TestSession_InvalidWinIsNotSaved(t *testing.T) {
	t.Parallel()

	p := &mockPersister{}
	s := New(context.Background(), p, nil, nil)

	_, err := s.AddWin(context.Background(), models.WinInput{Date: today(), Title: "  ", Mood: 3, Effort: 3})
	if !errors.Is(err, models.ErrInvalidWin) {
		t.Errorf("Expected ErrInvalidWin, got %v", err)
	}
	if p.saves != 0 {
		t.Errorf("Expected no save, got %d", p.saves)
	}
	if len(s.Snapshot().Wins) != 0 {
		t.Error("Expected no win to be added")
	}
}

func TestSession_NonFiniteCostKeepsJournalSavable(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, storage.NewMemorySlot(), nil)

	for _, cost := range []float64{math.Inf(1), math.NaN()} {
		in := validInput("Bought the moon", "Money")
		in.Cost = cost
		if _, err := s.AddWin(context.Background(), in); !errors.Is(err, models.ErrInvalidWin) {
			t.Errorf("Expected ErrInvalidWin for cost %v, got %v", cost, err)
		}
	}

	if _, err := s.AddWin(context.Background(), validInput("Paid rent", "Money")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := s.LastSaveError(); err != nil {
		t.Errorf("Expected save to succeed, got %v", err)
	}
	if _, err := s.Export(); err != nil {
		t.Errorf("Expected export to succeed, got %v", err)
	}
}

func TestSession_SaveFailureKeepsMemoryState(t *testing.T) {
	t.Parallel()

	saveErr := fmt.Errorf("%w: quota", models.ErrStorageUnavailable)
	p := &mockPersister{saveFunc: func(ctx context.Context, state models.AppState) (models.AppState, error) {
		return state, saveErr
	}}
	s := New(context.Background(), p, nil, nil)

	if _, err := s.AddWin(context.Background(), validInput("Still counts", "")); err != nil {
		t.Fatalf("Expected save failure not to surface from AddWin, got %v", err)
	}
	if len(s.Snapshot().Wins) != 1 {
		t.Error("Expected in-memory state to keep the win")
	}
	if !errors.Is(s.LastSaveError(), models.ErrStorageUnavailable) {
		t.Errorf("Expected LastSaveError to report the failure, got %v", s.LastSaveError())
	}
}

func TestSession_CategoryAndTagMutations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := &mockPersister{}
	s := New(ctx, p, nil, nil)

	if _, err := s.AddWin(ctx, validInput("Gym", "Health")); err != nil {
		t.Fatalf("AddWin failed: %v", err)
	}

	if err := s.DeleteCategory(ctx, models.OtherCategory); !errors.Is(err, models.ErrProtectedCategory) {
		t.Errorf("Expected ErrProtectedCategory, got %v", err)
	}
	savesBefore := p.saves
	if err := s.DeleteCategory(ctx, "Health"); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}
	state := s.Snapshot()
	if state.Wins[0].Category != models.OtherCategory || state.HasCategory("Health") {
		t.Errorf("Expected cascade to Other, got %+v / %v", state.Wins[0], state.Categories)
	}
	if p.saves != savesBefore+1 {
		t.Error("Expected one save for the delete")
	}

	if s.AddCategory(ctx, " work ") {
		t.Error("Expected case-insensitive duplicate to be ignored")
	}
	if !s.AddCategory(ctx, "Travel") {
		t.Error("Expected new category to be added")
	}

	s.DeleteTag(ctx, "focus")
	if tags := s.Tags(); len(tags) != 0 {
		t.Errorf("Expected no tags left, got %v", tags)
	}

	if s.DeleteWin(ctx, "missing") {
		t.Error("Expected unknown id to be a no-op")
	}
	if !s.DeleteWin(ctx, s.Snapshot().Wins[0].ID) {
		t.Error("Expected win to be deleted")
	}

	if err := s.UpdateSettings(ctx, models.Settings{RitualText: "Smile", DailyReminder: "noon"}); err == nil {
		t.Error("Expected invalid reminder to be rejected")
	}
	if err := s.UpdateSettings(ctx, models.Settings{RitualText: "Smile", DailyReminder: models.ReminderMorning}); err != nil {
		t.Errorf("UpdateSettings failed: %v", err)
	}
}

func TestSession_ImportExport(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(ctx, &mockPersister{}, nil, nil)
	if _, err := s.AddWin(ctx, validInput("Mine", "Work")); err != nil {
		t.Fatalf("AddWin failed: %v", err)
	}
	mine := s.Snapshot().Wins[0]

	doc := []byte(`{"version":"1","wins":[{"id":"` + mine.ID + `","date":"2024-01-01","title":"Theirs","tags":[],"category":"Work","mood":1,"effort":1,"cost":0},` +
		`{"id":"new","date":"2024-01-02","title":"New","tags":[],"category":"Garden","mood":2,"effort":2,"cost":0}],` +
		`"settings":{"ritualText":"x","dailyReminder":"none"},"categories":["Garden"]}`)

	summary, err := s.Import(ctx, doc, transfer.ModeMerge)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if summary.Added != 1 || summary.Skipped != 1 {
		t.Errorf("Unexpected summary %+v", summary)
	}
	state := s.Snapshot()
	if len(state.Wins) != 2 || state.Wins[0].Title != "Mine" || !state.HasCategory("Garden") {
		t.Errorf("Unexpected merged state %+v", state)
	}

	if _, err := s.Import(ctx, []byte("nope"), transfer.ModeReplace); !errors.Is(err, models.ErrInvalidFormat) {
		t.Errorf("Expected ErrInvalidFormat, got %v", err)
	}
	if len(s.Snapshot().Wins) != 2 {
		t.Error("Expected failed import to leave state unchanged")
	}

	exported, err := s.Export()
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if gjson.GetBytes(exported, "wins.#").Int() != 2 {
		t.Error("Expected export to contain both wins")
	}
}

func TestSession_ViewAndStats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(ctx, &mockPersister{}, nil, nil, WithClock(func() time.Time { return fixedNow }))

	inputs := []models.WinInput{
		{Date: today(), Title: "Deep work", Category: "Work", Mood: 4, Effort: 4},
		{Date: today().AddDays(-1), Title: "Run", Category: "Health", Mood: 5, Effort: 3},
		{Date: today().AddDays(-20), Title: "Old work", Category: "Work", Mood: 2, Effort: 2, Cost: 10},
	}
	for _, in := range inputs {
		if _, err := s.AddWin(ctx, in); err != nil {
			t.Fatalf("AddWin failed: %v", err)
		}
	}

	view := s.View(derive.Filter{Window: models.WindowLast7Days, Category: "Work"})
	if len(view) != 1 || view[0].Title != "Deep work" {
		t.Errorf("Expected only recent Work win, got %+v", view)
	}

	stats, err := s.Stats(models.WindowLast30Days)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Streak != 2 {
		t.Errorf("Expected streak 2, got %d", stats.Streak)
	}
	if stats.Totals.Wins != 3 || stats.Totals.TotalCost != 10 {
		t.Errorf("Unexpected totals %+v", stats.Totals)
	}
	if len(stats.Categories) != 2 || stats.Categories[0].Category != "Work" {
		t.Errorf("Unexpected distribution %+v", stats.Categories)
	}
	if len(stats.Series) != 3 {
		t.Errorf("Expected 3 series points, got %d", len(stats.Series))
	}

	if _, err := s.Stats("fortnight"); err == nil {
		t.Error("Expected invalid window to be rejected")
	}
}
