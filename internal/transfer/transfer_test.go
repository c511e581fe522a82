package transfer

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/benvon/joyjar/internal/models"
	"github.com/benvon/joyjar/internal/schema"
)

var fixedNow = time.Date(2024, 5, 12, 9, 0, 0, 0, time.UTC)

func currentState() models.AppState {
	s := models.EmptyState(fixedNow)
	s.Wins = []models.Win{
		{ID: "a", Date: models.NewDate(2024, 5, 10), Title: "Original A", Tags: []string{"focus"}, Category: "Work", Mood: 4, Effort: 3},
	}
	s.Settings = models.Settings{RitualText: "Mine", DailyReminder: models.ReminderMorning}
	s.Categories = []string{"Other", "Work", "health"}
	s.AnalysisHistory = []models.AIAnalysis{
		{ID: "h1", Date: fixedNow, Period: models.WindowAll, WinsAnalyzedCount: 1, WinIDs: []string{"a"}, Content: "kept"},
	}
	return s
}

const importedDoc = `{
  "version": "1",
  "wins": [
    {"id": "a", "date": "2024-05-01", "title": "Imported A", "tags": [], "category": "Work", "mood": 1, "effort": 1, "cost": 0},
    {"id": "b", "date": "2024-05-02", "title": "Imported B", "tags": ["new"], "category": "Health", "mood": 5, "effort": 2, "cost": 3}
  ],
  "settings": {"ritualText": "Theirs", "dailyReminder": "9:00 PM"},
  "categories": ["Health", "Work", "Other"],
  "analysisHistory": [],
  "createdAt": "2023-01-01T00:00:00Z",
  "updatedAt": "2023-01-02T00:00:00Z"
}`

func TestImport_MergeDedupByID(t *testing.T) {
	t.Parallel()

	current := currentState()
	next, summary, err := Import(context.Background(), current, []byte(importedDoc), ModeMerge)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if len(next.Wins) != 2 {
		t.Fatalf("Expected 2 wins after merge, got %d", len(next.Wins))
	}
	if next.Wins[0].ID != "a" || next.Wins[0].Title != "Original A" {
		t.Errorf("Expected original win a to be kept unmodified, got %+v", next.Wins[0])
	}
	if next.Wins[1].ID != "b" {
		t.Errorf("Expected imported win b appended, got %+v", next.Wins[1])
	}

	want := Summary{Mode: ModeMerge, Found: 2, Added: 1, Skipped: 1}
	if summary != want {
		t.Errorf("Expected summary %+v, got %+v", want, summary)
	}

	if !reflect.DeepEqual(next.Categories, []string{"Health", "Other", "Work", "health"}) {
		t.Errorf("Expected case-sensitive sorted union, got %v", next.Categories)
	}
	if next.Settings != current.Settings {
		t.Errorf("Expected settings kept, got %+v", next.Settings)
	}
	if !reflect.DeepEqual(next.AnalysisHistory, current.AnalysisHistory) {
		t.Errorf("Expected analysis history kept, got %+v", next.AnalysisHistory)
	}
	if len(current.Wins) != 1 {
		t.Error("Expected current state not to be modified")
	}
}

func TestImport_Replace(t *testing.T) {
	t.Parallel()

	next, summary, err := Import(context.Background(), currentState(), []byte(importedDoc), ModeReplace)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(next.Wins) != 2 || next.Wins[0].Title != "Imported A" {
		t.Errorf("Expected imported wins to supersede, got %+v", next.Wins)
	}
	if next.Settings.RitualText != "Theirs" {
		t.Errorf("Expected imported settings, got %+v", next.Settings)
	}
	if len(next.AnalysisHistory) != 0 {
		t.Errorf("Expected imported (empty) analysis history, got %d", len(next.AnalysisHistory))
	}
	if summary.Added != 2 || summary.Skipped != 0 {
		t.Errorf("Unexpected summary %+v", summary)
	}
}

func TestImport_ReplaceBackfillsCategories(t *testing.T) {
	t.Parallel()

	doc := `{"version":"1","wins":[],"settings":{"ritualText":"x","dailyReminder":"none"}}`
	next, _, err := Import(context.Background(), currentState(), []byte(doc), ModeReplace)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if !reflect.DeepEqual(next.Categories, models.DefaultCategories()) {
		t.Errorf("Expected default categories, got %v", next.Categories)
	}
}

func TestImport_InvalidDocuments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"not json", "hello"},
		{"wrong version", `{"version":"0","wins":[],"settings":{}}`},
		{"wins not array", `{"version":"1","wins":"nope","settings":{}}`},
		{"missing settings", `{"version":"1","wins":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			current := currentState()
			next, summary, err := Import(context.Background(), current, []byte(tt.doc), ModeMerge)
			if !errors.Is(err, models.ErrInvalidFormat) {
				t.Errorf("Expected ErrInvalidFormat, got %v", err)
			}
			if !reflect.DeepEqual(next, current) {
				t.Error("Expected current state returned unchanged")
			}
			if summary != (Summary{}) {
				t.Errorf("Expected empty summary, got %+v", summary)
			}
		})
	}
}

func TestImport_UnknownMode(t *testing.T) {
	t.Parallel()

	if _, _, err := Import(context.Background(), currentState(), []byte(importedDoc), Mode("append")); err == nil {
		t.Error("Expected error for unknown mode")
	}
}

func TestExport_RoundTrip(t *testing.T) {
	t.Parallel()

	state := currentState()
	doc, err := Export(state)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(string(doc), "\n  \"wins\"") {
		t.Error("Expected indented document")
	}

	loaded, err := schema.Decode(doc)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, state) {
		t.Errorf("Expected exported state to decode identically\nwant %+v\ngot  %+v", state, loaded)
	}

	next, _, err := Import(context.Background(), models.EmptyState(fixedNow), doc, ModeReplace)
	if err != nil {
		t.Fatalf("Import of export failed: %v", err)
	}
	if !reflect.DeepEqual(next.Wins, state.Wins) {
		t.Error("Expected replace import of an export to restore wins")
	}
}

func TestPreview(t *testing.T) {
	t.Parallel()

	n, err := Preview([]byte(importedDoc))
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 wins, got %d", n)
	}
	if _, err := Preview([]byte("[]")); !errors.Is(err, models.ErrInvalidFormat) {
		t.Errorf("Expected ErrInvalidFormat, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"replace", ModeReplace, false},
		{" Merge ", ModeMerge, false},
		{"append", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q) = %q, %v", tt.input, got, err)
		}
	}
	if ExportFilename != "TheJoyJar_backup.json" {
		t.Errorf("Unexpected export filename %s", ExportFilename)
	}
}

func TestImport_SkipsUnreadableWins(t *testing.T) {
	t.Parallel()

	doc := `{"version":"1","settings":{},"wins":[
		{"id":"c","date":"2024-05-03","title":"Readable","mood":"3","effort":3,"category":"Work"},
		{"id":"d","date":"not a date","title":"Unreadable","mood":3,"effort":3}
	]}`

	next, summary, err := Import(context.Background(), currentState(), []byte(doc), ModeMerge)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := Summary{Mode: ModeMerge, Found: 1, Added: 1, Skipped: 0, Unreadable: 1}
	if summary != want {
		t.Errorf("Expected summary %+v, got %+v", want, summary)
	}
	if _, ok := next.FindWin("c"); !ok {
		t.Error("Expected readable win to be merged")
	}
	if _, ok := next.FindWin("d"); ok {
		t.Error("Expected unreadable win to be left out")
	}
}
