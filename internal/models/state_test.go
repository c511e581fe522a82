package models

import (
	"testing"
	"time"
)

func TestAppState_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.May, 12, 10, 0, 0, 0, time.UTC)
	original := SeedState(now)
	original.AnalysisHistory = []AIAnalysis{{ID: "a1", WinIDs: []string{"seed-1"}}}

	clone := original.Clone()
	clone.Wins[0].Tags[0] = "changed"
	clone.Categories[0] = "Changed"
	clone.AnalysisHistory[0].WinIDs[0] = "changed"
	clone.Wins = append(clone.Wins, Win{ID: "new"})

	if original.Wins[0].Tags[0] != "focus" {
		t.Errorf("Expected original tag to be 'focus', got '%s'", original.Wins[0].Tags[0])
	}
	if original.Categories[0] != "Work" {
		t.Errorf("Expected original category to be 'Work', got '%s'", original.Categories[0])
	}
	if original.AnalysisHistory[0].WinIDs[0] != "seed-1" {
		t.Errorf("Expected original win id to be 'seed-1', got '%s'", original.AnalysisHistory[0].WinIDs[0])
	}
	if len(original.Wins) != 6 {
		t.Errorf("Expected 6 original wins, got %d", len(original.Wins))
	}
}

func TestSeedState(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.May, 12, 10, 0, 0, 0, time.UTC)
	s := SeedState(now)

	if s.Version != SchemaVersion {
		t.Errorf("Expected version %s, got %s", SchemaVersion, s.Version)
	}
	if !s.HasCategory(OtherCategory) {
		t.Error("Expected seeded categories to contain Other")
	}
	if s.Settings != DefaultSettings() {
		t.Errorf("Expected default settings, got %+v", s.Settings)
	}
	if len(s.AnalysisHistory) != 0 {
		t.Errorf("Expected empty analysis history, got %d entries", len(s.AnalysisHistory))
	}
	if w, ok := s.FindWin("seed-1"); !ok || w.Date.String() != "2024-05-12" {
		t.Errorf("Expected seed-1 dated today, got %+v", w)
	}
	for _, w := range s.Wins {
		if !s.HasCategory(w.Category) {
			t.Errorf("Seed win %s references unknown category %s", w.ID, w.Category)
		}
	}
}

func TestTimeWindow_Values(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value TimeWindow
		label string
		valid bool
	}{
		{"today", WindowToday, "Today", true},
		{"7d", WindowLast7Days, "Last 7 Days", true},
		{"30d", WindowLast30Days, "Last 30 Days", true},
		{"all", WindowAll, "All Time", true},
		{"invalid", TimeWindow("year"), "year", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.value.Valid() != tt.valid {
				t.Errorf("Expected Valid() to be %v for %s", tt.valid, tt.value)
			}
			if tt.value.Label() != tt.label {
				t.Errorf("Expected label '%s', got '%s'", tt.label, tt.value.Label())
			}
		})
	}
}

func TestParseTimeWindow(t *testing.T) {
	t.Parallel()

	if w, err := ParseTimeWindow("last7days"); err != nil || w != WindowLast7Days {
		t.Errorf("Expected 7d, got %s (err %v)", w, err)
	}
	if _, err := ParseTimeWindow("fortnight"); err == nil {
		t.Error("Expected error for unknown window")
	}
}

func TestDailyReminder_Valid(t *testing.T) {
	t.Parallel()

	for _, r := range []DailyReminder{ReminderNone, ReminderMorning, ReminderEvening} {
		if !r.Valid() {
			t.Errorf("Expected %q to be valid", r)
		}
	}
	if DailyReminder("noon").Valid() {
		t.Error("Expected 'noon' to be invalid")
	}
}
