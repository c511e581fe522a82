package derive

import (
	"reflect"
	"testing"
	"time"

	"github.com/benvon/joyjar/internal/models"
)

// 2024-05-12 is "today" for every test in this package
var now = time.Date(2024, time.May, 12, 15, 30, 0, 0, time.UTC)

func daysAgo(n int) models.Date {
	return models.DateOf(now).AddDays(-n)
}

func ids(wins []models.Win) []string {
	out := make([]string, 0, len(wins))
	for _, w := range wins {
		out = append(out, w.ID)
	}
	return out
}

func fixtureWins() []models.Win {
	return []models.Win{
		{ID: "work-old", Date: daysAgo(10), Title: "Quarterly plan", Category: "Work", Tags: []string{"planning"}, Mood: 3, Effort: 4},
		{ID: "work-today", Date: daysAgo(0), Title: "Shipped release", Notes: "Smooth DEPLOY", Category: "Work", Tags: []string{"focus"}, Mood: 5, Effort: 4},
		{ID: "health-3", Date: daysAgo(3), Title: "Morning run", Category: "Health", Tags: []string{"fitness", "focus"}, Mood: 4, Effort: 3},
		{ID: "work-7", Date: daysAgo(7), Title: "Mentored a junior", Category: "Work", Tags: []string{"people"}, Mood: 4, Effort: 2},
		{ID: "health-30", Date: daysAgo(30), Title: "Yoga class", Category: "Health", Tags: []string{"fitness"}, Mood: 4, Effort: 2},
		{ID: "health-31", Date: daysAgo(31), Title: "Doctor visit", Category: "Health", Mood: 2, Effort: 1},
	}
}

func TestFilterWins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{
			name:   "no filters sorts newest first",
			filter: Filter{},
			want:   []string{"work-today", "health-3", "work-7", "work-old", "health-30", "health-31"},
		},
		{
			name:   "today",
			filter: Filter{Window: models.WindowToday},
			want:   []string{"work-today"},
		},
		{
			name:   "last 7 days includes both ends",
			filter: Filter{Window: models.WindowLast7Days},
			want:   []string{"work-today", "health-3", "work-7"},
		},
		{
			name:   "last 30 days",
			filter: Filter{Window: models.WindowLast30Days},
			want:   []string{"work-today", "health-3", "work-7", "work-old", "health-30"},
		},
		{
			name:   "window and category are conjunctive",
			filter: Filter{Window: models.WindowLast7Days, Category: "Work"},
			want:   []string{"work-today", "work-7"},
		},
		{
			name:   "search matches notes case-insensitively",
			filter: Filter{SearchText: "deploy"},
			want:   []string{"work-today"},
		},
		{
			name:   "search matches title",
			filter: Filter{SearchText: "RUN"},
			want:   []string{"health-3"},
		},
		{
			name:   "tag exact match",
			filter: Filter{Tag: "focus"},
			want:   []string{"work-today", "health-3"},
		},
		{
			name:   "tag is not a substring match",
			filter: Filter{Tag: "foc"},
			want:   []string{},
		},
		{
			name:   "all filters together",
			filter: Filter{Window: models.WindowAll, SearchText: "o", Tag: "fitness", Category: "Health"},
			want:   []string{"health-3", "health-30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ids(FilterWins(fixtureWins(), tt.filter, now))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFilterWins_ExcludesFutureFromRollingWindow(t *testing.T) {
	t.Parallel()

	wins := []models.Win{{ID: "future", Date: daysAgo(-1), Title: "Tomorrow"}}
	if got := FilterWins(wins, Filter{Window: models.WindowLast7Days}, now); len(got) != 0 {
		t.Errorf("Expected future win to be excluded, got %v", ids(got))
	}
	if got := FilterWins(wins, Filter{Window: models.WindowAll}, now); len(got) != 1 {
		t.Errorf("Expected future win in all-time view, got %v", ids(got))
	}
}

func TestFilterWins_DoesNotReorderInput(t *testing.T) {
	t.Parallel()

	wins := fixtureWins()
	_ = FilterWins(wins, Filter{}, now)
	if wins[0].ID != "work-old" {
		t.Errorf("Expected input order preserved, first is %s", wins[0].ID)
	}
}

func TestAllTags(t *testing.T) {
	t.Parallel()

	got := AllTags(fixtureWins())
	want := []string{"fitness", "focus", "people", "planning"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if got := AllTags(nil); len(got) != 0 {
		t.Errorf("Expected no tags, got %v", got)
	}
}
