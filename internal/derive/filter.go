// Package derive computes read-only views over journal state: filtered lists,
// tag universes, streaks, category distributions and mood/effort series.
// Nothing here mutates its input or keeps cached state.
package derive

import (
	"sort"
	"strings"
	"time"

	"github.com/benvon/joyjar/internal/models"
)

// Filter selects wins for a view. Zero-valued fields apply no filter.
type Filter struct {
	Window     models.TimeWindow
	SearchText string
	Tag        string
	Category   string
}

// SortByDateDesc returns a copy of wins sorted newest first. Wins on the same
// day keep their relative order.
func SortByDateDesc(wins []models.Win) []models.Win {
	out := append([]models.Win(nil), wins...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// InWindow reports whether a win dated d falls inside window as seen from today.
// Rolling windows cover [today-N, today] inclusive.
func InWindow(d models.Date, window models.TimeWindow, today models.Date) bool {
	switch window {
	case models.WindowToday:
		return d.Equal(today)
	case models.WindowLast7Days, models.WindowLast30Days:
		start := today.AddDays(-window.Days())
		return !d.Before(start) && !d.After(today)
	default:
		return true
	}
}

// WinsInWindow returns the wins inside window, newest first
func WinsInWindow(wins []models.Win, window models.TimeWindow, now time.Time) []models.Win {
	return FilterWins(wins, Filter{Window: window}, now)
}

// FilterWins sorts wins newest first and applies every filter conjunctively
func FilterWins(wins []models.Win, f Filter, now time.Time) []models.Win {
	today := models.DateOf(now)
	search := strings.ToLower(f.SearchText)

	sorted := SortByDateDesc(wins)
	out := make([]models.Win, 0, len(sorted))
	for _, w := range sorted {
		if f.Window != "" && !InWindow(w.Date, f.Window, today) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(w.Title), search) &&
			!strings.Contains(strings.ToLower(w.Notes), search) {
			continue
		}
		if f.Tag != "" && !w.HasTag(f.Tag) {
			continue
		}
		if f.Category != "" && w.Category != f.Category {
			continue
		}
		out = append(out, w)
	}
	return out
}

// AllTags returns the sorted union of every win's tags
func AllTags(wins []models.Win) []string {
	seen := make(map[string]struct{})
	for _, w := range wins {
		for _, t := range w.Tags {
			seen[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
