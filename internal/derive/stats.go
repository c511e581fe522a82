package derive

import (
	"sort"
	"time"

	"github.com/benvon/joyjar/internal/models"
)

// distinctDatesDesc returns the unique win dates not after today, newest first
func distinctDatesDesc(wins []models.Win, today models.Date) []models.Date {
	seen := make(map[models.Date]struct{}, len(wins))
	dates := make([]models.Date, 0, len(wins))
	for _, w := range wins {
		if w.Date.IsZero() || w.Date.After(today) {
			continue
		}
		if _, ok := seen[w.Date]; ok {
			continue
		}
		seen[w.Date] = struct{}{}
		dates = append(dates, w.Date)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].After(dates[j])
	})
	return dates
}

// ComputeStreak counts consecutive days with at least one win, walking back from
// the newest win date. The chain is alive only when that date is today or
// yesterday; anything older yields 0. Future-dated wins are ignored.
func ComputeStreak(wins []models.Win, now time.Time) int {
	today := models.DateOf(now)
	dates := distinctDatesDesc(wins, today)
	if len(dates) == 0 {
		return 0
	}
	if dates[0].DaysUntil(today) > 1 {
		return 0
	}

	streak := 1
	for i := 1; i < len(dates); i++ {
		if dates[i].DaysUntil(dates[i-1]) != 1 {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak returns the longest run of consecutive win days ever recorded
func LongestStreak(wins []models.Win, now time.Time) int {
	dates := distinctDatesDesc(wins, models.DateOf(now))
	if len(dates) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(dates); i++ {
		if dates[i].DaysUntil(dates[i-1]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// CategoryShare is one row of a category distribution
type CategoryShare struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CategoryDistribution counts wins per known category. Percentages use the total
// number of wins as denominator (1 when there are none). Categories without wins
// are omitted; rows are ordered by count, highest first, ties in list order.
func CategoryDistribution(wins []models.Win, categories []string) []CategoryShare {
	counts := make(map[string]int, len(categories))
	for _, w := range wins {
		counts[w.Category]++
	}
	total := len(wins)
	if total == 0 {
		total = 1
	}

	out := make([]CategoryShare, 0, len(categories))
	seen := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		n := counts[c]
		if n == 0 {
			continue
		}
		out = append(out, CategoryShare{
			Category:   c,
			Count:      n,
			Percentage: float64(n) * 100 / float64(total),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// DailyScore is the mean mood and effort for one day
type DailyScore struct {
	Date   models.Date `json:"date"`
	Mood   float64     `json:"mood"`
	Effort float64     `json:"effort"`
	Count  int         `json:"count"`
}

// MoodEffortTimeSeries averages mood and effort per day, oldest first
func MoodEffortTimeSeries(wins []models.Win) []DailyScore {
	type acc struct {
		mood, effort, count int
	}
	byDate := make(map[models.Date]*acc)
	for _, w := range wins {
		a, ok := byDate[w.Date]
		if !ok {
			a = &acc{}
			byDate[w.Date] = a
		}
		a.mood += w.Mood
		a.effort += w.Effort
		a.count++
	}

	out := make([]DailyScore, 0, len(byDate))
	for d, a := range byDate {
		out = append(out, DailyScore{
			Date:   d,
			Mood:   float64(a.mood) / float64(a.count),
			Effort: float64(a.effort) / float64(a.count),
			Count:  a.count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Totals summarizes a set of wins
type Totals struct {
	Wins          int     `json:"wins"`
	TotalCost     float64 `json:"totalCost"`
	AverageMood   float64 `json:"averageMood"`
	AverageEffort float64 `json:"averageEffort"`
}

// Summarize computes totals and averages over wins
func Summarize(wins []models.Win) Totals {
	t := Totals{Wins: len(wins)}
	if len(wins) == 0 {
		return t
	}
	var mood, effort int
	for _, w := range wins {
		t.TotalCost += w.Cost
		mood += w.Mood
		effort += w.Effort
	}
	t.AverageMood = float64(mood) / float64(len(wins))
	t.AverageEffort = float64(effort) / float64(len(wins))
	return t
}
