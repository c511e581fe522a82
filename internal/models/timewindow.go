package models

import "fmt"

// TimeWindow is one of the fixed filtering and analysis periods
type TimeWindow string

const (
	WindowToday      TimeWindow = "today"
	WindowLast7Days  TimeWindow = "7d"
	WindowLast30Days TimeWindow = "30d"
	WindowAll        TimeWindow = "all"
)

// TimeWindows lists every window in display order
var TimeWindows = []TimeWindow{WindowToday, WindowLast7Days, WindowLast30Days, WindowAll}

// Valid reports whether w is a known window
func (w TimeWindow) Valid() bool {
	switch w {
	case WindowToday, WindowLast7Days, WindowLast30Days, WindowAll:
		return true
	default:
		return false
	}
}

// Days returns the rolling window length, or 0 for today and all
func (w TimeWindow) Days() int {
	switch w {
	case WindowLast7Days:
		return 7
	case WindowLast30Days:
		return 30
	default:
		return 0
	}
}

// Label is the human readable period name handed to the summarizer
func (w TimeWindow) Label() string {
	switch w {
	case WindowToday:
		return "Today"
	case WindowLast7Days:
		return "Last 7 Days"
	case WindowLast30Days:
		return "Last 30 Days"
	case WindowAll:
		return "All Time"
	default:
		return string(w)
	}
}

// ParseTimeWindow accepts the canonical ids plus a few long-form aliases
func ParseTimeWindow(s string) (TimeWindow, error) {
	switch s {
	case "today":
		return WindowToday, nil
	case "7d", "last7days", "week":
		return WindowLast7Days, nil
	case "30d", "last30days", "month":
		return WindowLast30Days, nil
	case "all", "":
		return WindowAll, nil
	default:
		return "", fmt.Errorf("invalid time window: %s (must be 'today', '7d', '30d', or 'all')", s)
	}
}
