package models

// DailyReminder selects when the host should schedule a reminder notification
type DailyReminder string

const (
	ReminderNone    DailyReminder = "none"
	ReminderMorning DailyReminder = "9:00 AM"
	ReminderEvening DailyReminder = "9:00 PM"
)

// DefaultRitualText is shown when a win is celebrated
const DefaultRitualText = "Take a deep breath and smile."

// Valid reports whether r is one of the supported reminder options
func (r DailyReminder) Valid() bool {
	switch r {
	case ReminderNone, ReminderMorning, ReminderEvening:
		return true
	default:
		return false
	}
}

// Settings is the singleton user configuration
type Settings struct {
	RitualText    string        `json:"ritualText" validate:"max=500"`
	DailyReminder DailyReminder `json:"dailyReminder" validate:"daily_reminder"`
}

// DefaultSettings returns the settings a fresh journal starts with
func DefaultSettings() Settings {
	return Settings{
		RitualText:    DefaultRitualText,
		DailyReminder: ReminderNone,
	}
}
