package models

import "time"

// SeedWins returns the sample wins shown to a brand-new user, dated relative to today
func SeedWins(today Date) []Win {
	return []Win{
		{
			ID:       "seed-1",
			Date:     today,
			Title:    "Finished a major work project",
			Category: "Work",
			Tags:     []string{"focus", "deep-work"},
			Mood:     5,
			Effort:   4,
			Cost:     0,
			Notes:    "Finally shipped the feature after weeks of hard work. Felt amazing.",
		},
		{
			ID:       "seed-2",
			Date:     today.AddDays(-2),
			Title:    "Went for a 30-minute run",
			Category: "Health",
			Tags:     []string{"fitness", "outdoors"},
			Mood:     4,
			Effort:   3,
			Cost:     0,
		},
		{
			ID:       "seed-3",
			Date:     today.AddDays(-5),
			Title:    "Called a friend I haven't spoken to in a while",
			Category: "Relationships",
			Tags:     []string{"connection"},
			Mood:     5,
			Effort:   2,
			Cost:     0,
		},
		{
			ID:       "seed-4",
			Date:     today.AddDays(-10),
			Title:    "Read a chapter of a new book",
			Category: "Learning",
			Tags:     []string{"reading", "quiet"},
			Mood:     4,
			Effort:   1,
			Cost:     800,
			Notes:    "New book on web design. Worth the cost.",
		},
		{
			ID:       "seed-5",
			Date:     today.AddDays(-15),
			Title:    "Cooked a healthy meal instead of ordering out",
			Category: "Money",
			Tags:     []string{"cooking", "savings"},
			Mood:     3,
			Effort:   3,
			Cost:     350,
		},
		{
			ID:       "seed-6",
			Date:     today.AddDays(-25),
			Title:    "Cleaned and organized the home office",
			Category: "Home",
			Tags:     []string{"organization", "focus"},
			Mood:     4,
			Effort:   4,
			Cost:     0,
		},
	}
}

// EmptyState returns a fresh state with defaults and no wins
func EmptyState(now time.Time) AppState {
	return AppState{
		Wins:            []Win{},
		Settings:        DefaultSettings(),
		Categories:      DefaultCategories(),
		AnalysisHistory: []AIAnalysis{},
		CreatedAt:       now,
		UpdatedAt:       now,
		Version:         SchemaVersion,
	}
}

// SeedState returns the state used when no durable copy exists yet
func SeedState(now time.Time) AppState {
	s := EmptyState(now)
	s.Wins = SeedWins(DateOf(now))
	return s
}
