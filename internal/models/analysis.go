package models

import "time"

// AIAnalysis is a persisted reflection produced by the summarizer.
// WinIDs records which wins fed the analysis; it is provenance only and is not
// kept in sync with later deletions.
type AIAnalysis struct {
	ID                string     `json:"id"`
	Date              time.Time  `json:"date"`
	Period            TimeWindow `json:"period"`
	WinsAnalyzedCount int        `json:"winsAnalyzedCount"`
	WinIDs            []string   `json:"winIds"`
	Content           string     `json:"content"`
}

// Clone returns a deep copy of the analysis
func (a AIAnalysis) Clone() AIAnalysis {
	a.WinIDs = append([]string(nil), a.WinIDs...)
	if a.WinIDs == nil {
		a.WinIDs = []string{}
	}
	return a
}
