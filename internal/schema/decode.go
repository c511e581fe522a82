package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/benvon/joyjar/internal/models"
	"github.com/tidwall/gjson"
)

// Record kinds reported in DroppedRecord
const (
	KindWin      = "win"
	KindAnalysis = "analysis"
)

// DroppedRecord is a stored record that could not be read and was left out
type DroppedRecord struct {
	Kind  string
	Index int
	ID    string
	// Raw is the record exactly as stored
	Raw string
	Err error
}

// DecodeReport lists what a decode had to leave out
type DecodeReport struct {
	Dropped []DroppedRecord
}

// Wins returns how many wins were dropped
func (r DecodeReport) Wins() int {
	n := 0
	for _, d := range r.Dropped {
		if d.Kind == KindWin {
			n++
		}
	}
	return n
}

// Layouts tried after YYYY-MM-DD for dates written by other tools
var looseDateLayouts = []string{
	"2006/01/02",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
}

// jsDateLayout matches the leading part of a JavaScript Date.toString()
const jsDateLayout = "Mon Jan 02 2006"

var errNotNumber = errors.New("not a number")

// DecodeWithReport migrates and validates doc, then reads it record by
// record. Wins and analyses that cannot be read are dropped and reported
// instead of failing the whole document; numeric strings are accepted for
// numbers and scores are clamped into range. Only document-level problems
// return an error, and it matches models.ErrInvalidFormat.
func DecodeWithReport(doc []byte) (models.AppState, DecodeReport, error) {
	var report DecodeReport

	migrated, err := Migrate(doc)
	if err != nil {
		return models.AppState{}, report, err
	}
	if err := Validate(migrated); err != nil {
		return models.AppState{}, report, err
	}

	root := gjson.ParseBytes(migrated)
	state := models.AppState{
		Wins:            []models.Win{},
		Settings:        decodeSettings(root.Get("settings")),
		Categories:      decodeStrings(root.Get("categories")),
		AnalysisHistory: []models.AIAnalysis{},
		CreatedAt:       decodeTime(root.Get("createdAt")),
		UpdatedAt:       decodeTime(root.Get("updatedAt")),
		Version:         Version(migrated),
	}

	for i, v := range root.Get("wins").Array() {
		win, err := decodeWin(v)
		if err != nil {
			report.Dropped = append(report.Dropped, dropped(KindWin, i, v, err))
			continue
		}
		state.Wins = append(state.Wins, win)
	}

	for i, v := range root.Get("analysisHistory").Array() {
		entry, err := decodeAnalysis(v)
		if err != nil {
			report.Dropped = append(report.Dropped, dropped(KindAnalysis, i, v, err))
			continue
		}
		state.AnalysisHistory = append(state.AnalysisHistory, entry)
	}

	return state, report, nil
}

func dropped(kind string, index int, v gjson.Result, err error) DroppedRecord {
	return DroppedRecord{
		Kind:  kind,
		Index: index,
		ID:    scalar(v.Get("id")),
		Raw:   v.Raw,
		Err:   err,
	}
}

func decodeSettings(v gjson.Result) models.Settings {
	settings := models.DefaultSettings()
	if text := v.Get("ritualText"); text.Type == gjson.String {
		settings.RitualText = text.String()
	}
	if r := models.DailyReminder(v.Get("dailyReminder").String()); r.Valid() {
		settings.DailyReminder = r
	}
	return settings
}

// decodeStrings keeps the scalar elements of an array as strings
func decodeStrings(v gjson.Result) []string {
	out := []string{}
	for _, item := range v.Array() {
		if s := strings.TrimSpace(scalar(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func decodeTime(v gjson.Result) time.Time {
	if v.Type != gjson.String {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, v.String())
	if err != nil {
		return time.Time{}
	}
	return t
}

// scalar returns strings and numbers as text and everything else as ""
func scalar(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.String()
	case gjson.Number:
		return v.Raw
	default:
		return ""
	}
}

func decodeWin(v gjson.Result) (models.Win, error) {
	if !v.IsObject() {
		return models.Win{}, errors.New("win must be an object")
	}

	win := models.Win{
		ID:       strings.TrimSpace(scalar(v.Get("id"))),
		Title:    scalar(v.Get("title")),
		Notes:    scalar(v.Get("notes")),
		Tags:     decodeStrings(v.Get("tags")),
		Category: strings.TrimSpace(scalar(v.Get("category"))),
	}
	if win.ID == "" {
		return models.Win{}, errors.New("id is required")
	}
	if win.Category == "" {
		win.Category = models.OtherCategory
	}

	date, err := parseLooseDate(scalar(v.Get("date")))
	if err != nil {
		return models.Win{}, err
	}
	win.Date = date

	if win.Mood, err = decodeScore(v.Get("mood")); err != nil {
		return models.Win{}, fmt.Errorf("mood: %w", err)
	}
	if win.Effort, err = decodeScore(v.Get("effort")); err != nil {
		return models.Win{}, fmt.Errorf("effort: %w", err)
	}

	if cost := v.Get("cost"); cost.Exists() && cost.Type != gjson.Null {
		f, err := decodeNumber(cost)
		if err != nil {
			return models.Win{}, fmt.Errorf("cost: %w", err)
		}
		win.Cost = math.Max(f, 0)
	}
	return win, nil
}

func decodeAnalysis(v gjson.Result) (models.AIAnalysis, error) {
	var entry models.AIAnalysis
	if err := json.Unmarshal([]byte(v.Raw), &entry); err != nil {
		return models.AIAnalysis{}, err
	}
	if entry.ID == "" {
		return models.AIAnalysis{}, errors.New("id is required")
	}
	return entry.Clone(), nil
}

func decodeNumber(v gjson.Result) (float64, error) {
	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Float()
	case gjson.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errNotNumber, v.String())
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%w: %s", errNotNumber, v.Raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s", errNotNumber, v.Raw)
	}
	return f, nil
}

func decodeScore(v gjson.Result) (int, error) {
	f, err := decodeNumber(v)
	if err != nil {
		return 0, err
	}
	score := int(math.Round(f))
	return min(max(score, models.MinScore), models.MaxScore), nil
}

func parseLooseDate(s string) (models.Date, error) {
	s = strings.TrimSpace(s)
	if d, err := models.ParseDate(s); err == nil {
		return d, nil
	}
	for _, layout := range looseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.DateOf(t), nil
		}
	}
	if len(s) >= len(jsDateLayout) {
		if t, err := time.Parse(jsDateLayout, s[:len(jsDateLayout)]); err == nil {
			return models.DateOf(t), nil
		}
	}
	return models.Date{}, fmt.Errorf("invalid date %q", s)
}
