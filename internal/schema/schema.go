// Package schema reads stored and imported journal documents. Documents are
// validated against the current schema version and brought up to date by an
// ordered list of migration steps before they are decoded into an AppState.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/benvon/joyjar/internal/models"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Step is one document migration. Steps whose From equals To normalize a
// document in place; steps that change the version upgrade it.
type Step struct {
	Name  string
	From  string
	To    string
	Apply func(doc []byte) ([]byte, error)
}

// Steps is the ordered migration list. Steps run in order, each only when the
// document's version at that point equals the step's From.
var Steps = []Step{
	{Name: "backfill-ritual-text", From: "1", To: "1", Apply: backfillRitualText},
	{Name: "backfill-daily-reminder", From: "1", To: "1", Apply: backfillDailyReminder},
	{Name: "backfill-categories", From: "1", To: "1", Apply: backfillCategories},
	{Name: "backfill-analysis-history", From: "1", To: "1", Apply: backfillAnalysisHistory},
	{Name: "backfill-win-tags", From: "1", To: "1", Apply: backfillWinTags},
	{Name: "drop-obsolete-settings", From: "1", To: "1", Apply: dropObsoleteSettings},
}

// ObsoleteSettings lists settings keys from older builds that are discarded on read
var ObsoleteSettings = []string{"aiEnabled", "theme"}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", models.ErrInvalidFormat, fmt.Sprintf(format, args...))
}

// Version returns the declared version of a document, or "" if there is none
func Version(doc []byte) string {
	v := gjson.GetBytes(doc, "version")
	if v.Type != gjson.String {
		return ""
	}
	return v.String()
}

// Validate checks that doc is a JSON object declaring the current schema version
// with a wins array and a settings object.
func Validate(doc []byte) error {
	if !gjson.ValidBytes(doc) {
		return invalid("document is not valid JSON")
	}
	root := gjson.ParseBytes(doc)
	if !root.IsObject() {
		return invalid("document must be a JSON object")
	}
	if v := Version(doc); v != models.SchemaVersion {
		return invalid("unsupported version %q (expected %q)", v, models.SchemaVersion)
	}
	if !root.Get("wins").IsArray() {
		return invalid("wins must be an array")
	}
	if !root.Get("settings").IsObject() {
		return invalid("settings must be an object")
	}
	return nil
}

// Migrate runs every applicable step over doc
func Migrate(doc []byte) ([]byte, error) {
	if !gjson.ValidBytes(doc) || !gjson.ParseBytes(doc).IsObject() {
		return nil, invalid("document must be a JSON object")
	}
	// sjson may write into the slice it is given
	doc = append([]byte(nil), doc...)
	version := Version(doc)
	for _, step := range Steps {
		if step.From != version {
			continue
		}
		next, err := step.Apply(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: migration %s failed: %w", models.ErrInvalidFormat, step.Name, err)
		}
		doc = next
		if step.To != step.From {
			doc, err = sjson.SetBytes(doc, "version", step.To)
			if err != nil {
				return nil, fmt.Errorf("%w: migration %s failed to set version: %w", models.ErrInvalidFormat, step.Name, err)
			}
			version = step.To
		}
	}
	return doc, nil
}

// Decode is DecodeWithReport without the report
func Decode(doc []byte) (models.AppState, error) {
	state, _, err := DecodeWithReport(doc)
	return state, err
}

// Encode serializes state in the stored document format
func Encode(state models.AppState) ([]byte, error) {
	if state.Version == "" {
		state.Version = models.SchemaVersion
	}
	doc, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return doc, nil
}
