// Package transfer exports the journal as a portable backup document and
// imports such documents back, either replacing or merging into the current state.
package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/benvon/joyjar/internal/models"
	"github.com/benvon/joyjar/internal/schema"
	"github.com/benvon/joyjar/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// AppName prefixes exported backup files
const AppName = "TheJoyJar"

// ExportFilename is the conventional name of a backup file
const ExportFilename = AppName + "_backup.json"

// Mode selects how an imported document is applied
type Mode string

const (
	// ModeReplace makes the imported document the whole new state
	ModeReplace Mode = "replace"
	// ModeMerge appends unseen wins and unions categories; settings and
	// analysis history of the current state are kept as they are
	ModeMerge Mode = "merge"
)

// ParseMode parses a mode name
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeReplace:
		return ModeReplace, nil
	case ModeMerge:
		return ModeMerge, nil
	default:
		return "", fmt.Errorf("unknown import mode %q (expected replace or merge)", s)
	}
}

// Summary reports what an import did
type Summary struct {
	Mode Mode `json:"mode"`
	// Found is the number of wins in the imported document
	Found int `json:"found"`
	// Added is the number of imported wins present in the result
	Added int `json:"added"`
	// Skipped is the number of imported wins dropped as duplicates
	Skipped int `json:"skipped"`
	// Unreadable is the number of wins in the document that could not be read
	Unreadable int `json:"unreadable"`
}

// Export serializes the full state as an indented JSON document
func Export(state models.AppState) ([]byte, error) {
	doc, err := schema.Encode(state)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, doc, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to format export: %w", err)
	}
	return out.Bytes(), nil
}

// Preview validates doc and returns the number of wins it holds, so a
// caller can ask the user which mode to use before importing
func Preview(doc []byte) (int, error) {
	imported, err := schema.Decode(doc)
	if err != nil {
		return 0, err
	}
	return len(imported.Wins), nil
}

// Import applies doc to current. On error current is not modified and the
// error matches models.ErrInvalidFormat.
func Import(ctx context.Context, current models.AppState, doc []byte, mode Mode) (models.AppState, Summary, error) {
	_, span := telemetry.StartSpan(ctx, "transfer.import", attribute.String("mode", string(mode)))
	defer span.End()

	if mode != ModeReplace && mode != ModeMerge {
		err := fmt.Errorf("unknown import mode %q", mode)
		telemetry.RecordError(span, err)
		return current, Summary{}, err
	}

	imported, report, err := schema.DecodeWithReport(doc)
	if err != nil {
		telemetry.RecordError(span, err)
		return current, Summary{}, err
	}

	summary := Summary{Mode: mode, Found: len(imported.Wins), Unreadable: report.Wins()}
	var next models.AppState
	if mode == ModeReplace {
		next = imported
		summary.Added = len(imported.Wins)
	} else {
		next, summary.Added = merge(current, imported)
		summary.Skipped = summary.Found - summary.Added
	}

	span.SetAttributes(
		attribute.Int("found", summary.Found),
		attribute.Int("added", summary.Added),
	)
	return next, summary, nil
}

// merge keeps every current win and appends imported wins whose id is new.
// Categories are unioned case-sensitively and sorted.
func merge(current, imported models.AppState) (models.AppState, int) {
	next := current.Clone()

	seen := make(map[string]struct{}, len(next.Wins))
	for _, w := range next.Wins {
		seen[w.ID] = struct{}{}
	}
	added := 0
	for _, w := range imported.Wins {
		if _, ok := seen[w.ID]; ok {
			continue
		}
		seen[w.ID] = struct{}{}
		next.Wins = append(next.Wins, w.Clone())
		added++
	}

	total := len(next.Categories) + len(imported.Categories)
	set := make(map[string]struct{}, total)
	categories := make([]string, 0, total)
	for _, c := range append(append([]string{}, next.Categories...), imported.Categories...) {
		if _, ok := set[c]; ok {
			continue
		}
		set[c] = struct{}{}
		categories = append(categories, c)
	}
	sort.Strings(categories)
	next.Categories = categories

	return next, added
}
