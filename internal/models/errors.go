package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStorageUnavailable indicates the durable slot could not be read or written
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrInvalidFormat indicates a stored or imported document failed schema validation
	ErrInvalidFormat = errors.New("invalid format")
	// ErrProtectedCategory is returned when deleting the sentinel category
	ErrProtectedCategory = errors.New("protected category")
	// ErrInvalidWin indicates a proposed win violates field invariants
	ErrInvalidWin = errors.New("invalid win")
	// ErrSummarizationFailed indicates the external summarizer did not produce text
	ErrSummarizationFailed = errors.New("summarization failed")
)

// FieldError describes one rejected field
type FieldError struct {
	Field  string
	Reason string
}

// ValidationError collects field errors for a rejected win.
// It matches ErrInvalidWin with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
	}
	return fmt.Sprintf("invalid win: %s", strings.Join(parts, "; "))
}

// Is lets errors.Is(err, ErrInvalidWin) match
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidWin
}
