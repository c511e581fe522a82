package logger

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		maxLength int
		want      string
	}{
		{"empty", "", 10, ""},
		{"plain text kept", "Ran 5k", 10, "Ran 5k"},
		{"control chars removed", "a\x00b\x1bc", 10, "abc"},
		{"newlines kept", "line1\nline2", 20, "line1\nline2"},
		{"truncated", "abcdefghij", 4, "abcd..."},
		{"no rune split", "héllo", 2, "h..."},
		{"invalid utf8 dropped", "ok\xff", 10, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeString(tt.input, tt.maxLength); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSanitizeString_DefaultLength(t *testing.T) {
	t.Parallel()

	got := SanitizeString(strings.Repeat("x", MaxGeneralStringLength+10), 0)
	if len(got) != MaxGeneralStringLength+3 {
		t.Errorf("Expected default truncation, got length %d", len(got))
	}
}

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	if got := SanitizeError(nil); got != "" {
		t.Errorf("Expected empty string for nil error, got %q", got)
	}
	if got := SanitizeError(errors.New("boom\x07")); got != "boom" {
		t.Errorf("Expected 'boom', got %q", got)
	}
}

func TestOrNop(t *testing.T) {
	t.Parallel()

	if OrNop(nil) == nil {
		t.Error("Expected a logger for nil input")
	}
	if err := Sync(nil); err != nil {
		t.Errorf("Expected nil error syncing nil logger, got %v", err)
	}
}
