package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"unicode"

	"github.com/benvon/joyjar/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Dates validate as their YYYY-MM-DD string so "required" rejects the zero date
	Validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
		if d, ok := v.Interface().(models.Date); ok {
			return d.String()
		}
		return nil
	}, models.Date{})

	// Register custom validators for enums
	// These should never fail in normal operation, but log if they do
	if err := Validate.RegisterValidation("daily_reminder", validateDailyReminder); err != nil {
		panic(fmt.Sprintf("failed to register daily_reminder validator: %v", err))
	}
	if err := Validate.RegisterValidation("time_window", validateTimeWindow); err != nil {
		panic(fmt.Sprintf("failed to register time_window validator: %v", err))
	}
	// NaN and Inf cannot be encoded as JSON
	if err := Validate.RegisterValidation("finite", validateFinite); err != nil {
		panic(fmt.Sprintf("failed to register finite validator: %v", err))
	}
}

// validateDailyReminder validates that a string is a valid DailyReminder enum value
func validateDailyReminder(fl validator.FieldLevel) bool {
	return models.DailyReminder(fl.Field().String()).Valid()
}

// validateTimeWindow validates that a string is a valid TimeWindow enum value
func validateTimeWindow(fl validator.FieldLevel) bool {
	return models.TimeWindow(fl.Field().String()).Valid()
}

// validateFinite rejects NaN and infinite floats
func validateFinite(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// NormalizeTags trims tags, drops empties and removes duplicates while keeping
// first-seen order
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = SanitizeText(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// NormalizeWinInput returns a sanitized copy of input ready for validation
func NormalizeWinInput(input models.WinInput) models.WinInput {
	input.Title = SanitizeText(input.Title)
	input.Notes = SanitizeText(input.Notes)
	input.Category = SanitizeText(input.Category)
	input.Tags = NormalizeTags(input.Tags)
	return input
}

// ValidateWinInput checks the win invariants. The returned error matches
// models.ErrInvalidWin.
func ValidateWinInput(input models.WinInput) error {
	err := Validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", models.ErrInvalidWin, err)
	}
	out := &models.ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, models.FieldError{
			Field:  fieldName(fe.Field()),
			Reason: describe(fe),
		})
	}
	return out
}

// ValidateSettings validates a settings value
func ValidateSettings(settings models.Settings) error {
	if err := Validate.Struct(settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// ValidateTimeWindow validates a TimeWindow string value
func ValidateTimeWindow(value string) error {
	if !models.TimeWindow(value).Valid() {
		return fmt.Errorf("invalid time window: %s (must be 'today', '7d', '30d', or 'all')", value)
	}
	return nil
}

func fieldName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "finite":
		return "must be a finite number"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
