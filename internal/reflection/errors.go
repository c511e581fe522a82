package reflection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
)

// APIError represents an error from the summarization service
type APIError struct {
	Message    string
	Type       string
	Code       string
	StatusCode int
	// IsPermanent is true for quota exhaustion, false for transient rate limits
	IsPermanent bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d, type %s): %s", e.StatusCode, e.Type, e.Message)
}

// ExtractAPIError returns the service error carried by err, or nil
func ExtractAPIError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var oaErr *openai.Error
	if errors.As(err, &oaErr) {
		return &APIError{
			Message:     oaErr.Message,
			Type:        oaErr.Type,
			Code:        oaErr.Code,
			StatusCode:  oaErr.StatusCode,
			IsPermanent: oaErr.Code == "insufficient_quota",
		}
	}
	return nil
}

// IsRateLimitError checks if an error is a transient rate limit error
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	if apiErr := ExtractAPIError(err); apiErr != nil {
		return apiErr.StatusCode == http.StatusTooManyRequests && !apiErr.IsPermanent
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "rate limit") || strings.Contains(errStr, "too many requests")
}

// IsQuotaError checks if an error is a quota exhaustion error
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if apiErr := ExtractAPIError(err); apiErr != nil {
		return apiErr.IsPermanent || apiErr.Code == "insufficient_quota"
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "insufficient_quota") || strings.Contains(errStr, "billing")
}

// IsAuthError checks if the service rejected the credentials
func IsAuthError(err error) bool {
	apiErr := ExtractAPIError(err)
	return apiErr != nil && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}

// UserMessage converts a summarization failure into text that can be shown
// in place of a reflection. It is never stored.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return "The reflection was cancelled."
	case errors.Is(err, context.DeadlineExceeded):
		return "The reflection coach took too long to answer. Please try again."
	case IsQuotaError(err):
		return "The reflection coach has run out of quota. Please try again later."
	case IsRateLimitError(err):
		return "The reflection coach is busy right now. Please try again in a minute."
	case IsAuthError(err):
		return "The reflection coach could not sign in. Please check the configured API key."
	default:
		return "It seems I had trouble connecting. Please check your network connection.\n(Error: " + err.Error() + ")"
	}
}
