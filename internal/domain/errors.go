package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTimeout              = errors.New("timed out waiting for generation result")
	ErrTaskExpired          = errors.New("task not found (expired/wrong host), re-run generation")
	ErrMissingPollingHandle = errors.New("no polling_url returned")
)

// Upstream operations reported by UpstreamError.
const (
	OpFetch  = "fetch"
	OpSubmit = "submit"
	OpPoll   = "poll"
	OpSearch = "search"
)

// ValidationError reports a user input problem detected before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConfigurationError reports missing server-held credentials.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return "Missing " + e.Missing
}

// UpstreamError carries the status and body of a non-success response from a
// third-party API.
type UpstreamError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed: %d %s", e.Op, e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsConfiguration reports whether err is or wraps a ConfigurationError.
func IsConfiguration(err error) bool {
	var c *ConfigurationError
	return errors.As(err, &c)
}
