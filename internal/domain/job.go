package domain

import "strings"

// JobStatus enumerates generation job lifecycle states.
type JobStatus string

const (
	JobStatusPending  JobStatus = "pending"
	JobStatusReady    JobStatus = "ready"
	JobStatusNotFound JobStatus = "not_found"
	JobStatusTimedOut JobStatus = "timed_out"
	JobStatusFailed   JobStatus = "failed"
)

// Terminal reports whether no further polling can change the status.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusReady, JobStatusNotFound, JobStatusTimedOut, JobStatusFailed:
		return true
	default:
		return false
	}
}

const (
	DefaultWidth  = 1024
	DefaultHeight = 1024
)

// GenerationRequest holds the resolved inputs of one generation call. A nil
// Reference or Logo means the image was not supplied.
type GenerationRequest struct {
	Prompt    string
	Width     int
	Height    int
	Base      []byte
	Reference []byte
	Logo      []byte
}

// Validate checks the request before anything is sent upstream.
func (r GenerationRequest) Validate() error {
	if len(r.Base) == 0 {
		return NewValidationError("base", "Base image is required")
	}
	if strings.TrimSpace(r.Prompt) == "" {
		return NewValidationError("prompt", "Prompt is required")
	}
	if r.Width <= 0 {
		return NewValidationError("width", "Width must be a positive integer")
	}
	if r.Height <= 0 {
		return NewValidationError("height", "Height must be a positive integer")
	}
	return nil
}

// GenerationJob tracks a submitted job for the duration of one request.
type GenerationJob struct {
	ID         string    `json:"id"`
	PollingURL string    `json:"polling_url"`
	Status     JobStatus `json:"status"`
	SampleURL  string    `json:"sample_url,omitempty"`
}
