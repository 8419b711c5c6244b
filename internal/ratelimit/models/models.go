package models

import (
	"time"

	dErrors "onegov/pkg/domain-errors"
)

// EndpointClass groups routes that share a request budget.
type EndpointClass string

const (
	// ClassTrack covers anonymous tracking lookups. Tracking ids are the only
	// credential for that endpoint, so it gets the tightest budget.
	ClassTrack EndpointClass = "track"
	// ClassSubmit covers citizen submissions and service requests.
	ClassSubmit EndpointClass = "submit"
)

func (c EndpointClass) IsValid() bool {
	switch c {
	case ClassTrack, ClassSubmit:
		return true
	}
	return false
}

// Limit is a request budget over a sliding window.
type Limit struct {
	Requests int
	Window   time.Duration
}

func (l Limit) Validate() error {
	if l.Requests < 1 {
		return dErrors.New(dErrors.CodeConfiguration, "rate limit requests must be at least 1")
	}
	if l.Window <= 0 {
		return dErrors.New(dErrors.CodeConfiguration, "rate limit window must be positive")
	}
	return nil
}

// Result is the outcome of a single check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is set only when the request was refused.
	RetryAfter time.Duration
}

// ExceededResponse is the 429 body.
type ExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}
