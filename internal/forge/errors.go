package forge

import (
	"fmt"
	"time"
)

// NotFoundError indicates the requested resource does not exist.
type NotFoundError struct {
	Operation string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: not found", e.Operation)
}

// APIError carries a non-404 GitHub API error response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitHub API error (status %d): %s", e.StatusCode, e.Message)
}

// RateLimitError indicates the API quota is exhausted.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("GitHub rate limit exceeded (%d remaining, resets at %s)",
		e.Remaining, e.ResetAt.Format(time.RFC3339))
}
