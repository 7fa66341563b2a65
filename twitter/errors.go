package twitter

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimited is returned once the bounded retry budget for a
	// rate-limited endpoint is exhausted.
	ErrRateLimited = errors.New("twitter: rate limited")

	// ErrNotFound covers deleted or suspended resources (HTTP 404 and
	// API error codes 34 and 50).
	ErrNotFound = errors.New("twitter: resource not found")

	// ErrConflictingOptions is returned when mutually exclusive
	// fetch options are combined, before any network or store I/O.
	ErrConflictingOptions = errors.New("twitter: conflicting options")
)

// APIError is an error payload returned by the remote API that maps to
// no local error category. Code and message are surfaced verbatim.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twitter: api error %d: %s", e.Code, e.Message)
}
