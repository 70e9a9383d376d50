package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrUnsupportedTextFormat signals an unrecognized index text format.
	ErrUnsupportedTextFormat = errors.New("unsupported text format")
	// ErrQueryGeneration signals a query generation failure.
	ErrQueryGeneration = errors.New("query generation failed")
	// ErrEngine signals an index engine invocation failure.
	ErrEngine = errors.New("index engine error")
	// ErrSearchAPI signals a web search API failure.
	ErrSearchAPI = errors.New("search API error")
	// ErrPageFetch signals a page fetch failure.
	ErrPageFetch = errors.New("page fetch error")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)

// SearchAPIError wraps ErrSearchAPI with the HTTP status returned by the
// remote search endpoint. Callers distinguishing transient from permanent
// failures inspect StatusCode.
type SearchAPIError struct {
	StatusCode int
}

func (e *SearchAPIError) Error() string {
	return fmt.Sprintf("%s: status %d", ErrSearchAPI.Error(), e.StatusCode)
}

func (e *SearchAPIError) Unwrap() error { return ErrSearchAPI }

// NewSearchAPIError creates a search API error for a non-success status.
func NewSearchAPIError(statusCode int) error {
	return &SearchAPIError{StatusCode: statusCode}
}
