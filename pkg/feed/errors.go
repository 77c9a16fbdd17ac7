package feed

import (
	"fmt"
)

// ErrorClass classifies feed fetch failures.
type ErrorClass string

const (
	// ErrorClassNetwork represents transport-level failures (DNS, connect,
	// timeout).
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassUpstream represents non-200 HTTP responses from the feed.
	ErrorClassUpstream ErrorClass = "upstream"
)

// FeedError represents a failed feed fetch with enough context for logging
// and metrics. The pricing service collapses every FeedError to its
// sentinel; the class only feeds the diagnostic side channel.
type FeedError struct {
	StatusCode int
	Class      ErrorClass
	Endpoint   string
	Err        error
}

// Error implements the error interface.
func (e *FeedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("feed %s error on %s: %v", e.Class, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("feed %s error on %s (status %d)", e.Class, e.Endpoint, e.StatusCode)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FeedError) Unwrap() error {
	return e.Err
}
