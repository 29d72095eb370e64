package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownConfigKey indicates a settings key that locselect does not recognise.
	ErrUnknownConfigKey = errors.New("unknown config key")

	// Location Data Service Errors.

	// ErrNetworkFailure indicates the request could not complete.
	// Timeouts and cancellations are reported as network failures.
	ErrNetworkFailure = errors.New("network failure")

	// ErrHTTPStatus indicates the service answered with a non-success status code.
	ErrHTTPStatus = errors.New("unexpected http status")

	// ErrMalformedResponse indicates the body was not a JSON array of strings.
	ErrMalformedResponse = errors.New("malformed response")
)

// HTTPError carries the status code of a non-success response.
// It matches ErrHTTPStatus with errors.Is.
type HTTPError struct {
	StatusCode int
	Body       string
}

// Error implements error.
func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: %d", ErrHTTPStatus, e.StatusCode)
	}
	return fmt.Sprintf("%s: %d: %s", ErrHTTPStatus, e.StatusCode, e.Body)
}

// Is reports whether target is ErrHTTPStatus.
func (e *HTTPError) Is(target error) bool {
	return target == ErrHTTPStatus
}

// FailureMessage returns the user-visible message for a failed fetch at level.
// Every failure kind collapses into this one message.
func FailureMessage(level Level) string {
	return fmt.Sprintf("Failed to load %s.", level.Plural())
}

// OptionNotFoundError reports a name that is not among the options loaded
// for its level. It matches ErrNotFound with errors.Is.
type OptionNotFoundError struct {
	Level Level
	Name  string
	Key   SelectionKey

	// Suggestion is the closest known option, or empty.
	Suggestion string
}

// Error implements error.
func (e *OptionNotFoundError) Error() string {
	msg := fmt.Sprintf("%s %q not found", e.Level, e.Name)
	if e.Key.Country != "" {
		msg += " in " + e.Key.String()
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// Is reports whether target is ErrNotFound.
func (e *OptionNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
