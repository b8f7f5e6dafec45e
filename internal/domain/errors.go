package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling at the boundary.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	// ErrNotFound is a lookup miss. It is a valid result, not a failure of the
	// store; callers typically convert it into a navigation fallback.
	ErrNotFound = errors.New("not found")

	// ErrPersistence means the backing store is unreadable, unwritable or holds
	// a corrupt payload. It is never swallowed into an empty result.
	ErrPersistence = errors.New("persistence failure")

	// ErrValidation indicates invalid input
	ErrValidation = errors.New("validation failed")

	// ErrMalformedGeneration means the generation collaborator returned an
	// unusable shape (missing the slides sequence entirely).
	ErrMalformedGeneration = errors.New("malformed generation result")

	// ErrExport covers image load failures and document assembly failures.
	ErrExport = errors.New("export failed")

	// ErrExportInProgress rejects a second export while one is in flight.
	ErrExportInProgress = errors.New("export already in progress")

	// ErrPresentationClosed is returned when an operation resolves after the
	// presentation was torn down; its result is discarded.
	ErrPresentationClosed = errors.New("presentation closed")
)

// Typed errors implementing HTTPError
type (
	// NotFoundError indicates a deck was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// Is allows errors.Is() to match against the sentinels
func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
