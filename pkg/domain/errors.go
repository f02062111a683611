package domain

import (
	"errors"
	"fmt"
)

// ErrUnclassifiedCategory is returned when a Topic's category has no strategy mapping.
var ErrUnclassifiedCategory = errors.New("unclassified category")

// ErrStaleLedgerReference marks a ledger entry whose topic id is not in the catalog.
// It is only ever logged as a warning.
var ErrStaleLedgerReference = errors.New("stale ledger reference")

// ErrInvalidCatalog is returned when a catalog source cannot produce a valid catalog.
var ErrInvalidCatalog = errors.New("invalid catalog")

// ErrLessonNotFound is returned when the lesson store has no content for a topic id.
var ErrLessonNotFound = errors.New("lesson not found")

// ErrInvalidTransition is returned when the session controller is driven out of order.
var ErrInvalidTransition = errors.New("invalid session transition")

// ErrUnsafePath is returned when an artifact path escapes its project directory.
var ErrUnsafePath = errors.New("unsafe workspace path")

// ErrCurriculumComplete is returned when an operation needs a topic but every topic is done.
var ErrCurriculumComplete = errors.New("curriculum complete")

// ErrSessionNotFound is returned when a session ID cannot be found.
var ErrSessionNotFound = errors.New("session not found")

// IOError reports a filesystem or storage failure. Operations are never retried.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError wraps err, or returns nil when err is nil.
func NewIOError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}

// IsIOError reports whether err carries an *IOError.
func IsIOError(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}
