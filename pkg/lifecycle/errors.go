package lifecycle

import (
	"errors"
	"fmt"
)

// ErrStageFailed matches any *StageError with errors.Is.
var ErrStageFailed = errors.New("lifecycle stage failed")

// StageError is the failure that ended a pipeline run.
type StageError struct {
	Stage string
	Path  string
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed for %s: %v", e.Stage, e.Path, e.Err)
}

// Unwrap returns the underlying filesystem or context error.
func (e *StageError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrStageFailed.
func (e *StageError) Is(target error) bool {
	return target == ErrStageFailed
}
