package engine

import (
	"errors"
	"fmt"
)

// Fatal precondition sentinels. Match with errors.Is against Result.Err.
var (
	ErrSourceMissing    = errors.New("source does not exist")
	ErrSourceNotDir     = errors.New("source is not a directory")
	ErrDestInsideSource = errors.New("destination is inside the source")
)

// ErrParentNotCreated is recorded for tasks whose destination parent
// directory could not be created. No I/O is attempted for them.
var ErrParentNotCreated = errors.New("parent directory was not created")

// FatalError aborts the run before any task executes.
type FatalError struct {
	Reason error // one of the Err* sentinels above
	Path   string
	Err    error // underlying cause, may be nil
}

func (e *FatalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Reason)
}

func (e *FatalError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}

// RunError summarises the non-fatal errors a completed run recorded.
type RunError struct {
	Count int64
	First error
}

func (e *RunError) Error() string {
	if e.Count == 1 {
		return e.First.Error()
	}
	return fmt.Sprintf("%v (and %d more errors)", e.First, e.Count-1)
}

func (e *RunError) Unwrap() error { return e.First }

func fatal(reason error, path string, cause error) *FatalError {
	return &FatalError{Reason: reason, Path: path, Err: cause}
}
