package capture

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecondition marks a capture that could not start because the
	// target is absent or not mounted.
	ErrPrecondition = errors.New("capture precondition violated")

	// ErrNotMounted is returned by backends when the selector matches
	// nothing in the loaded document.
	ErrNotMounted = errors.New("capture target not mounted")
)

// PreconditionError reports a missing or detached capture target.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("capture precondition violated: %s", e.Reason)
}

func (e *PreconditionError) Is(target error) bool { return target == ErrPrecondition }

// Error wraps a failure thrown by the underlying capture mechanism.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("capture %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
