package shell

import (
	"errors"
	"fmt"
)

// ErrQuit is returned by Execute when the quit built-in runs.
var ErrQuit = errors.New("quit")

// fatalError is a failure of a process-management primitive. The shell can't
// trust its job table after one, so it stops.
type fatalError struct {
	err error
}

func (e *fatalError) Error() string {
	return e.err.Error()
}

func (e *fatalError) Unwrap() error {
	return e.err
}

func fatalf(format string, args ...any) error {
	return &fatalError{fmt.Errorf(format, args...)}
}

// startError is returned when a child process could not be started.
type startError struct {
	name string
	err  error
}

func (e *startError) Error() string {
	return fmt.Sprintf("start %s: %v", e.name, e.err)
}

func (e *startError) Unwrap() error {
	return e.err
}
