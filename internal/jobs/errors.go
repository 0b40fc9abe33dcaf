package jobs

import (
	"errors"
	"fmt"
)

var (
	ErrTableFull      = errors.New("tried to create too many jobs")
	ErrJobNotFound    = errors.New("job not found")
	ErrForegroundBusy = errors.New("another job is already in the foreground")
	ErrJobExists      = errors.New("job already exists")
)

// InvalidPIDError is returned when a process id that can never belong to a
// job is passed to the Table.
type InvalidPIDError struct {
	pid int
}

func (e InvalidPIDError) Error() string {
	return fmt.Sprintf("invalid pid %d", e.pid)
}

// InvalidStateError is returned when a job is asked to enter a state it can't
// hold, like Undefined.
type InvalidStateError struct {
	state State
}

func (e InvalidStateError) Error() string {
	return fmt.Sprintf("invalid job state %s", e.state)
}
