// Package proc wraps the process-management system calls the shell needs:
// starting children in their own process group, collecting child status
// changes without blocking and signalling whole process groups.
package proc

import (
	"errors"
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// SysProcAttr returns the attributes that make a child the leader of a new
// process group, so terminal signals aimed at the shell's group never reach
// it.
func SysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// WaitAny collects one pending status change from any child. It reports false
// when no child has changed state or there are no children left. It never
// blocks waiting for a child.
func WaitAny() (Status, bool, error) {
	for {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-1, &ws, unix.WNOHANG|unix.WUNTRACED, nil)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.ECHILD:
			return Status{}, false, nil
		case err != nil:
			return Status{}, false, fmt.Errorf("waitpid error: %w", err)
		case pid <= 0:
			return Status{}, false, nil
		}

		return Status{PID: pid, status: ws}, true, nil
	}
}

// SignalGroup sends sig to every process in the group led by pid. A group
// that has already gone away is not an error.
func SignalGroup(pid int, sig syscall.Signal) error {
	if pid < 1 {
		return fmt.Errorf("kill error: invalid process group %d", pid)
	}

	if err := unix.Kill(-pid, sig); err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("kill error: %w", err)
	}

	return nil
}

// IsResourceError reports whether err from starting a process means the
// system could not fork, as opposed to the program being unrunnable.
func IsResourceError(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}

	return errno == syscall.EAGAIN || errno == syscall.ENOMEM
}
