package proc

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// Status is a child status change reported by the kernel.
type Status struct {
	PID    int
	status unix.WaitStatus
}

func (s Status) Exited() bool   { return s.status.Exited() }
func (s Status) Signaled() bool { return s.status.Signaled() }
func (s Status) Stopped() bool  { return s.status.Stopped() }

// Signal returns the signal that terminated or stopped the child.
func (s Status) Signal() syscall.Signal {
	if s.status.Stopped() {
		return syscall.Signal(s.status.StopSignal())
	}

	return syscall.Signal(s.status.Signal())
}

func (s Status) ExitCode() int {
	return s.status.ExitStatus()
}

// ExitStatus, SignalStatus and StopStatus build a Status in the Linux wait
// encoding without a real child.
func ExitStatus(pid, code int) Status {
	return Status{PID: pid, status: unix.WaitStatus(code&0xff) << 8}
}

func SignalStatus(pid int, sig syscall.Signal) Status {
	return Status{PID: pid, status: unix.WaitStatus(sig) & 0x7f}
}

func StopStatus(pid int, sig syscall.Signal) Status {
	return Status{PID: pid, status: unix.WaitStatus(sig)<<8 | 0x7f}
}
