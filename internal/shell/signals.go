package shell

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"tsh/internal/jobs"
	"tsh/internal/proc"
)

// signalBufferSize keeps a burst of terminal signals from being dropped while
// the reaper is draining.
const signalBufferSize = 16

func (s *Shell) setupSignalHandling() {
	s.signalChan = make(chan os.Signal, signalBufferSize)
	s.signalsDone = make(chan struct{})

	signal.Ignore(syscall.SIGTTIN, syscall.SIGTTOU)
	signal.Notify(s.signalChan, syscall.SIGINT, syscall.SIGTSTP, syscall.SIGCHLD, syscall.SIGQUIT)

	go s.handleSignals()
}

func (s *Shell) stopSignalHandling() {
	signal.Stop(s.signalChan)
	close(s.signalChan)
	<-s.signalsDone
}

// handleSignals is the only place signals are acted on. Everything it calls
// runs as ordinary Go code on this goroutine.
func (s *Shell) handleSignals() {
	defer close(s.signalsDone)

	for sig := range s.signalChan {
		switch sig {
		case syscall.SIGINT, syscall.SIGTSTP:
			s.forward(sig.(syscall.Signal))
		case syscall.SIGCHLD:
			s.reapChildren()
		case syscall.SIGQUIT:
			s.out.notify("Terminating after receipt of SIGQUIT signal\n")
			s.exit(1)
		}
	}
}

// forward relays an interrupt or stop typed at the terminal to the whole
// process group of the foreground job. With no foreground job it does
// nothing, so the shell itself is never interrupted or stopped.
func (s *Shell) forward(sig syscall.Signal) {
	var err error
	s.registry.View(func(t *jobs.Table) {
		pid, ok := t.ForegroundPID()
		if !ok {
			return
		}

		s.logger.Debug("forward signal", "signal", sig, "pgid", pid)
		err = s.kill(pid, sig)
	})

	if err != nil {
		s.fatal(err)
	}
}

// Handle child process status changes
func (s *Shell) reapChildren() {
	var err error
	s.registry.Drain(func(m jobs.Mutator) {
		err = reap(m, s.waitAny, s.out, s.logger)
	})

	if err != nil {
		s.fatal(err)
	}
}

// reap collects every pending child status change and applies it to the job
// table. It returns once no more changes are pending and never waits for a
// child that is still running.
func reap(
	m jobs.Mutator,
	wait func() (proc.Status, bool, error),
	out *output,
	logger *slog.Logger,
) error {
	for {
		st, ok, err := wait()
		if err != nil {
			return err
		}

		if !ok {
			return nil
		}

		j, known := m.FindByPID(st.PID)
		if !known {
			logger.Debug("reaped untracked child", "pid", st.PID)
			continue
		}

		switch {
		case st.Signaled():
			out.notify("Job [%d] (%d) terminated by signal %d\n", j.JID, j.PID, int(st.Signal()))
			m.Delete(st.PID)

		case st.Stopped():
			if err := m.SetState(st.PID, jobs.Stopped); err != nil {
				logger.Warn("stop job", "pid", st.PID, "err", err)
				continue
			}
			out.notify("Job [%d] (%d) stopped by signal %d\n", j.JID, j.PID, int(st.Signal()))

		case st.Exited():
			logger.Debug("job exited", "jid", j.JID, "pid", j.PID, "code", st.ExitCode())
			m.Delete(st.PID)
		}
	}
}
