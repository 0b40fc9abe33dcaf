package shell

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"syscall"

	"tsh/internal/jobs"
	"tsh/internal/proc"
)

// launch starts c as a new job. Starting the process and registering it
// happen in one critical section, so the reaper can't see the child exit
// before there is a job to delete.
func (s *Shell) launch(ctx context.Context, c command) error {
	state := jobs.Foreground
	if c.background {
		state = jobs.Background
	}

	var (
		job jobs.Job
		err error
	)
	s.registry.Do(func(t *jobs.Table) {
		job, err = s.startJob(t, c, state)
	})

	var se *startError
	switch {
	case errors.Is(err, jobs.ErrTableFull):
		s.out.printf("Tried to create too many jobs\n")
		return nil
	case errors.As(err, &se) && proc.IsResourceError(se.err):
		return fatalf("fork error: %w", se.err)
	case errors.As(err, &se):
		s.logger.Debug("start failed", "cmd", se.name, "err", se.err)
		s.out.printf("%s: Command not found\n", se.name)
		return nil
	case err != nil:
		return err
	}

	s.logger.Debug("Added job", "jid", job.JID, "pid", job.PID, "cmdline", job.Cmdline)

	if state == jobs.Background {
		s.out.printf("(%d) (%d) %s\n", job.JID, job.PID, job.Cmdline)
		return nil
	}

	return s.waitForeground(ctx, job.PID)
}

// startJob must be called inside a Registry critical section.
func (s *Shell) startJob(t *jobs.Table, c command, state jobs.State) (jobs.Job, error) {
	if t.Full() {
		return jobs.Job{}, jobs.ErrTableFull
	}

	cmd := exec.Command(c.argv[0], c.argv[1:]...)
	cmd.Env = os.Environ()
	cmd.SysProcAttr = proc.SysProcAttr()

	// Leave the interface nil rather than holding a nil *os.File, which exec
	// would try to use.
	if s.stdin != nil {
		cmd.Stdin = s.stdin
	}
	if s.stdout != nil {
		cmd.Stdout = s.stdout
	}
	if s.stderr != nil {
		cmd.Stderr = s.stderr
	}

	if err := cmd.Start(); err != nil {
		return jobs.Job{}, &startError{name: c.argv[0], err: err}
	}

	pid := cmd.Process.Pid

	// The reaper collects the child with wait4, so exec.Cmd.Wait is never
	// called.
	if err := cmd.Process.Release(); err != nil {
		s.logger.Warn("release process", "pid", pid, "err", err)
	}

	if _, err := t.Insert(pid, state, c.text); err != nil {
		// An untracked child could never be waited on or resumed.
		if kerr := s.kill(pid, syscall.SIGKILL); kerr != nil {
			s.logger.Warn("kill untracked child", "pid", pid, "err", kerr)
		}
		return jobs.Job{}, err
	}

	job, _ := t.FindByPID(pid)

	return job, nil
}
