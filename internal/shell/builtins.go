package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"syscall"

	"tsh/internal/jobs"
)

func (s *Shell) executeBuiltin(ctx context.Context, args []string) (bool, error) {
	switch args[0] {
	case "quit":
		return true, ErrQuit
	case "jobs":
		return true, s.out.jobs(s.registry.List())
	case "bg", "fg":
		return true, s.resume(ctx, args)
	case "&":
		return true, nil
	default:
		return false, nil
	}
}

// target is a bg/fg argument: %jid or a bare pid.
type target struct {
	id    int
	isJID bool
}

func parseTarget(arg string) (target, error) {
	if rest, ok := strings.CutPrefix(arg, "%"); ok {
		jid, err := strconv.Atoi(rest)
		if err != nil {
			return target{}, err
		}
		return target{id: jid, isJID: true}, nil
	}

	pid, err := strconv.Atoi(arg)
	if err != nil {
		return target{}, err
	}

	return target{id: pid}, nil
}

func (tg target) lookup(t *jobs.Table) (jobs.Job, bool) {
	if tg.isJID {
		return t.FindByJID(tg.id)
	}

	return t.FindByPID(tg.id)
}

func (tg target) notFound() string {
	if tg.isJID {
		return fmt.Sprintf("%%%d: No such job", tg.id)
	}

	return fmt.Sprintf("(%d): No such process", tg.id)
}

// resume runs bg or fg. The lookup, the state change and the SIGCONT happen
// in one critical section so the reaper can't delete the job in between.
func (s *Shell) resume(ctx context.Context, args []string) error {
	name := args[0]
	if len(args) < 2 {
		s.out.printf("%s command requires PID or %%jobid argument\n", name)
		return nil
	}

	tg, err := parseTarget(args[1])
	if err != nil {
		s.out.printf("%s: argument must be a PID or %%jobid\n", name)
		return nil
	}

	state := jobs.Background
	if name == "fg" {
		state = jobs.Foreground
	}

	var (
		job   jobs.Job
		found bool
	)
	s.registry.Do(func(t *jobs.Table) {
		job, found = tg.lookup(t)
		if !found {
			return
		}

		if err = t.SetState(job.PID, state); err != nil {
			return
		}

		if state == jobs.Background {
			s.out.printf("[%d] (%d) %s\n", job.JID, job.PID, job.Cmdline)
		}

		if kerr := s.kill(job.PID, syscall.SIGCONT); kerr != nil {
			err = &fatalError{kerr}
		}
	})

	if !found {
		s.out.printf("%s\n", tg.notFound())
		return nil
	}

	if err != nil {
		if errors.Is(err, jobs.ErrForegroundBusy) {
			return fmt.Errorf("%s: %w", name, err)
		}
		return err
	}

	if state == jobs.Foreground {
		return s.waitForeground(ctx, job.PID)
	}

	return nil
}
