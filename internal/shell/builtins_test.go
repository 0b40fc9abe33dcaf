package shell

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsh/internal/jobs"
)

func TestBuiltinJobs(t *testing.T) {
	s, buf := newTestShell(t, nil)
	addJob(t, s, 4242, jobs.Background, "sleep 100 &")
	addJob(t, s, 4243, jobs.Stopped, "sleep 200")

	execute(t, s, "jobs")

	assert.Equal(t,
		"(1) (4242) Running    sleep 100 &\n"+
			"(2) (4243) Stopped    sleep 200\n",
		buf.String(),
	)
}

func TestBuiltinQuit(t *testing.T) {
	s, _ := newTestShell(t, nil)

	assert.ErrorIs(t, s.Execute(context.Background(), "quit"), ErrQuit)
}

func TestBuiltinAmpersand(t *testing.T) {
	s, buf := newTestShell(t, nil)

	execute(t, s, "&")
	execute(t, s, "& &")

	assert.Empty(t, buf.String())
	assert.Empty(t, s.Jobs())
}

func TestBuiltinBg(t *testing.T) {
	t.Run("Test by job id", func(t *testing.T) {
		k := &killRecorder{}
		s, buf := newTestShell(t, nil)
		s.kill = k.kill
		addJob(t, s, 4242, jobs.Stopped, "sleep 100")

		execute(t, s, "bg %1")

		assert.Equal(t, "[1] (4242) sleep 100\n", buf.String())
		assert.Equal(t, []killCall{{4242, syscall.SIGCONT}}, k.Calls())

		j, ok := findJob(s, 4242)
		require.True(t, ok)
		assert.Equal(t, jobs.Background, j.State)
	})

	t.Run("Test by pid", func(t *testing.T) {
		k := &killRecorder{}
		s, buf := newTestShell(t, nil)
		s.kill = k.kill
		addJob(t, s, 4000, jobs.Background, "sleep 1 &")
		addJob(t, s, 4242, jobs.Stopped, "sleep 100")

		execute(t, s, "bg 4242")

		assert.Equal(t, "[2] (4242) sleep 100\n", buf.String())
		assert.Equal(t, []killCall{{4242, syscall.SIGCONT}}, k.Calls())
	})

	t.Run("Test kill failure is fatal", func(t *testing.T) {
		k := &killRecorder{err: errors.New("kill error: operation not permitted")}
		s, _ := newTestShell(t, nil)
		s.kill = k.kill
		addJob(t, s, 4242, jobs.Stopped, "sleep 100")

		err := s.Execute(context.Background(), "bg %1")

		var fatal *fatalError
		assert.ErrorAs(t, err, &fatal)
	})
}

func TestBuiltinFg(t *testing.T) {
	k := &killRecorder{}
	s, buf := newTestShell(t, nil)
	s.kill = k.kill
	addJob(t, s, 4242, jobs.Stopped, "sleep 100")

	done := make(chan error, 1)
	go func() {
		done <- s.Execute(context.Background(), "fg %1")
	}()

	require.Eventually(t, func() bool {
		return s.registry.IsForeground(4242)
	}, 5*time.Second, time.Millisecond)

	select {
	case err := <-done:
		t.Fatalf("fg returned while job in foreground: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	s.registry.Drain(func(m jobs.Mutator) {
		m.SetState(4242, jobs.Stopped)
	})

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("fg did not return after job stopped")
	}

	assert.Empty(t, buf.String())
	assert.Equal(t, []killCall{{4242, syscall.SIGCONT}}, k.Calls())
}

func TestBuiltinFgWaiterCancelled(t *testing.T) {
	s, _ := newTestShell(t, nil)
	s.kill = (&killRecorder{}).kill
	addJob(t, s, 4242, jobs.Stopped, "sleep 100")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, s.Execute(ctx, "fg 4242"), context.DeadlineExceeded)
}

func TestBuiltinTargetErrors(t *testing.T) {
	cases := map[string]string{
		"bg %9":   "%9: No such job\n",
		"fg %9":   "%9: No such job\n",
		"bg 777":  "(777): No such process\n",
		"fg 777":  "(777): No such process\n",
		"bg":      "bg command requires PID or %jobid argument\n",
		"fg":      "fg command requires PID or %jobid argument\n",
		"fg abc":  "fg: argument must be a PID or %jobid\n",
		"bg %abc": "bg: argument must be a PID or %jobid\n",
	}

	for line, want := range cases {
		t.Run(line, func(t *testing.T) {
			k := &killRecorder{}
			s, buf := newTestShell(t, nil)
			s.kill = k.kill
			addJob(t, s, 4242, jobs.Stopped, "sleep 100")

			execute(t, s, line)

			assert.Equal(t, want, buf.String())
			assert.Empty(t, k.Calls())

			j, ok := findJob(s, 4242)
			require.True(t, ok)
			assert.Equal(t, jobs.Stopped, j.State)
		})
	}
}

func TestWaitForegroundAbsentJob(t *testing.T) {
	s, _ := newTestShell(t, nil)

	done := make(chan error, 1)
	go func() {
		done <- s.waitForeground(context.Background(), 4242)
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("waiter blocked on absent job")
	}
}
