package shell

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tsh/internal/config"
	"tsh/internal/jobs"
)

// syncBuffer is a bytes.Buffer the signal goroutine and the test can share.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf.Reset()
}

type killCall struct {
	pid int
	sig syscall.Signal
}

type killRecorder struct {
	calls []killCall
	err   error
	mu    sync.Mutex
}

func (k *killRecorder) kill(pid int, sig syscall.Signal) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.calls = append(k.calls, killCall{pid, sig})

	return k.err
}

func (k *killRecorder) Calls() []killCall {
	k.mu.Lock()
	defer k.mu.Unlock()

	return append([]killCall(nil), k.calls...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestShell(
	t *testing.T,
	configure func(c *config.Config),
	opts ...Option,
) (*Shell, *syncBuffer) {
	t.Helper()

	cfg := config.Default()
	cfg.EmitPrompt = false
	cfg.PollInterval = 5 * time.Millisecond
	cfg.HomeDir = t.TempDir()
	if configure != nil {
		configure(cfg)
	}

	buf := &syncBuffer{}
	defaults := []Option{
		WithInput(strings.NewReader("")),
		WithOutput(buf),
		WithChildStdio(nil, nil, nil),
		WithLogger(discardLogger()),
		WithExit(func(int) {}),
	}

	s, err := New(cfg, append(defaults, opts...)...)
	require.NoError(t, err)

	return s, buf
}

// execute runs one command line and flushes its output.
func execute(t *testing.T, s *Shell, line string) {
	t.Helper()

	require.NoError(t, s.Execute(context.Background(), line))
	require.NoError(t, s.out.flush())
}

func addJob(t *testing.T, s *Shell, pid int, state jobs.State, cmdline string) int {
	t.Helper()

	var (
		jid int
		err error
	)
	s.registry.Do(func(tbl *jobs.Table) {
		jid, err = tbl.Insert(pid, state, cmdline)
	})
	require.NoError(t, err)

	return jid
}

func findJob(s *Shell, pid int) (jobs.Job, bool) {
	for _, j := range s.Jobs() {
		if j.PID == pid {
			return j, true
		}
	}

	return jobs.Job{}, false
}
