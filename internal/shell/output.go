package shell

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"tsh/internal/jobs"
)

// output is the writer for everything the shell tells the user. The main flow
// and the signal goroutine both print through it, so every line is written
// under one lock.
type output struct {
	w  *bufio.Writer
	mu sync.Mutex
}

func newOutput(w io.Writer) *output {
	return &output{w: bufio.NewWriter(w)}
}

func (o *output) printf(format string, args ...any) {
	o.mu.Lock()
	fmt.Fprintf(o.w, format, args...)
	o.mu.Unlock()
}

// notify prints and flushes straight away, for messages that don't belong to
// the command being evaluated.
func (o *output) notify(format string, args ...any) {
	o.mu.Lock()
	fmt.Fprintf(o.w, format, args...)
	o.w.Flush()
	o.mu.Unlock()
}

func (o *output) jobs(list []jobs.Job) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return writeJobs(o.w, list)
}

func (o *output) flush() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.w.Flush()
}

// writeJobs prints one line per job in the format of the jobs built-in.
func writeJobs(w io.Writer, list []jobs.Job) error {
	for _, j := range list {
		if _, err := fmt.Fprintf(w, "(%d) (%d) %-10s %s\n", j.JID, j.PID, j.State.Label(), j.Cmdline); err != nil {
			return err
		}
	}

	return nil
}
