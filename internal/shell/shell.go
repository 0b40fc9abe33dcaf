package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"syscall"

	"github.com/chzyer/readline"

	"tsh/internal/config"
	"tsh/internal/jobs"
	"tsh/internal/proc"
)

type Shell struct {
	config   *config.Config
	registry *jobs.Registry
	logger   *slog.Logger
	out      *output
	reader   lineReader

	signalChan  chan os.Signal
	signalsDone chan struct{}

	// stdio handed to every child; nil means /dev/null
	stdin, stdout, stderr *os.File

	input   io.Reader
	writer  io.Writer
	waitAny func() (proc.Status, bool, error)
	kill    func(pid int, sig syscall.Signal) error
	exit    func(code int)
}

type Option func(s *Shell)

// WithInput reads commands from r instead of the terminal.
func WithInput(r io.Reader) Option {
	return func(s *Shell) { s.input = r }
}

// WithOutput writes shell messages to w.
func WithOutput(w io.Writer) Option {
	return func(s *Shell) { s.writer = w }
}

// WithChildStdio sets the files children are started with.
func WithChildStdio(stdin, stdout, stderr *os.File) Option {
	return func(s *Shell) {
		s.stdin, s.stdout, s.stderr = stdin, stdout, stderr
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Shell) { s.logger = logger }
}

// WithExit replaces os.Exit for fatal errors and SIGQUIT.
func WithExit(fn func(code int)) Option {
	return func(s *Shell) { s.exit = fn }
}

func New(cfg *config.Config, opts ...Option) (*Shell, error) {
	s := &Shell{
		config:   cfg,
		registry: jobs.NewRegistry(cfg.MaxJobs),
		logger:   slog.Default(),
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		input:    os.Stdin,
		writer:   os.Stdout,
		waitAny:  proc.WaitAny,
		kill:     proc.SignalGroup,
		exit:     os.Exit,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.interactive() {
		rl, err := newReadline(cfg)
		if err != nil {
			return nil, fmt.Errorf("error initializing readline: %w", err)
		}

		s.reader = rl
		s.out = newOutput(rl.Stdout())

		return s, nil
	}

	s.out = newOutput(s.writer)
	s.reader = newPlainReader(s.input, s.out, prompt(cfg))

	return s, nil
}

// Run reads and evaluates commands until EOF or quit. It returns an error only
// when the shell can't go on.
func (s *Shell) Run(ctx context.Context) error {
	s.setupSignalHandling()
	defer s.stopSignalHandling()
	defer s.reader.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := s.reader.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			return s.out.flush()
		case err != nil:
			return fmt.Errorf("read command: %w", err)
		}

		err = s.Execute(ctx, line)

		var fatal *fatalError
		switch {
		case errors.Is(err, ErrQuit):
			return s.out.flush()
		case errors.As(err, &fatal), errors.Is(err, context.Canceled):
			s.out.flush()
			return err
		case err != nil:
			s.out.printf("Error: %v\n", err)
		}

		s.out.flush()
	}
}

// Execute evaluates one command line. Built-ins run in the shell; anything
// else is started as a job.
func (s *Shell) Execute(ctx context.Context, input string) error {
	c, err := parseLine(input)
	if err != nil {
		return err
	}

	if len(c.argv) == 0 {
		return nil
	}

	if ok, err := s.executeBuiltin(ctx, c.argv); ok {
		return err
	}

	return s.launch(ctx, c)
}

// Jobs returns a snapshot of the job table.
func (s *Shell) Jobs() []jobs.Job {
	return s.registry.List()
}

func (s *Shell) interactive() bool {
	f, ok := s.input.(*os.File)
	if !ok || !s.config.EmitPrompt {
		return false
	}

	return readline.IsTerminal(int(f.Fd()))
}

// fatal reports a failure from outside the main flow and stops the shell.
func (s *Shell) fatal(err error) {
	s.out.notify("%v\n", err)
	s.exit(1)
}
