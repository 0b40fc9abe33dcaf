package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tsh/internal/config"
	"tsh/internal/shell"
)

const version = "0.1.0"

type flags struct {
	configPath string
	verbose    bool
	noPrompt   bool
}

type cli struct {
	fs        afero.Fs
	shellOpts []shell.Option
}

func newCLI(fs afero.Fs, opts ...shell.Option) *cli {
	return &cli{fs: fs, shellOpts: opts}
}

func (c *cli) rootCmd() *cobra.Command {
	f := &flags{}

	command := &cobra.Command{
		Use:           "tsh",
		Short:         "A tiny shell with job control",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.fs, f.configPath)
			if err != nil {
				return fmt.Errorf("Error loading config: %w", err)
			}

			applyFlags(cfg, cmd.Flags(), f)

			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)

			opts := append([]shell.Option{shell.WithLogger(logger)}, c.shellOpts...)
			s, err := shell.New(cfg, opts...)
			if err != nil {
				return fmt.Errorf("Error initializing shell: %w", err)
			}

			logger.Debug("shell started", "max_jobs", cfg.MaxJobs, "prompt", cfg.EmitPrompt)

			return s.Run(cmd.Context())
		},
	}

	command.CompletionOptions.DisableDefaultCmd = true

	command.Flags().StringVar(
		&f.configPath,
		"config",
		config.DefaultFile,
		"Path to the YAML configuration file",
	)

	command.Flags().BoolVarP(
		&f.verbose,
		"verbose",
		"v",
		false,
		"Print debug messages",
	)

	command.Flags().BoolVarP(
		&f.noPrompt,
		"no-prompt",
		"p",
		false,
		"Do not emit a command prompt",
	)

	return command
}

// applyFlags lets flags given on the command line win over the file.
func applyFlags(cfg *config.Config, fs *pflag.FlagSet, f *flags) {
	if fs.Changed("verbose") {
		cfg.Verbose = f.verbose
	}

	if fs.Changed("no-prompt") {
		cfg.EmitPrompt = !f.noPrompt
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})).
		With("session", uuid.NewString())
}
