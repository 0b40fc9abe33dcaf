package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

const (
	DefaultFile         = "config.yml"
	DefaultPrompt       = "tsh> "
	DefaultMaxJobs      = 16
	DefaultPollInterval = 50 * time.Millisecond
	historyFileName     = ".tsh_history"
)

type Config struct {
	Prompt       string        `yaml:"prompt"`
	EmitPrompt   bool          `yaml:"emit_prompt"`
	Verbose      bool          `yaml:"verbose"`
	Color        bool          `yaml:"color"`
	MaxJobs      int           `yaml:"max_jobs" validate:"gte=1,lte=1024"`
	PollInterval time.Duration `yaml:"poll_interval" validate:"gt=0"`
	HistoryFile  string        `yaml:"history_file"`
	HomeDir      string        `yaml:"home_dir"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Prompt:       DefaultPrompt,
		EmitPrompt:   true,
		MaxJobs:      DefaultMaxJobs,
		PollInterval: DefaultPollInterval,
	}
}

// Load reads the YAML file at path from fsys on top of the defaults. A missing
// file is not an error.
func Load(fsys afero.Fs, path string) (*Config, error) {
	cfg := Default()

	data, err := afero.ReadFile(fsys, path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.UnmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.complete(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate the configuration for basic semantic errors.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
	})

	return validate.Struct(c)
}

func (c *Config) complete() error {
	var err error

	if c.HomeDir == "" {
		c.HomeDir, err = os.UserHomeDir()
		if err != nil {
			return err
		}
	}

	if c.HistoryFile == "" {
		c.HistoryFile = filepath.Join(c.HomeDir, historyFileName)
	}

	return nil
}
