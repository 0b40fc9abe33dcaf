package shell

import (
	"bufio"
	"io"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"tsh/internal/config"
)

type lineReader interface {
	Readline() (string, error)
	Close() error
}

// plainReader reads commands from a non-terminal input such as a pipe or a
// test driver.
type plainReader struct {
	scanner *bufio.Scanner
	out     *output
	prompt  string
}

func newPlainReader(r io.Reader, out *output, prompt string) *plainReader {
	return &plainReader{
		scanner: bufio.NewScanner(r),
		out:     out,
		prompt:  prompt,
	}
}

func (r *plainReader) Readline() (string, error) {
	if r.prompt != "" {
		r.out.printf("%s", r.prompt)
		r.out.flush()
	}

	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return r.scanner.Text(), nil
}

func (r *plainReader) Close() error {
	return nil
}

func newReadline(cfg *config.Config) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:              prompt(cfg),
		HistoryFile:         cfg.HistoryFile,
		FuncFilterInputRune: filterInputRune,
	})
}

// filterInputRune drops Ctrl-Z at the prompt. readline would otherwise try to
// suspend the shell itself.
func filterInputRune(r rune) (rune, bool) {
	if r == readline.CharCtrlZ {
		return r, false
	}

	return r, true
}

func prompt(cfg *config.Config) string {
	if !cfg.EmitPrompt {
		return ""
	}

	if cfg.Color {
		return color.New(color.FgGreen, color.Bold).Sprint(cfg.Prompt)
	}

	return cfg.Prompt
}
