package shell

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
)

// command is one parsed command line.
type command struct {
	argv       []string
	background bool
	text       string
}

// parseLine splits line into words. A last word beginning with '&' asks for
// the job to run in the background and is dropped from argv.
func parseLine(line string) (command, error) {
	text := strings.TrimRight(line, "\r\n")

	words, err := shellquote.Split(text)
	if err != nil {
		return command{}, fmt.Errorf("error parsing command: %w", err)
	}

	c := command{argv: words, text: strings.TrimSpace(text)}
	if n := len(words); n > 0 && strings.HasPrefix(words[n-1], "&") {
		c.background = true
		c.argv = words[:n-1]
	}

	return c, nil
}
