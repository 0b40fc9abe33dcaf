// Command tsh is a small interactive shell with job control.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"
)

func main() {
	if err := newCLI(afero.NewOsFs()).rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
