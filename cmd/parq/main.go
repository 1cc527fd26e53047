package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	parqerrors "github.com/vegasq/parq/internal/errors"
)

var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		printError(err)
		os.Exit(parqerrors.ExitCode(err))
	}
}

// printError reports err on stderr, with a red prefix on terminals.
func printError(err error) {
	var w io.Writer = os.Stderr
	prefix := "Error:"
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		w = colorable.NewColorableStderr()
		prefix = "\x1b[31mError:\x1b[0m"
	}
	fmt.Fprintf(w, "%s %v\n", prefix, err)
}
