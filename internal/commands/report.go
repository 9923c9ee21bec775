package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/tasklist"
)

// reportMutation prints the outcome of a store mutation and returns the exit
// code. A failed save keeps the in-memory change: msg is still printed,
// followed by a warning, and the exit code is StorageError.
func reportMutation(cfg *config.Config, msg string, err error, out, errOut io.Writer) int {
	var perr *tasklist.PersistError
	if err != nil && !errors.As(err, &perr) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if !cfg.Quiet && msg != "" {
		fmt.Fprintln(out, msg)
	}

	if perr != nil {
		fmt.Fprintf(errOut, "warning: task list not saved: %v\n", perr.Err)
		return exitcode.StorageError
	}
	return exitcode.Success
}

// prompt returns a Decision that asks question on errOut and reads the
// answer from in. Only "y" and "yes" grant; EOF declines.
func prompt(in io.Reader, errOut io.Writer, question func(tasklist.Pending) string) tasklist.Decision {
	return func(p tasklist.Pending) bool {
		fmt.Fprintf(errOut, "%s [y/N] ", question(p))
		answer, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && answer == "" {
			fmt.Fprintln(errOut)
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

// isTerminal reports whether f is an *os.File attached to a terminal.
func isTerminal(f interface{}) bool {
	file, ok := f.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
