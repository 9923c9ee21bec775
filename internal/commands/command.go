// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"todos/internal/config"
	"todos/internal/tasklist"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsStore returns true if the command operates on the task list.
	// Commands like help, version, login, logout return false.
	NeedsStore() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *pflag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths).
	// store is nil if NeedsStore() returns false.
	// args contains positional arguments after flag parsing.
	// in is read by commands that prompt for confirmation.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, store *tasklist.Store, args []string, in io.Reader, out, errOut io.Writer) int
}

// Interactive is implemented by commands that take over the terminal.
// Their logs must not be written to stderr.
type Interactive interface {
	Interactive() bool
}

// IsInteractive reports whether c takes over the terminal.
func IsInteractive(c Command) bool {
	i, ok := c.(Interactive)
	return ok && i.Interactive()
}
