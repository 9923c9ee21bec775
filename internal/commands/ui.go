package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/tasklist"
	"todos/internal/ui"
)

func init() {
	Register(&UICmd{})
}

// UICmd implements the ui command.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return nil }
func (c *UICmd) Synopsis() string  { return "Open the interactive task list" }
func (c *UICmd) Usage() string     { return "todos ui" }
func (c *UICmd) NeedsStore() bool  { return true }
func (c *UICmd) Interactive() bool { return true }

func (c *UICmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, store *tasklist.Store, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if !isTerminal(in) || !isTerminal(out) {
		fmt.Fprintln(errOut, "error: ui needs an interactive terminal")
		return exitcode.UserError
	}

	err := ui.Run(ctx, store, ui.Options{DateFormat: cfg.DateFormat}, in, out)
	if err != nil {
		if tasklist.IsPersistError(err) {
			fmt.Fprintf(errOut, "warning: %v\n", err)
			return exitcode.StorageError
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
