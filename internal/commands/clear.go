package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/tasklist"
)

func init() {
	Register(&ClearCmd{})
	Register(&ResetCmd{})
}

// ClearCmd implements the clear command.
type ClearCmd struct {
	yes bool
}

// SetYes skips the confirmation prompt (for testing).
func (c *ClearCmd) SetYes(yes bool) {
	c.yes = yes
}

func (c *ClearCmd) Name() string      { return "clear" }
func (c *ClearCmd) Aliases() []string { return nil }
func (c *ClearCmd) Synopsis() string  { return "Remove all completed tasks" }
func (c *ClearCmd) Usage() string     { return "todos clear [--yes]" }
func (c *ClearCmd) NeedsStore() bool  { return true }

func (c *ClearCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.yes, "yes", "y", false, "")
}

func (c *ClearCmd) Run(ctx context.Context, cfg *config.Config, store *tasklist.Store, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	decide := tasklist.Always
	if !c.yes {
		decide = prompt(in, errOut, func(p tasklist.Pending) string {
			return fmt.Sprintf("Remove %d completed task(s)?", p.Affected)
		})
	}

	n, err := store.ClearCompleted(ctx, decide)
	return reportConfirmed(cfg, "no completed tasks to clear", fmt.Sprintf("removed %d completed task(s)", n), err, out, errOut)
}

// ResetCmd implements the reset command.
type ResetCmd struct {
	yes bool
}

// SetYes skips the confirmation prompt (for testing).
func (c *ResetCmd) SetYes(yes bool) {
	c.yes = yes
}

func (c *ResetCmd) Name() string      { return "reset" }
func (c *ResetCmd) Aliases() []string { return nil }
func (c *ResetCmd) Synopsis() string  { return "Remove every task" }
func (c *ResetCmd) Usage() string     { return "todos reset [--yes]" }
func (c *ResetCmd) NeedsStore() bool  { return true }

func (c *ResetCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.yes, "yes", "y", false, "")
}

func (c *ResetCmd) Run(ctx context.Context, cfg *config.Config, store *tasklist.Store, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	decide := tasklist.Always
	if !c.yes {
		decide = prompt(in, errOut, func(p tasklist.Pending) string {
			return fmt.Sprintf("Remove ALL %d task(s)? This cannot be undone.", p.Affected)
		})
	}

	n, err := store.ResetAll(ctx, decide)
	return reportConfirmed(cfg, "no tasks to reset", fmt.Sprintf("removed %d task(s)", n), err, out, errOut)
}

// reportConfirmed handles the outcomes shared by clear and reset.
// Nothing to do and a declined prompt both succeed.
func reportConfirmed(cfg *config.Config, emptyMsg, doneMsg string, err error, out, errOut io.Writer) int {
	switch {
	case errors.Is(err, tasklist.ErrEmptyOperation):
		if !cfg.Quiet {
			fmt.Fprintln(out, emptyMsg)
		}
		return exitcode.Success
	case errors.Is(err, tasklist.ErrDeclined):
		if !cfg.Quiet {
			fmt.Fprintln(out, "cancelled")
		}
		return exitcode.Success
	}
	return reportMutation(cfg, doneMsg, err, out, errOut)
}
