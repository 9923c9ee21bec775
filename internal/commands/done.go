package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/tasklist"
)

func init() {
	Register(&DoneCmd{})
	Register(&UndoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "todos done <ref>" }
func (c *DoneCmd) NeedsStore() bool  { return true }

func (c *DoneCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, store *tasklist.Store, args []string, in io.Reader, out, errOut io.Writer) int {
	return runSetCompleted(ctx, cfg, store, true, args, out, errOut)
}

// UndoneCmd implements the undone command.
type UndoneCmd struct{}

func (c *UndoneCmd) Name() string      { return "undone" }
func (c *UndoneCmd) Aliases() []string { return nil }
func (c *UndoneCmd) Synopsis() string  { return "Mark a task active again" }
func (c *UndoneCmd) Usage() string     { return "todos undone <ref>" }
func (c *UndoneCmd) NeedsStore() bool  { return true }

func (c *UndoneCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *UndoneCmd) Run(ctx context.Context, cfg *config.Config, store *tasklist.Store, args []string, in io.Reader, out, errOut io.Writer) int {
	return runSetCompleted(ctx, cfg, store, false, args, out, errOut)
}

// runSetCompleted is the shared implementation for done and undone.
// A task already in the requested state is left alone and still reports ok.
func runSetCompleted(ctx context.Context, cfg *config.Config, store *tasklist.Store, completed bool, args []string, out, errOut io.Writer) int {
	task, ok := resolveArgs(store, args, errOut)
	if !ok {
		return exitcode.UserError
	}

	_, _, err := store.SetCompleted(ctx, task.ID, completed)
	return reportMutation(cfg, "ok", err, out, errOut)
}
