package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/output"
	"todos/internal/tasklist"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todos` (no args) and `todos list`.
type ListCmd struct {
	filter string
	long   bool
}

// SetFilter sets the filter mode (for testing).
func (c *ListCmd) SetFilter(filter string) {
	c.filter = filter
}

// SetLong enables the creation time column (for testing).
func (c *ListCmd) SetLong(long bool) {
	c.long = long
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "todos list [--filter all|active|completed] [--long]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.filter, "filter", "f", string(tasklist.FilterAll), "")
	fs.BoolVarP(&c.long, "long", "l", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, store *tasklist.Store, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	if c.filter != "" {
		if err := store.SetFilterString(c.filter); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	filter := store.Filter()

	// Numbers are positions in the full list so that they stay valid as task
	// references whatever the filter.
	shown := 0
	for i, task := range store.Tasks() {
		if !filter.Match(task) {
			continue
		}
		if c.long {
			output.FormatTaskLong(out, i+1, task, cfg.DateFormat, nil)
		} else {
			output.FormatTask(out, i+1, task)
		}
		shown++
	}

	if shown == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, output.EmptyMessage(filter))
		}
		return exitcode.Success
	}

	if !cfg.Quiet {
		output.FormatFooter(out, store.Stats())
	}
	return exitcode.Success
}
