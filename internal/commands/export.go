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
	Register(&ExportCmd{})
}

// ExportCmd implements the export command.
type ExportCmd struct {
	format string
	filter string
}

// SetFormat sets the output format (for testing).
func (c *ExportCmd) SetFormat(format string) {
	c.format = format
}

// SetFilter sets the filter mode (for testing).
func (c *ExportCmd) SetFilter(filter string) {
	c.filter = filter
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Write tasks as JSON or YAML" }
func (c *ExportCmd) Usage() string {
	return "todos export [--format json|yaml] [--filter all|active|completed]"
}
func (c *ExportCmd) NeedsStore() bool { return true }

func (c *ExportCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.format, "format", "o", string(output.FormatJSON), "")
	fs.StringVarP(&c.filter, "filter", "f", string(tasklist.FilterAll), "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, store *tasklist.Store, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	format := output.FormatJSON
	if c.format != "" {
		var err error
		if format, err = output.ParseFormat(c.format); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	filter := tasklist.FilterAll
	if c.filter != "" {
		var err error
		if filter, err = tasklist.ParseFilter(c.filter); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	if err := output.Export(out, format, store.View(filter)); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
