package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/tasklist"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todos help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, store *tasklist.Store, args []string, in io.Reader, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todos                                         List all tasks
  todos list [common flags] [--filter <mode>] [--long]
  todos add [common flags] <text...>
  todos toggle [common flags] <ref>
  todos done [common flags] <ref>
  todos undone [common flags] <ref>
  todos rm [common flags] <ref>
  todos clear [common flags] [--yes]
  todos reset [common flags] [--yes]
  todos stats [common flags]
  todos export [common flags] [--format json|yaml] [--filter <mode>]
  todos ui [common flags]
  todos login [common flags]
  todos logout [common flags]
  todos help
  todos version

Aliases:
  ls = list, create = add, delete = rm

Task references:
  <n>      Position as printed by list (1 is the newest task)
  @<id>    Task id as shown by export

Filter modes:
  all, active, completed

Common flags:
  --config <dir>     Override config directory
  --backend <name>   Storage backend: file or googletasks
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr
`
