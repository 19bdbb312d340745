package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"careerdash/internal/config"
	"careerdash/internal/dashboard"
	"careerdash/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "careerdash help" }
func (c *HelpCmd) NeedsEngine() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, eng *dashboard.Engine, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  careerdash                                           Show the dashboard
  careerdash dashboard [common flags] [--format text|json|yaml]
  careerdash add [common flags] [--category <category>] <text...>
  careerdash create [common flags] [--category <category>] <text...>
  careerdash done [common flags] <ref...>
  careerdash rm [common flags] <ref...>
  careerdash categories
  careerdash shell [common flags]
  careerdash serve [common flags] [--listen <addr>]
  careerdash login [common flags]
  careerdash logout [common flags]
  careerdash help
  careerdash version

Task references:
  N          N-th task on the dashboard, counted across categories
  <letter>N  N-th task in the category with that letter (e.g., c2)

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
