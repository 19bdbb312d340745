package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"careerdash/internal/config"
	"careerdash/internal/dashboard"
	"careerdash/internal/exitcode"
	"careerdash/internal/output"
)

func init() {
	Register(&DashboardCmd{})
}

// DashboardCmd implements the dashboard command.
// Handles both `careerdash` (no args) and `careerdash dashboard`.
type DashboardCmd struct {
	format string
}

// SetFormat sets the output format (for testing).
func (c *DashboardCmd) SetFormat(format string) {
	c.format = format
}

func (c *DashboardCmd) Name() string      { return "dashboard" }
func (c *DashboardCmd) Aliases() []string { return []string{"list", "ls"} }
func (c *DashboardCmd) Synopsis() string  { return "Show tasks by category with progress" }
func (c *DashboardCmd) Usage() string     { return "careerdash dashboard [--format text|json|yaml]" }
func (c *DashboardCmd) NeedsEngine() bool { return true }

func (c *DashboardCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", string(output.FormatText), "")
	fs.StringVar(&c.format, "f", string(output.FormatText), "")
}

func (c *DashboardCmd) Run(ctx context.Context, cfg *config.Config, eng *dashboard.Engine, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	format := output.FormatText
	if c.format != "" {
		var err error
		format, err = output.ParseFormat(c.format)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	snap := eng.Snapshot()
	if format == output.FormatText && len(snap.Tasks) == 0 && cfg.Quiet {
		return exitcode.Success
	}
	if err := output.WriteDashboard(out, format, snap); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
