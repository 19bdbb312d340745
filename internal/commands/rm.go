package commands

import (
	"context"
	"flag"
	"io"

	"careerdash/internal/config"
	"careerdash/internal/dashboard"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return nil }
func (c *RmCmd) Synopsis() string  { return "Delete tasks" }
func (c *RmCmd) Usage() string     { return "careerdash rm <ref...>" }
func (c *RmCmd) NeedsEngine() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, eng *dashboard.Engine, args []string, out, errOut io.Writer) int {
	return runOnRefs(ctx, cfg, eng, args, eng.DeleteTask, out, errOut)
}
