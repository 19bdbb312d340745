package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"careerdash/internal/config"
	"careerdash/internal/dashboard"
	"careerdash/internal/exitcode"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle tasks between open and completed" }
func (c *DoneCmd) Usage() string     { return "careerdash done <ref...>" }
func (c *DoneCmd) NeedsEngine() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, eng *dashboard.Engine, args []string, out, errOut io.Writer) int {
	return runOnRefs(ctx, cfg, eng, args, eng.ToggleTask, out, errOut)
}

// runOnRefs resolves every reference against the current dashboard, applies
// the intent to each task and waits for the remote results.
func runOnRefs(ctx context.Context, cfg *config.Config, eng *dashboard.Engine, args []string, apply func(id string) (*dashboard.Op, error), out, errOut io.Writer) int {
	refs, err := ParseTaskRefs(args)
	if err != nil {
		if errors.Is(err, ErrTaskRefRequired) {
			fmt.Fprintln(errOut, "error: task reference required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return exitcode.UserError
	}

	// Resolve everything first so numbering does not shift between intents.
	tasks, err := resolveTaskRefs(eng.Snapshot(), refs)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	code := exitcode.Success
	ops := make([]*dashboard.Op, 0, len(tasks))
	for _, task := range tasks {
		op, err := apply(task.ID)
		if err != nil {
			code = firstFailure(code, ReportError(errOut, err))
			continue
		}
		ops = append(ops, op)
	}
	for _, op := range ops {
		if err := op.Wait(ctx); err != nil {
			code = firstFailure(code, ReportError(errOut, err))
		}
	}

	if code == exitcode.Success && !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return code
}

func firstFailure(current, next int) int {
	if current != exitcode.Success {
		return current
	}
	return next
}
