package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"careerdash/internal/config"
	"careerdash/internal/dashboard"
	"careerdash/internal/exitcode"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	category string
}

// SetCategory sets the category flag (for testing).
func (c *AddCmd) SetCategory(category string) {
	c.category = category
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "careerdash add [--category <category>] <text...>" }
func (c *AddCmd) NeedsEngine() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.category, "category", "", "")
	fs.StringVar(&c.category, "c", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, eng *dashboard.Engine, args []string, out, errOut io.Writer) int {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(errOut, "error: text required")
		return exitcode.UserError
	}

	category := dashboard.CategoryPreparation
	if c.category != "" {
		var err error
		category, err = dashboard.ParseCategory(c.category)
		if err != nil {
			fmt.Fprintf(errOut, "error: unknown category: %s\n", c.category)
			return exitcode.UserError
		}
	}

	op, err := eng.AddTask(text, category)
	if err != nil {
		return ReportError(errOut, err)
	}
	return finish(ctx, cfg, op, out, errOut)
}
