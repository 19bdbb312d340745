package commands

import (
	"context"
	"flag"
	"io"

	"careerdash/internal/config"
	"careerdash/internal/dashboard"
	"careerdash/internal/exitcode"
	"careerdash/internal/output"
)

func init() {
	Register(&CategoriesCmd{})
}

// CategoriesCmd implements the categories command.
type CategoriesCmd struct{}

func (c *CategoriesCmd) Name() string      { return "categories" }
func (c *CategoriesCmd) Aliases() []string { return nil }
func (c *CategoriesCmd) Synopsis() string  { return "Print the categories and their letters" }
func (c *CategoriesCmd) Usage() string     { return "careerdash categories [common flags]" }
func (c *CategoriesCmd) NeedsEngine() bool { return false }

func (c *CategoriesCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CategoriesCmd) Run(ctx context.Context, cfg *config.Config, eng *dashboard.Engine, args []string, out, errOut io.Writer) int {
	for _, cat := range dashboard.Categories() {
		output.FormatCategory(out, cat)
	}
	return exitcode.Success
}
