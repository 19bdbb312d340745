// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"careerdash/internal/config"
	"careerdash/internal/dashboard"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsEngine returns true if the command works on the task set.
	// Commands like help, version, login, logout return false.
	NeedsEngine() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths, settings).
	// eng is nil if NeedsEngine() returns false; otherwise it is loaded.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, eng *dashboard.Engine, args []string, out, errOut io.Writer) int
}
