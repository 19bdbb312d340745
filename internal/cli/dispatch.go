package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"careerdash/internal/commands"
	"careerdash/internal/config"
	"careerdash/internal/dashboard"
	"careerdash/internal/exitcode"
	"careerdash/internal/logger"
	"careerdash/internal/service"
)

// closeTimeout bounds how long a command waits for queued remote operations
// before exiting.
const closeTimeout = 10 * time.Second

// StoreFactory creates the remote store from config.
// Used to inject the backend during dispatch.
type StoreFactory func(ctx context.Context, cfg *config.Config) (service.Store, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  StoreFactory
}

// NewDispatcher creates a new dispatcher with the given registry and store
// factory. A nil factory selects NewStore.
func NewDispatcher(registry *commands.Registry, factory StoreFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> show the dashboard
	if len(args) == 0 {
		return d.dispatch(ctx, "dashboard", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	// Look up command
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	// Parse flags
	remaining := args[1:]
	return d.dispatchCommand(ctx, cmd, remaining, out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagErrorMessage(err))
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		return commands.ReportError(errOut, err)
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	log := setupLogger(cmd, cfg, errOut)

	if !cmd.NeedsEngine() {
		return cmd.Run(ctx, cfg, nil, positionalArgs, out, errOut)
	}

	factory := d.factory
	if factory == nil {
		factory = NewStore
	}
	store, err := factory(ctx, cfg)
	if err != nil {
		return commands.ReportError(errOut, err)
	}

	eng := dashboard.New(store, dashboard.Options{
		Logger:    log,
		ListLimit: cfg.Settings.ListLimit,
		Workers:   cfg.Settings.Workers,
	})
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := eng.Close(closeCtx); err != nil {
			log.Warn("remote operations still running at exit", "error", err)
		}
	}()

	if err := eng.Load(ctx); err != nil {
		return commands.ReportError(errOut, err)
	}

	return cmd.Run(ctx, cfg, eng, positionalArgs, out, errOut)
}

// logFormatter is implemented by commands that log in a format other than text.
type logFormatter interface {
	LogFormat() logger.Format
}

// setupLogger returns the logger for cmd. Long-running commands log at the
// configured level; one-shot commands log only with --debug.
func setupLogger(cmd commands.Command, cfg *config.Config, errOut io.Writer) *slog.Logger {
	lf, server := cmd.(logFormatter)
	switch {
	case cfg.Debug && server:
		return logger.Setup("debug", lf.LogFormat(), errOut)
	case cfg.Debug:
		return logger.Setup("debug", logger.Text, errOut)
	case server:
		return logger.Setup(cfg.Settings.LogLevel, lf.LogFormat(), errOut)
	default:
		return logger.Discard()
	}
}

// flagErrorMessage rewrites flag package errors into CLI messages.
func flagErrorMessage(err error) string {
	msg := err.Error()
	if name, ok := strings.CutPrefix(msg, "flag provided but not defined: "); ok {
		return "unknown flag: " + name
	}
	return msg
}
