package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"careerdash/internal/config"
	"careerdash/internal/dashboard"
	"careerdash/internal/exitcode"
	"careerdash/internal/output"
)

func init() {
	Register(&ShellCmd{registry: DefaultRegistry})
}

// ShellCmd implements the interactive shell. Each line runs one task-set
// command against the same engine, so the dashboard stays loaded between
// commands.
type ShellCmd struct {
	registry *Registry
	in       io.Reader
}

// NewShellCmd creates a shell that dispatches to registry.
func NewShellCmd(registry *Registry) *ShellCmd {
	return &ShellCmd{registry: registry}
}

// SetInput sets the input reader (for testing). Defaults to os.Stdin.
func (c *ShellCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *ShellCmd) Name() string      { return "shell" }
func (c *ShellCmd) Aliases() []string { return nil }
func (c *ShellCmd) Synopsis() string  { return "Run commands interactively" }
func (c *ShellCmd) Usage() string     { return "careerdash shell [common flags]" }
func (c *ShellCmd) NeedsEngine() bool { return true }

func (c *ShellCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShellCmd) Run(ctx context.Context, cfg *config.Config, eng *dashboard.Engine, args []string, out, errOut io.Writer) int {
	in := c.in
	if in == nil {
		in = os.Stdin
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The reader may stay blocked in Scan after the shell returns, until the
	// next line or EOF. The loop below never waits for it.
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		if !cfg.Quiet {
			fmt.Fprint(out, "> ")
		}

		var line string
		select {
		case <-ctx.Done():
			return exitcode.Success
		case l, ok := <-lines:
			if !ok {
				return exitcode.Success
			}
			line = l
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if quit := c.exec(ctx, cfg, eng, fields, out, errOut); quit {
			return exitcode.Success
		}
	}
}

// exec runs one shell line. It returns true when the shell should exit.
func (c *ShellCmd) exec(ctx context.Context, cfg *config.Config, eng *dashboard.Engine, fields []string, out, errOut io.Writer) bool {
	name, args := fields[0], fields[1:]

	switch name {
	case "quit", "exit":
		return true
	case "help", "?":
		c.printHelp(out)
		return false
	case "reload":
		if err := eng.Load(ctx); err != nil {
			ReportError(errOut, err)
			return false
		}
		output.FormatDashboard(out, eng.Snapshot())
		return false
	case "retry":
		runOnRefs(ctx, cfg, eng, args, eng.Retry, out, errOut)
		return false
	}

	cmd, ok := c.registry.Find(name)
	if !ok || !shellCommand(cmd) {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return false
	}

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return false
	}
	cmd.Run(ctx, cfg, eng, fs.Args(), out, errOut)
	return false
}

// shellCommand reports whether cmd can run inside the shell.
func shellCommand(cmd Command) bool {
	switch cmd.Name() {
	case "shell", "serve", "login", "logout", "help":
		return false
	}
	return true
}

// printHelp lists the registry commands usable in the shell, then the
// shell builtins.
func (c *ShellCmd) printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	for _, cmd := range c.registry.Filter(shellCommand) {
		usage := strings.TrimPrefix(cmd.Usage(), "careerdash ")
		usage = strings.Replace(usage, " [common flags]", "", 1)
		fmt.Fprintf(out, "  %-42s %s\n", usage, cmd.Synopsis())
	}
	for _, b := range shellBuiltins {
		fmt.Fprintf(out, "  %-42s %s\n", b[0], b[1])
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Task references: N (N-th task on the dashboard) or <letter>N (e.g., c2).")
}

var shellBuiltins = [][2]string{
	{"retry <ref...>", "Retry saving tasks marked (not saved)"},
	{"reload", "Reload tasks from the backend"},
	{"quit", "Leave the shell"},
}
