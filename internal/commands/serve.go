package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"careerdash/internal/api"
	"careerdash/internal/config"
	"careerdash/internal/dashboard"
	"careerdash/internal/exitcode"
	"careerdash/internal/logger"
)

const serveShutdownTimeout = 5 * time.Second

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command.
type ServeCmd struct {
	listen string

	// ready, if set, receives the bound address once the server accepts
	// connections.
	ready func(addr string)
}

// SetReady registers a callback that receives the listening address (for
// testing).
func (c *ServeCmd) SetReady(fn func(addr string)) {
	c.ready = fn
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Serve the dashboard over HTTP" }
func (c *ServeCmd) Usage() string {
	return "careerdash serve [common flags] [--listen <addr>]"
}
func (c *ServeCmd) NeedsEngine() bool { return true }

// LogFormat makes the dispatcher log JSON while serving.
func (c *ServeCmd) LogFormat() logger.Format { return logger.JSON }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listen, "listen", "", "Listen address (default from settings)")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, eng *dashboard.Engine, args []string, out, errOut io.Writer) int {
	addr := c.listen
	if addr == "" {
		addr = cfg.Settings.Listen
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	log := slog.Default().With("component", "serve")
	server := &http.Server{
		Handler:           api.NewServer(eng, slog.Default()).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	log.Info("listening", "addr", listener.Addr().String(), "backend", cfg.Settings.Backend)
	if !cfg.Quiet {
		fmt.Fprintf(out, "listening on http://%s\n", listener.Addr())
	}
	if c.ready != nil {
		c.ready(listener.Addr().String())
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.BackendError
		}
		return exitcode.Success
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", "error", err)
	}
	log.Info("stopped")
	return exitcode.Success
}
