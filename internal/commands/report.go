package commands

import (
	"context"
	"fmt"
	"io"

	"careerdash/internal/config"
	"careerdash/internal/dashboard"
	"careerdash/internal/exitcode"
)

// ReportError prints err in the CLI error format and returns its exit code.
func ReportError(errOut io.Writer, err error) int {
	code := exitcode.FromError(err)
	switch code {
	case exitcode.AuthError:
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
	case exitcode.BackendError:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return code
}

// finish waits for the remote half of an intent and reports the outcome.
func finish(ctx context.Context, cfg *config.Config, op *dashboard.Op, out, errOut io.Writer) int {
	if err := op.Wait(ctx); err != nil {
		return ReportError(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
