// Package exitcode defines exit codes for the CLI.
package exitcode

import (
	"errors"
	"io/fs"

	"careerdash/internal/config"
	"careerdash/internal/dashboard"
	"careerdash/internal/service"
)

// Exit codes.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, not found, invalid input).
	UserError = 1

	// AuthError indicates an auth/config error.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)

// FromError classifies err into an exit code.
func FromError(err error) int {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, config.ErrInvalidSettings),
		errors.Is(err, fs.ErrNotExist):
		return AuthError
	case errors.Is(err, dashboard.ErrEmptyText),
		errors.Is(err, dashboard.ErrUnknownCategory),
		errors.Is(err, dashboard.ErrTaskNotFound),
		errors.Is(err, dashboard.ErrNothingToRetry):
		return UserError
	default:
		return BackendError
	}
}
