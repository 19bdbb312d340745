package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Failure kinds reported by Store implementations.
var (
	ErrTimeout         = errors.New("request timed out")
	ErrUnauthorized    = errors.New("credentials expired or revoked")
	ErrNotFound        = errors.New("not found")
	ErrUnavailable     = errors.New("backend unavailable")
	ErrInvalidResponse = errors.New("invalid response")
)

// Error is the typed failure returned by Store implementations.
type Error struct {
	// Op is the store operation that failed: list, create, update or delete.
	Op string

	// ID is the record ID the operation targeted, if any.
	ID string

	Err error
}

func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap builds an *Error for op, classifying context deadlines as ErrTimeout.
// A nil err yields nil.
func Wrap(op, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return &Error{Op: op, ID: id, Err: err}
}

// StatusError maps a non-2xx HTTP status to a failure kind.
func StatusError(code int) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w (status %d)", ErrUnauthorized, code)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w (status %d)", ErrNotFound, code)
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return fmt.Errorf("%w (status %d)", ErrTimeout, code)
	case code >= 500:
		return fmt.Errorf("%w (status %d)", ErrUnavailable, code)
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}
