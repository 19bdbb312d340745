package api

import (
	"errors"
	"net/http"

	"careerdash/internal/dashboard"
	"careerdash/internal/service"
)

// MapErrorToStatusCode maps engine and store errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrEmptyText),
		errors.Is(err, dashboard.ErrUnknownCategory):
		return http.StatusBadRequest

	case errors.Is(err, dashboard.ErrTaskNotFound):
		return http.StatusNotFound

	case errors.Is(err, dashboard.ErrNothingToRetry):
		return http.StatusConflict

	case errors.Is(err, dashboard.ErrClosed):
		return http.StatusServiceUnavailable

	case errors.Is(err, service.ErrTimeout):
		return http.StatusGatewayTimeout

	// Anything else came back from the remote store.
	default:
		return http.StatusBadGateway
	}
}
