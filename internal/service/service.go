// Package service defines the backend-agnostic contract for the remote task store.
package service

import "context"

// Store is the remote task collection the dashboard synchronizes with.
// Implementations bound each call with their own timeout and never retry.
// Dashboard code never imports a backend SDK directly.
type Store interface {
	// List returns at most limit records in backend order.
	List(ctx context.Context, limit int) ([]Record, error)

	// Create stores a new record and returns it with the backend-assigned ID.
	// Create is not idempotent: calling it twice creates two records.
	Create(ctx context.Context, rec Record) (Record, error)

	// Update applies the non-nil fields of patch to the record with the given ID.
	Update(ctx context.Context, id string, patch Patch) error

	// Delete removes the record with the given ID.
	Delete(ctx context.Context, id string) error
}
