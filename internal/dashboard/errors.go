package dashboard

import (
	"errors"
	"fmt"
)

// Validation and state errors, usually wrapped in one of the typed errors below.
var (
	ErrEmptyText       = errors.New("task text is empty")
	ErrUnknownCategory = errors.New("unknown category")
	ErrTaskNotFound    = errors.New("task not found")
	ErrClosed          = errors.New("dashboard is closed")
	ErrNothingToRetry  = errors.New("task has no failed create to retry")
)

// LoadError reports a failed Load. The task set is left as it was.
type LoadError struct {
	Limit int
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load tasks (limit %d): %v", e.Limit, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// AddError reports a rejected or unsynced AddTask (or Retry).
type AddError struct {
	// TaskID is empty when the task was rejected before creation.
	TaskID   string
	Text     string
	Category Category
	Err      error
}

func (e *AddError) Error() string {
	if e.TaskID == "" {
		return fmt.Sprintf("add task %q: %v", e.Text, e.Err)
	}
	return fmt.Sprintf("add task %s %q: %v", e.TaskID, e.Text, e.Err)
}

func (e *AddError) Unwrap() error { return e.Err }

// ToggleError reports a rejected or failed ToggleTask.
type ToggleError struct {
	ID string

	// Completed is the value the toggle tried to store.
	Completed bool

	Err error
}

func (e *ToggleError) Error() string {
	return fmt.Sprintf("toggle task %s: %v", e.ID, e.Err)
}

func (e *ToggleError) Unwrap() error { return e.Err }

// DeleteError reports a rejected or failed DeleteTask.
type DeleteError struct {
	ID  string
	Err error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete task %s: %v", e.ID, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }
