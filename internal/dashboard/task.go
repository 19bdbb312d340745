package dashboard

import (
	"iter"
	"math"
)

// SyncStatus describes how a task relates to the remote store.
type SyncStatus int

const (
	// SyncConfirmed means the remote store acknowledged the task's current state.
	SyncConfirmed SyncStatus = iota

	// SyncPending means a remote operation for the task is queued or in flight.
	SyncPending

	// SyncFailed means the task was never created remotely.
	SyncFailed
)

func (s SyncStatus) String() string {
	switch s {
	case SyncConfirmed:
		return "confirmed"
	case SyncPending:
		return "pending"
	case SyncFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s SyncStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Task is a single career-preparation task.
type Task struct {
	ID        string     `json:"id" yaml:"id"`
	Text      string     `json:"text" yaml:"text"`
	Completed bool       `json:"completed" yaml:"completed"`
	Category  Category   `json:"category" yaml:"category"`
	Sync      SyncStatus `json:"sync" yaml:"sync"`
}

// Progress is derived from a task set on demand.
type Progress struct {
	Completed int     `json:"completed" yaml:"completed"`
	Total     int     `json:"total" yaml:"total"`
	Ratio     float64 `json:"ratio" yaml:"ratio"`
}

// ComputeProgress counts completed tasks. Ratio is 0 for an empty set.
func ComputeProgress(tasks []Task) Progress {
	p := Progress{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Ratio = float64(p.Completed) / float64(p.Total)
	}
	return p
}

// Percent returns the ratio as a rounded whole percentage.
func (p Progress) Percent() int {
	return int(math.Round(p.Ratio * 100))
}

// Snapshot is an immutable view of the task set.
// Callers must not modify Tasks.
type Snapshot struct {
	Tasks    []Task
	Progress Progress
}

func newSnapshot(tasks []Task) Snapshot {
	return Snapshot{Tasks: tasks, Progress: ComputeProgress(tasks)}
}

// ByCategory yields, for each category in display order, the tasks of that
// category in task-set order. Empty categories are skipped. Groups are built
// as the sequence is consumed; the sequence can be iterated any number of times.
func (s Snapshot) ByCategory() iter.Seq2[Category, []Task] {
	return func(yield func(Category, []Task) bool) {
		for _, c := range categories {
			var group []Task
			for _, t := range s.Tasks {
				if t.Category == c {
					group = append(group, t)
				}
			}
			if len(group) == 0 {
				continue
			}
			if !yield(c, group) {
				return
			}
		}
	}
}

// Find returns the task with the given ID.
func (s Snapshot) Find(id string) (Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// DisplayOrder returns the tasks as the dashboard lists them: grouped by
// category in display order, task-set order within a category.
func (s Snapshot) DisplayOrder() []Task {
	out := make([]Task, 0, len(s.Tasks))
	for _, group := range s.ByCategory() {
		out = append(out, group...)
	}
	return out
}
