// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"careerdash/internal/service"
)

// Store operation names used for error injection, gates and call counts.
const (
	OpList   = "list"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Call records one store call, logged when the call enters the store.
type Call struct {
	Op string
	ID string

	// Completed is the value a create or update carried.
	Completed bool
}

// FakeStore is an in-memory implementation of service.Store for testing.
// Records get IDs "r1", "r2", ... in creation order.
type FakeStore struct {
	mu      sync.Mutex
	records []service.Record
	nextID  int
	errs    map[string]error
	gates   map[string]chan struct{}
	calls   []Call
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		errs:  make(map[string]error),
		gates: make(map[string]chan struct{}),
	}
}

// AddRecord seeds a remote record.
func (f *FakeStore) AddRecord(id, title string, completed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, service.Record{ID: id, Title: title, Completed: completed})
}

// Records returns a copy of the stored records.
func (f *FakeStore) Records() []service.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Record, len(f.records))
	copy(out, f.records)
	return out
}

// Fail makes every later call of op fail with err. A nil err clears it.
func (f *FakeStore) Fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, op)
		return
	}
	f.errs[op] = err
}

// Hold makes later calls of op block until the returned channel yields a
// value (one call per value) or is closed.
func (f *FakeStore) Hold(op string) chan<- struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.gates[op] = gate
	return gate
}

// Calls returns the calls seen so far.
func (f *FakeStore) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many calls of op have entered the store.
func (f *FakeStore) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// enter logs the call, waits on the op's gate and returns the injected error.
func (f *FakeStore) enter(ctx context.Context, call Call) error {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	gate := f.gates[call.Op]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return service.Wrap(call.Op, call.ID, ctx.Err())
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[call.Op]; err != nil {
		return service.Wrap(call.Op, call.ID, err)
	}
	return nil
}

// List implements service.Store.
func (f *FakeStore) List(ctx context.Context, limit int) ([]service.Record, error) {
	if err := f.enter(ctx, Call{Op: OpList}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]service.Record, n)
	copy(out, f.records[:n])
	return out, nil
}

// Create implements service.Store.
func (f *FakeStore) Create(ctx context.Context, rec service.Record) (service.Record, error) {
	if err := f.enter(ctx, Call{Op: OpCreate, Completed: rec.Completed}); err != nil {
		return service.Record{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	rec.ID = fmt.Sprintf("r%d", f.nextID)
	f.records = append(f.records, rec)
	return rec, nil
}

// Update implements service.Store.
func (f *FakeStore) Update(ctx context.Context, id string, patch service.Patch) error {
	call := Call{Op: OpUpdate, ID: id}
	if patch.Completed != nil {
		call.Completed = *patch.Completed
	}
	if err := f.enter(ctx, call); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, r := range f.records {
		if r.ID == id {
			if patch.Completed != nil {
				f.records[i].Completed = *patch.Completed
			}
			return nil
		}
	}
	return service.Wrap(OpUpdate, id, service.ErrNotFound)
}

// Delete implements service.Store.
func (f *FakeStore) Delete(ctx context.Context, id string) error {
	if err := f.enter(ctx, Call{Op: OpDelete, ID: id}); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return service.Wrap(OpDelete, id, service.ErrNotFound)
}
