// Package dashboard implements the career dashboard task engine: an in-memory
// task set that is mutated optimistically and reconciled against a remote
// task store.
//
// Every intent (add, toggle, delete) is applied to the local set at once and
// returns an *Op for the remote half. Remote operations for the same task run
// one at a time in submission order; their results are applied to the task
// set as it is when they arrive, never to a copy taken at dispatch.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"careerdash/internal/service"
)

const (
	// DefaultListLimit is the number of records Load fetches by default.
	DefaultListLimit = 5

	// DefaultWorkers bounds concurrent remote operations by default.
	DefaultWorkers = 4
)

// Options configures an Engine. Zero values select defaults.
type Options struct {
	Logger *slog.Logger

	// ListLimit bounds how many records Load fetches.
	ListLimit int

	// Workers bounds how many remote operations run at once across tasks.
	Workers int

	// NewID generates local task IDs. It must eventually return an ID it has
	// not returned before. Defaults to random UUIDs.
	NewID func() string

	// AssignCategory picks the category of a loaded record. Defaults to
	// AssignCategory.
	AssignCategory func(remoteID string) Category

	// OnError receives every asynchronous remote failure, after the local
	// state has been reconciled.
	OnError func(error)
}

type entry struct {
	task     Task   // Sync is derived, see status
	version  uint64 // bumped by each local toggle
	acked    bool   // completed value last acknowledged by the store
	inflight int    // queued or running remote operations
	unsynced bool   // the remote create failed
	settled  uint64 // Engine.gen when the last remote result was applied
}

func (ent *entry) status() SyncStatus {
	switch {
	case ent.inflight > 0:
		return SyncPending
	case ent.unsynced:
		return SyncFailed
	default:
		return SyncConfirmed
	}
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

// Engine owns the task set. It is safe for concurrent use.
type Engine struct {
	store   service.Store
	logger  *slog.Logger
	limit   int
	newID   func() string
	assign  func(string) Category
	onError func(error)
	seq     *sequencer

	mu        sync.Mutex
	order     []*entry
	byID      map[string]*entry
	remoteIDs map[string]string   // local ID -> store ID, set once created
	issued    map[string]struct{} // every locally generated ID
	closed    bool

	// Reconciliation with concurrent loads.
	gen      uint64            // bumped whenever a remote result is applied
	loading  int               // loads waiting for the store
	deleting map[string]int    // local ID -> queued deletes
	removed  map[string]uint64 // store ID -> gen of its delete, kept while loading

	subs       []subscriber
	nextSub    int
	pending    []Snapshot
	delivering bool
}

// New creates an empty engine backed by store.
func New(store service.Store, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := opts.ListLimit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	assign := opts.AssignCategory
	if assign == nil {
		assign = AssignCategory
	}

	return &Engine{
		store:     store,
		logger:    logger.With("component", "dashboard"),
		limit:     limit,
		newID:     newID,
		assign:    assign,
		onError:   opts.OnError,
		seq:       newSequencer(workers),
		byID:      make(map[string]*entry),
		remoteIDs: make(map[string]string),
		issued:    make(map[string]struct{}),
		deleting:  make(map[string]int),
		removed:   make(map[string]uint64),
	}
}

// Load replaces the task set with the records the store returns.
// On failure the current task set is kept and a *LoadError is returned.
//
// Tasks with remote operations outstanding, or whose result arrived after the
// list was requested, keep their local state; the list may predate it. Tasks
// whose create failed are kept for Retry. Records with a delete queued or
// applied since the list was requested are skipped.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return &LoadError{Limit: e.limit, Err: ErrClosed}
	}
	since := e.gen
	e.loading++
	e.mu.Unlock()

	recs, err := e.store.List(ctx, e.limit)

	e.mu.Lock()
	e.loading--
	if err != nil {
		if e.loading == 0 {
			clear(e.removed)
		}
		e.mu.Unlock()
		e.logger.Warn("load failed, keeping current tasks", "error", err)
		return &LoadError{Limit: e.limit, Err: err}
	}
	if e.closed {
		e.mu.Unlock()
		return &LoadError{Limit: e.limit, Err: ErrClosed}
	}

	kept := make(map[*entry]bool)
	byRemote := make(map[string]*entry)
	for _, ent := range e.order {
		if ent.inflight == 0 && !ent.unsynced && ent.settled <= since {
			continue
		}
		kept[ent] = false
		if remoteID, ok := e.remoteIDs[ent.task.ID]; ok {
			byRemote[remoteID] = ent
		}
	}
	skip := make(map[string]bool)
	for id := range e.deleting {
		if remoteID, ok := e.remoteIDs[id]; ok {
			skip[remoteID] = true
		}
	}
	for remoteID, gen := range e.removed {
		if gen > since {
			skip[remoteID] = true
		}
	}
	if e.loading == 0 {
		clear(e.removed)
	}

	order := make([]*entry, 0, len(recs)+len(kept))
	byID := make(map[string]*entry, len(recs)+len(kept))
	for _, rec := range recs {
		switch {
		case rec.ID == "":
			e.logger.Warn("skipping remote record without id", "title", rec.Title)
			continue
		case skip[rec.ID]:
			e.logger.Debug("skipping record with delete queued", "remote_id", rec.ID)
			continue
		}
		if ent := byRemote[rec.ID]; ent != nil {
			if !kept[ent] {
				kept[ent] = true
				order = append(order, ent)
				byID[ent.task.ID] = ent
			}
			continue
		}
		if _, dup := byID[rec.ID]; dup {
			e.logger.Warn("skipping duplicate remote record", "remote_id", rec.ID)
			continue
		}
		text := strings.TrimSpace(rec.Title)
		if text == "" {
			text = "Görev " + rec.ID
		}
		ent := &entry{
			task: Task{
				ID:        rec.ID,
				Text:      text,
				Completed: rec.Completed,
				Category:  e.assign(rec.ID),
			},
			acked: rec.Completed,
		}
		order = append(order, ent)
		byID[rec.ID] = ent
		e.remoteIDs[rec.ID] = rec.ID
	}
	// Kept tasks the list did not return stay after the loaded ones.
	for _, ent := range e.order {
		if placed, ok := kept[ent]; ok && !placed {
			if _, taken := byID[ent.task.ID]; taken {
				continue
			}
			order = append(order, ent)
			byID[ent.task.ID] = ent
		}
	}

	e.order = order
	e.byID = byID
	e.logger.Debug("tasks loaded", "count", len(order), "kept", len(kept))
	e.release(true)
	return nil
}

// AddTask appends a new task and creates it remotely.
// If the remote create fails the task stays in the set with SyncFailed.
func (e *Engine) AddTask(text string, category Category) (*Op, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, &AddError{Text: text, Category: category, Err: ErrEmptyText}
	}
	if !category.Valid() {
		return nil, &AddError{Text: text, Category: category, Err: fmt.Errorf("%w: %q", ErrUnknownCategory, category)}
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, &AddError{Text: text, Category: category, Err: ErrClosed}
	}
	id := e.issueIDLocked()
	ent := &entry{
		task:     Task{ID: id, Text: trimmed, Category: category},
		inflight: 1,
	}
	e.order = append(e.order, ent)
	e.byID[id] = ent

	op := newOp(id)
	e.seq.submit(id, func() { e.create(op, ent) })
	e.release(true)
	return op, nil
}

// Retry re-issues the create of a task whose create failed.
func (e *Engine) Retry(id string) (*Op, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, &AddError{TaskID: id, Err: ErrClosed}
	}
	ent := e.byID[id]
	if ent == nil {
		e.mu.Unlock()
		return nil, &AddError{TaskID: id, Err: ErrTaskNotFound}
	}
	if _, created := e.remoteIDs[id]; created || !ent.unsynced || ent.inflight > 0 {
		e.mu.Unlock()
		return nil, &AddError{TaskID: id, Text: ent.task.Text, Category: ent.task.Category, Err: ErrNothingToRetry}
	}
	ent.inflight++

	op := newOp(id)
	e.seq.submit(id, func() { e.create(op, ent) })
	e.release(true)
	return op, nil
}

// ToggleTask flips the completed flag and stores the new value remotely.
// If the remote update fails the flag reverts to the last acknowledged value,
// unless a later toggle of the same task is still queued.
func (e *Engine) ToggleTask(id string) (*Op, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, &ToggleError{ID: id, Err: ErrClosed}
	}
	ent := e.byID[id]
	if ent == nil {
		e.mu.Unlock()
		return nil, &ToggleError{ID: id, Err: ErrTaskNotFound}
	}
	ent.task.Completed = !ent.task.Completed
	ent.version++
	ent.inflight++
	want, version := ent.task.Completed, ent.version

	op := newOp(id)
	e.seq.submit(id, func() { e.update(op, ent, want, version) })
	e.release(true)
	return op, nil
}

// DeleteTask removes the task and deletes it remotely.
// If the remote delete fails the task is put back where it was.
func (e *Engine) DeleteTask(id string) (*Op, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, &DeleteError{ID: id, Err: ErrClosed}
	}
	ent := e.byID[id]
	if ent == nil {
		e.mu.Unlock()
		return nil, &DeleteError{ID: id, Err: ErrTaskNotFound}
	}
	idx := slices.Index(e.order, ent)
	e.order = slices.Delete(e.order, idx, idx+1)
	delete(e.byID, id)
	e.deleting[id]++

	op := newOp(id)
	e.seq.submit(id, func() { e.remove(op, ent, idx) })
	e.release(true)
	return op, nil
}

// Snapshot returns the current task set and its progress.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// TasksByCategory groups the current task set. See Snapshot.ByCategory.
func (e *Engine) TasksByCategory() iter.Seq2[Category, []Task] {
	return e.Snapshot().ByCategory()
}

// Progress returns the progress of the current task set.
func (e *Engine) Progress() Progress {
	return e.Snapshot().Progress
}

// Subscribe registers fn to receive a snapshot after every change, in change
// order. fn runs on the goroutine that made the change or on a remote worker.
func (e *Engine) Subscribe(fn func(Snapshot)) (cancel func()) {
	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs = append(e.subs, subscriber{id: id, fn: fn})
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.subs = slices.DeleteFunc(e.subs, func(s subscriber) bool { return s.id == id })
	}
}

// Close rejects further intents and waits for in-flight remote operations.
// In-flight operations are not cancelled; ctx only bounds the wait.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	return e.seq.drain(ctx)
}

func (e *Engine) create(op *Op, ent *entry) {
	id := ent.task.ID

	e.mu.Lock()
	if e.byID[id] != ent {
		// Deleted before the create ran; the queued delete has nothing to remove.
		e.settleLocked(ent)
		e.mu.Unlock()
		op.finish(nil)
		return
	}
	rec := service.Record{Title: ent.task.Text, Completed: ent.task.Completed}
	e.mu.Unlock()

	created, err := e.store.Create(context.Background(), rec)

	e.mu.Lock()
	e.settleLocked(ent)
	current := e.byID[id] == ent
	if err != nil {
		ent.unsynced = true
		e.release(current)
		e.fail(op, &AddError{TaskID: id, Text: rec.Title, Category: ent.task.Category, Err: err})
		return
	}
	// Record the store ID even if the task is gone, so a queued delete can use it.
	e.remoteIDs[id] = created.ID
	ent.unsynced = false
	ent.acked = rec.Completed
	e.release(current)
	op.finish(nil)
}

func (e *Engine) update(op *Op, ent *entry, want bool, version uint64) {
	id := ent.task.ID

	e.mu.Lock()
	remoteID, created := e.remoteIDs[id]
	if e.byID[id] != ent || !created {
		// Deleted locally (the queued delete covers the store) or never
		// created (Retry sends the current value).
		e.settleLocked(ent)
		e.release(e.byID[id] == ent)
		op.finish(nil)
		return
	}
	e.mu.Unlock()

	err := e.store.Update(context.Background(), remoteID, service.CompletedPatch(want))

	e.mu.Lock()
	e.settleLocked(ent)
	current := e.byID[id] == ent
	if err == nil {
		ent.acked = want
		e.release(current)
		op.finish(nil)
		return
	}
	if ent.version == version {
		ent.task.Completed = ent.acked
	}
	e.release(current)
	e.fail(op, &ToggleError{ID: id, Completed: want, Err: err})
}

func (e *Engine) remove(op *Op, ent *entry, idx int) {
	id := ent.task.ID

	e.mu.Lock()
	remoteID, created := e.remoteIDs[id]
	if !created {
		e.doneDeletingLocked(id)
		e.mu.Unlock()
		op.finish(nil)
		return
	}
	e.mu.Unlock()

	err := e.store.Delete(context.Background(), remoteID)
	if errors.Is(err, service.ErrNotFound) {
		e.logger.Debug("task already gone remotely", "task_id", id, "remote_id", remoteID)
		err = nil
	}

	e.mu.Lock()
	e.doneDeletingLocked(id)
	e.gen++
	if err == nil {
		if e.loading > 0 {
			e.removed[remoteID] = e.gen
		}
		delete(e.remoteIDs, id)
		// A reload that overlapped the delete may have brought the record back.
		stale := e.byID[id]
		if stale != nil {
			e.order = slices.DeleteFunc(e.order, func(x *entry) bool { return x == stale })
			delete(e.byID, id)
		}
		e.release(stale != nil)
		op.finish(nil)
		return
	}

	restored := false
	if e.byID[id] == nil {
		ent.task.Completed = ent.acked
		ent.inflight = 0
		ent.settled = e.gen
		e.order = slices.Insert(e.order, min(idx, len(e.order)), ent)
		e.byID[id] = ent
		restored = true
	}
	e.release(restored)
	e.fail(op, &DeleteError{ID: id, Err: err})
}

func (e *Engine) fail(op *Op, err error) {
	e.logger.Warn("remote sync failed", "task_id", op.TaskID, "error", err)
	if e.onError != nil {
		e.onError(err)
	}
	op.finish(err)
}

// settleLocked records that one remote operation of ent has finished.
func (e *Engine) settleLocked(ent *entry) {
	ent.inflight--
	e.gen++
	ent.settled = e.gen
}

func (e *Engine) doneDeletingLocked(id string) {
	if e.deleting[id]--; e.deleting[id] <= 0 {
		delete(e.deleting, id)
	}
}

func (e *Engine) issueIDLocked() string {
	for {
		id := e.newID()
		if _, used := e.issued[id]; used {
			continue
		}
		if _, taken := e.byID[id]; taken {
			continue
		}
		e.issued[id] = struct{}{}
		return id
	}
}

func (e *Engine) snapshotLocked() Snapshot {
	tasks := make([]Task, len(e.order))
	for i, ent := range e.order {
		t := ent.task
		t.Sync = ent.status()
		tasks[i] = t
	}
	return newSnapshot(tasks)
}

// release unlocks e.mu. If changed, it first queues a snapshot for the
// subscribers and delivers the queue unless another goroutine already is.
func (e *Engine) release(changed bool) {
	if !changed {
		e.mu.Unlock()
		return
	}
	e.pending = append(e.pending, e.snapshotLocked())
	if e.delivering {
		e.mu.Unlock()
		return
	}
	e.delivering = true
	e.mu.Unlock()

	for {
		e.mu.Lock()
		if len(e.pending) == 0 {
			e.delivering = false
			e.mu.Unlock()
			return
		}
		snap := e.pending[0]
		e.pending = e.pending[1:]
		subs := slices.Clone(e.subs)
		e.mu.Unlock()

		for _, s := range subs {
			s.fn(snap)
		}
	}
}
