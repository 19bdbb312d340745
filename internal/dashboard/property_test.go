package dashboard_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"pgregory.net/rapid"

	"careerdash/internal/dashboard"
	"careerdash/internal/testutil"
)

func rapidEngine(t *rapid.T) (*dashboard.Engine, func()) {
	store := testutil.NewFakeStore()
	n := rapid.IntRange(0, 5).Draw(t, "seeded")
	for i := range n {
		store.AddRecord(rapid.StringMatching(`[1-9][0-9]{0,2}`).Draw(t, "id")+string(rune('a'+i)), "task", rapid.Bool().Draw(t, "completed"))
	}
	eng := dashboard.New(store, dashboard.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err := eng.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return eng, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := eng.Close(ctx); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
}

func waitOp(op *dashboard.Op) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return op.Wait(ctx)
}

func TestProperty_AddGrowsSetByOne(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		eng, done := rapidEngine(t)
		defer done()

		text := rapid.StringMatching(`[A-Za-z][A-Za-z ]{0,20}`).Draw(t, "text")
		cat := rapid.SampledFrom(dashboard.Categories()).Draw(t, "category")
		before := len(eng.Snapshot().Tasks)

		op, err := eng.AddTask(text, cat)
		if err != nil {
			t.Fatalf("add: %v", err)
		}

		snap := eng.Snapshot()
		if len(snap.Tasks) != before+1 {
			t.Fatalf("expected %d tasks, got %d", before+1, len(snap.Tasks))
		}
		last := snap.Tasks[len(snap.Tasks)-1]
		if last.ID != op.TaskID || last.Completed || last.Category != cat {
			t.Fatalf("unexpected new task %+v", last)
		}
		if err := waitOp(op); err != nil {
			t.Fatalf("create: %v", err)
		}
	})
}

func TestProperty_ToggleTwiceIsIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		eng, done := rapidEngine(t)
		defer done()

		tasks := eng.Snapshot().Tasks
		if len(tasks) == 0 {
			t.Skip("no tasks")
		}
		task := rapid.SampledFrom(tasks).Draw(t, "task")

		for range 2 {
			op, err := eng.ToggleTask(task.ID)
			if err != nil {
				t.Fatalf("toggle: %v", err)
			}
			if err := waitOp(op); err != nil {
				t.Fatalf("update: %v", err)
			}
		}

		got, ok := eng.Snapshot().Find(task.ID)
		if !ok || got.Completed != task.Completed {
			t.Fatalf("expected completed=%v after two toggles, got %+v", task.Completed, got)
		}
	})
}

func TestProperty_GroupsPartitionTaskSet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		eng, done := rapidEngine(t)
		defer done()

		for i := range rapid.IntRange(0, 6).Draw(t, "adds") {
			cat := rapid.SampledFrom(dashboard.Categories()).Draw(t, "category")
			if _, err := eng.AddTask("task", cat); err != nil {
				t.Fatalf("add %d: %v", i, err)
			}
		}

		snap := eng.Snapshot()
		seen := make(map[string]bool)
		lastIndex := -1
		for cat, group := range snap.ByCategory() {
			idx := int(cat.Letter() - 'a')
			if idx <= lastIndex {
				t.Fatalf("category %s out of order", cat)
			}
			lastIndex = idx
			for _, task := range group {
				if task.Category != cat || seen[task.ID] {
					t.Fatalf("task %s misplaced", task.ID)
				}
				seen[task.ID] = true
			}
		}
		if len(seen) != len(snap.Tasks) {
			t.Fatalf("groups hold %d tasks, set has %d", len(seen), len(snap.Tasks))
		}

		p := snap.Progress
		if p.Ratio < 0 || p.Ratio > 1 || p.Completed > p.Total {
			t.Fatalf("invalid progress %+v", p)
		}
	})
}
