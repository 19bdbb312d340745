package dashboard

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// sequencer runs remote operations in FIFO order per task ID.
// Operations on different IDs run concurrently, up to a worker limit.
type sequencer struct {
	mu    sync.Mutex
	tails map[string]chan struct{} // task ID -> done channel of the last queued op
	sem   *semaphore.Weighted
	wg    sync.WaitGroup
}

func newSequencer(workers int) *sequencer {
	if workers <= 0 {
		workers = 1
	}
	return &sequencer{
		tails: make(map[string]chan struct{}),
		sem:   semaphore.NewWeighted(int64(workers)),
	}
}

// submit queues fn behind every earlier operation for id and returns at once.
func (s *sequencer) submit(id string, fn func()) {
	done := make(chan struct{})

	s.mu.Lock()
	prev := s.tails[id]
	s.tails[id] = done
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			if s.tails[id] == done {
				delete(s.tails, id)
			}
			s.mu.Unlock()
			close(done)
		}()

		if prev != nil {
			<-prev
		}

		// Background context: acquisition only waits for a free worker.
		_ = s.sem.Acquire(context.Background(), 1)
		defer s.sem.Release(1)

		fn()
	}()
}

// drain waits until every submitted operation has finished or ctx is done.
func (s *sequencer) drain(ctx context.Context) error {
	idle := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(idle)
	}()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
