package dashboard

import "context"

// Op tracks the remote half of an intent. The local mutation is already
// visible when the Op is returned.
type Op struct {
	// TaskID is the task the operation applies to.
	TaskID string

	done chan struct{}
	err  error
}

func newOp(taskID string) *Op {
	return &Op{TaskID: taskID, done: make(chan struct{})}
}

func (o *Op) finish(err error) {
	o.err = err
	close(o.done)
}

// Done is closed once the remote result has been reconciled.
func (o *Op) Done() <-chan struct{} {
	return o.done
}

// Err returns the reconciled failure, or nil while the operation is in flight.
func (o *Op) Err() error {
	select {
	case <-o.done:
		return o.err
	default:
		return nil
	}
}

// Wait blocks until the operation is reconciled or ctx is done.
// A ctx error does not cancel the remote call.
func (o *Op) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return o.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
