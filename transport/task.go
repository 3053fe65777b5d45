package transport

import "context"

// Task is a Pump running on its own goroutine.
type Task struct {
	done chan struct{}
	rest []byte
	err  error
}

// Start runs Pump(ctx, src, c) in a new goroutine and returns immediately.
// Cancelling ctx abandons the work and the task finishes with the context
// error.
func Start(ctx context.Context, src Source, c Consumer) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.rest, t.err = Pump(ctx, src, c)
	}()
	return t
}

// Done returns a channel that is closed when the task finishes.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes and returns the result of Pump.
func (t *Task) Wait() ([]byte, error) {
	<-t.done
	return t.rest, t.err
}
