package actions

import (
	"context"

	"github.com/juho05/log"
)

// Dispatcher hands actions off for asynchronous execution. OS calls can take
// tens of milliseconds and must not stall the HTTP response or hold any
// shared-state lock, so Dispatch validates the name and returns immediately;
// the result of the underlying call is logged, never reported to the caller.
type Dispatcher struct {
	executor Executor
	slots    chan struct{}
}

// NewDispatcher bounds the number of concurrently running actions to
// maxConcurrent; further dispatches queue in their own goroutine.
func NewDispatcher(executor Executor, maxConcurrent int) *Dispatcher {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Dispatcher{
		executor: executor,
		slots:    make(chan struct{}, maxConcurrent),
	}
}

// Dispatch validates name and launches the action in the background.
// Returns ErrUnknownAction without side effects for unrecognized names.
func (d *Dispatcher) Dispatch(name string) error {
	if !Known(name) {
		return ErrUnknownAction
	}
	go func() {
		d.slots <- struct{}{}
		defer func() {
			<-d.slots
		}()
		if err := d.executor.Run(name); err != nil {
			log.Errorf("Action %s failed: %s", name, err)
		}
	}()
	return nil
}

// Status queries the executor synchronously; unlike actions, the caller
// waits for the answer.
func (d *Dispatcher) Status(ctx context.Context) (Status, error) {
	return d.executor.Status(ctx)
}
