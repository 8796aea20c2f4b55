// Package scheduler runs periodic work on an injectable clock.
package scheduler

import (
	"context"
	"sync"
	"time"
)

// Task is a running periodic job.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Every calls fn once per interval until ctx is cancelled or Stop is called.
// The ticker is created before Every returns, so a FakeClock advanced right
// afterwards already drives the task. Runs never overlap.
func Every(ctx context.Context, clock Clock, interval time.Duration, fn func(context.Context)) *Task {
	if clock == nil {
		clock = RealClock{}
	}
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}
	ticker := clock.NewTicker(interval)

	go func() {
		defer close(t.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C():
				fn(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()

	return t
}

// Stop cancels the task and waits for an in-flight run to return. It is
// safe to call more than once.
func (t *Task) Stop() {
	t.once.Do(t.cancel)
	<-t.done
}

// Done is closed once the loop has exited.
func (t *Task) Done() <-chan struct{} { return t.done }
