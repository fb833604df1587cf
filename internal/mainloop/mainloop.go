// Package mainloop provides a serial executor standing in for the UI-owning
// context when no bubbletea program is running, e.g. in batch rendering and
// tests. Posted functions run one at a time, in posting order.
package mainloop

import (
	"context"
	"sync"
)

type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
}

func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post schedules fn to run on the loop. It never blocks.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending reports how many posted functions have not run yet.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Drain runs posted functions on the calling goroutine until the queue is
// empty, including any posted while draining. It returns how many ran.
func (l *Loop) Drain() int {
	ran := 0
	for {
		fn, ok := l.pop()
		if !ok {
			return ran
		}
		fn()
		ran++
	}
}

// Run drains the loop whenever work is posted until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// RunUntil drains the loop until cond holds after a batch of work or ctx is
// done. cond is evaluated on the loop goroutine.
func (l *Loop) RunUntil(ctx context.Context, cond func() bool) error {
	for {
		l.Drain()
		if cond() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) pop() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}
