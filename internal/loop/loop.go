package loop

import (
	"context"
	"log/slog"
	"sync"
)

// Loop is a single cooperative event loop.
//
// Callbacks are queued with Post from any goroutine and executed one at a time
// by whoever drains the loop (the application's main select, Run, or a test).
// State owned by the loop must only be touched from those callbacks.
type Loop struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
	logger  *slog.Logger
}

// New constructs an empty loop.
func New(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		wake:   make(chan struct{}, 1),
		logger: logger,
	}
}

// Post schedules fn for the next tick. Safe for concurrent use.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.pending = append(l.pending, fn)
	l.mu.Unlock()
	l.signal()
}

// Wake returns a channel that receives whenever callbacks are pending.
func (l *Loop) Wake() <-chan struct{} {
	return l.wake
}

// Pending reports how many callbacks are waiting for the next tick.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Drain runs one tick: every callback queued before the call. Callbacks posted
// while draining wait for the next tick. It returns the number of callbacks run.
func (l *Loop) Drain() int {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.mu.Unlock()

	for _, fn := range batch {
		l.run(fn)
	}

	if l.Pending() > 0 {
		l.signal()
	}
	return len(batch)
}

// Run drains the loop until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
			l.Drain()
		}
	}
}

// RunUntil drains the loop until done reports true or ctx is cancelled.
// done is evaluated on the loop between ticks.
func (l *Loop) RunUntil(ctx context.Context, done func() bool) error {
	for !done() {
		if l.Drain() > 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
	return nil
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop callback panicked", "panic", r)
		}
	}()
	fn()
}
