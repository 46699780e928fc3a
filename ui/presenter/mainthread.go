package presenter

import (
	"log/slog"
	"runtime/debug"
	"sync"
)

// MainQueue collects closures for the UI thread. The UI loop drains it on
// every tick; Tk widgets must only be touched from there. It implements
// capture.MainThread.
type MainQueue struct {
	logger *slog.Logger

	mu      sync.Mutex
	pending []func()
	closed  bool
}

func NewMainQueue(logger *slog.Logger) *MainQueue {
	if logger == nil {
		logger = slog.Default()
	}
	return &MainQueue{logger: logger}
}

// Async schedules fn for the next drain. Dropped after Close, reported by
// a false return.
func (q *MainQueue) Async(fn func()) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.pending = append(q.pending, fn)
	return true
}

// Sync schedules fn and waits until a drain ran it. It must not be called
// from the draining goroutine. Returns false without running fn after Close.
func (q *MainQueue) Sync(fn func()) bool {
	done := make(chan struct{})
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.pending = append(q.pending, func() {
		defer close(done)
		fn()
	})
	q.mu.Unlock()
	<-done
	return true
}

// Drain runs all closures queued so far and returns how many ran.
func (q *MainQueue) Drain() int {
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()
	for _, fn := range pending {
		q.run(fn)
	}
	return len(pending)
}

func (q *MainQueue) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("main thread task panic", "error", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}

// Close runs what is still queued and rejects further work.
func (q *MainQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()
	q.Drain()
}
