package capture

import (
	"log/slog"
	"runtime/debug"
	"sync"
)

// Queue runs closures one at a time, in submission order, on a dedicated
// goroutine. It backs the session queue and, in headless mode, stands in for
// the main thread. Sync must not be called from a closure running on the same
// queue.
type Queue struct {
	label  string
	logger *slog.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []func()
	closed bool
	done   chan struct{}
}

// NewQueue starts the queue goroutine.
func NewQueue(label string, logger *slog.Logger) *Queue {
	q := &Queue{label: label, logger: logger, done: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	go q.loop()
	return q
}

// Async enqueues fn and reports whether it was accepted. Closures submitted
// after Close are dropped.
func (q *Queue) Async(fn func()) bool {
	return q.enqueue(fn)
}

// Sync enqueues fn and waits until it has run. It returns false without
// running fn when the queue is closed.
func (q *Queue) Sync(fn func()) bool {
	if fn == nil {
		return false
	}
	done := make(chan struct{})
	if !q.enqueue(func() {
		defer close(done)
		fn()
	}) {
		return false
	}
	<-done
	return true
}

// Close drains already queued closures and stops the goroutine.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()
	<-q.done
}

func (q *Queue) enqueue(fn func()) bool {
	if fn == nil {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.tasks = append(q.tasks, fn)
	q.cond.Signal()
	return true
}

func (q *Queue) loop() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.tasks) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return
		}
		fn := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()
		q.run(fn)
	}
}

func (q *Queue) run(fn func()) {
	defer func() {
		if r := recover(); r != nil && q.logger != nil {
			q.logger.Error("queue task panic", "queue", q.label, "error", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}
