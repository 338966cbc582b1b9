package service

import (
	"context"
	"sync"
	"time"
)

const taskTimeout = 30 * time.Second

// Background executes fire-and-forget tasks detached from the request path.
// Booking and status-update responses never wait on anything submitted here.
type Background struct {
	tasks chan func(context.Context)
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewBackground starts a background runner with the given number of worker
// goroutines and queue capacity.
func NewBackground(workers, buffer int) *Background {
	if workers <= 0 {
		workers = 1
	}
	b := &Background{tasks: make(chan func(context.Context), buffer)}

	b.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go b.worker()
	}
	return b
}

func (b *Background) worker() {
	defer b.wg.Done()
	for task := range b.tasks {
		b.run(task)
	}
}

func (b *Background) run(task func(context.Context)) {
	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()
	task(ctx)
}

// Submit queues a task. When the queue is full the task runs on its own
// goroutine instead of blocking the caller; after Close it runs on the
// caller's goroutine so no submitted task is ever dropped.
func (b *Background) Submit(task func(context.Context)) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		b.run(task)
		return
	}
	select {
	case b.tasks <- task:
		b.mu.Unlock()
	default:
		b.wg.Add(1)
		b.mu.Unlock()
		go func() {
			defer b.wg.Done()
			b.run(task)
		}()
	}
}

// Close stops accepting tasks and waits for queued and overflowed ones to
// finish.
func (b *Background) Close() {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		close(b.tasks)
	}
	b.mu.Unlock()
	b.wg.Wait()
}
