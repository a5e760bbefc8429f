// Package workerpool provides a bounded goroutine pool with backpressure.
//
// A Pool limits the number of goroutines that run tasks, so a burst of order
// events cannot start an unbounded number of publishes. When the queue is
// full, Submit returns ErrPoolFull immediately and the caller decides whether
// to drop or retry.
//
//	pool := workerpool.New(4)
//	defer pool.Shutdown()
//
//	if err := pool.Submit(publish); errors.Is(err, workerpool.ErrPoolFull) {
//	    logger.Warn("notification dropped")
//	}
package workerpool

import (
	"errors"
	"sync"

	"github.com/shashiranjanraj/pizzapos/pkg/logger"
)

var (
	// ErrPoolFull is returned by Submit when the task queue is at capacity.
	ErrPoolFull = errors.New("workerpool: pool is full")
	// ErrPoolClosed is returned by Submit after Shutdown has been called.
	ErrPoolClosed = errors.New("workerpool: pool is closed")
)

type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup

	// mu guards closed and the close of tasks: senders hold the read lock.
	mu     sync.RWMutex
	closed bool
}

// New starts size workers. The queue holds twice as many pending tasks.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{tasks: make(chan func(), size*2)}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// Shutdown stops accepting tasks, runs everything already queued and waits
// for the workers to exit. It is safe to call more than once.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		safeRun(task)
	}
}

// safeRun keeps a panicking task from killing its worker.
func safeRun(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: task panicked", "panic", r)
		}
	}()
	task()
}
