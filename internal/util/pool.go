// ABOUTME: Bounded worker pool for offloading expensive encoder calls
// ABOUTME: Shared by chunk embedding and entailment scoring so neither floods the backend
package util

import "context"

// WorkerPool limits the number of concurrently running tasks. Encoder
// invocations are the one expensive operation in the system; a fixed pool
// keeps them from blocking unrelated request handling.
type WorkerPool struct {
	sem chan struct{}
}

// NewWorkerPool creates a pool allowing size concurrent tasks.
func NewWorkerPool(size int) *WorkerPool {
	if size < 1 {
		size = 1
	}
	return &WorkerPool{sem: make(chan struct{}, size)}
}

// Do runs fn once a worker slot is free. If the context is cancelled before
// a slot opens, fn never runs and the context error is returned. A task that
// has already started is allowed to complete.
func (p *WorkerPool) Do(ctx context.Context, fn func() error) error {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-p.sem }()
	return fn()
}

// Size returns the pool capacity.
func (p *WorkerPool) Size() int {
	return cap(p.sem)
}
