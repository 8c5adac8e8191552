// SPDX-License-Identifier: MIT

// Package workers - Pool and the blocking Run primitive.
//
// Determinism:
//   - Results are returned in submission order regardless of completion order.
//   - Task starts are admitted in submission order.

package workers

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Pool is a fixed-size task runner. It holds no goroutines between Run calls.
type Pool struct {
	size    int
	sem     *semaphore.Weighted
	limiter *rate.Limiter // nil: unpaced

	mu      sync.Mutex
	closed  bool
	running sync.WaitGroup // outermost Run calls in flight
}

// poolKey marks a context as running inside a task of a given pool.
type poolKey struct{}

// Option configures a Pool.
type Option func(*Pool)

// WithRateLimit paces task starts to perSecond with the given burst. perSecond <= 0 disables it.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(p *Pool) {
		if perSecond <= 0 {
			p.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// New creates a pool admitting size concurrent tasks (minimum 1).
func New(size int, opts ...Option) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{size: size, sem: semaphore.NewWeighted(int64(size))}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Size returns the concurrency bound; 0 for a nil pool (synchronous).
func (p *Pool) Size() int {
	if p == nil {
		return 0
	}
	return p.size
}

// Closed reports whether Close has been called.
func (p *Pool) Closed() bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.closed
}

// Close rejects further Run calls and waits for in-flight tasks to finish.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.running.Wait()
}

// enter registers an outermost Run; false when the pool is closed.
func (p *Pool) enter() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	p.running.Add(1)

	return true
}

// Result is the outcome of one task.
type Result[T any] struct {
	Value T
	Err   error
}

// Run executes fn(ctx, i) for i in [0, n) on p and blocks until every task finished.
// Implementation:
//   - Stage 1: nil pool → run synchronously in order; closed pool → ErrPoolClosed.
//   - Stage 2: for each task, wait for the rate limiter and a semaphore slot, then start it.
//   - Stage 3: wait for all started tasks; collect results in submission order.
//
// Behavior highlights:
//   - A task's error or panic is recorded in its Result and never stops its siblings.
//   - When ctx ends before a task is admitted, that task's Result carries ctx.Err().
//   - Run called from inside one of p's tasks never waits for a slot: a task that finds
//     no free slot runs inline on the caller, so nesting cannot deadlock the pool.
//
// Errors:
//   - ErrPoolClosed (nothing ran).
func Run[T any](ctx context.Context, p *Pool, n int, fn func(ctx context.Context, i int) (T, error)) ([]Result[T], error) {
	out := make([]Result[T], n)

	// Stage 1 (Synchronous / closed).
	if p == nil {
		for i := 0; i < n; i++ {
			out[i].Value, out[i].Err = call(ctx, i, fn)
		}
		return out, nil
	}
	nested := ctx.Value(poolKey{}) == p
	if !nested {
		if !p.enter() {
			return nil, ErrPoolClosed
		}
		defer p.running.Done()
		ctx = context.WithValue(ctx, poolKey{}, p)
	}

	// Stage 2 (Admit + start).
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if nested {
			if !p.sem.TryAcquire(1) {
				out[i].Value, out[i].Err = call(ctx, i, fn)
				continue
			}
		} else if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				out[i].Err = err
				continue
			}
		}
		if !nested {
			if err := p.sem.Acquire(ctx, 1); err != nil {
				out[i].Err = err
				continue
			}
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer p.sem.Release(1)
			out[i].Value, out[i].Err = call(ctx, i, fn)
		}(i)
	}

	// Stage 3 (Await all).
	wg.Wait()

	return out, nil
}

// call runs one task, turning a panic into an ErrTaskPanic error.
func call[T any](ctx context.Context, i int, fn func(ctx context.Context, i int) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %d: %v: %w\n%s", i, r, ErrTaskPanic, debug.Stack())
		}
	}()

	return fn(ctx, i)
}
