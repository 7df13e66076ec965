// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool runs row-parallel kernels on a fixed set of persistent
// goroutines. A Pool is created once and shared by many kernel calls, so a
// call pays for channel sends rather than goroutine spawns.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	// Rows are handed out in multiples of step so two workers never write
//	// the same cache line of the output vector.
//	pool.ParallelForStep(m, step, func(start, end int) {
//	    spmvRows(start, end)
//	})
//
// A closed pool, or one with a single worker, runs every loop inline on the
// calling goroutine.
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a set of persistent workers. It is safe for concurrent use;
// concurrent loops share the workers.
type Pool struct {
	numWorkers int
	tasks      chan task
	closeOnce  sync.Once
	closed     atomic.Bool
}

type task struct {
	run  func()
	done *sync.WaitGroup
}

// New starts numWorkers workers, or GOMAXPROCS of them if numWorkers <= 0.
// They live until Close.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		numWorkers: numWorkers,
		tasks:      make(chan task, 2*numWorkers),
	}
	for range numWorkers {
		go func() {
			for t := range p.tasks {
				t.run()
				t.done.Done()
			}
		}()
	}
	return p
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close stops the workers once queued work has drained. It is idempotent.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.tasks)
	})
}

// workersFor returns how many workers a loop over units pieces of work
// should use. One means run inline.
func (p *Pool) workersFor(units int) int {
	if p.closed.Load() {
		return 1
	}
	return min(p.numWorkers, units)
}

// fanOut runs body(w) for w in [0, workers) on the pool and waits.
func (p *Pool) fanOut(workers int, body func(w int)) {
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := range workers {
		p.tasks <- task{run: func() { body(w) }, done: &wg}
	}
	wg.Wait()
}

// ParallelFor calls fn on contiguous, disjoint ranges covering [0, n), one
// range per worker. Blocks until all ranges are done.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	p.ParallelForStep(n, 1, fn)
}

// ParallelForStep is ParallelFor with every range boundary except the final
// n a multiple of step. Kernels writing one output element per index pass
// the number of elements per cache line, so no two workers share a line.
func (p *Pool) ParallelForStep(n, step int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	step = max(step, 1)
	steps := (n + step - 1) / step
	workers := p.workersFor(steps)
	if workers == 1 {
		fn(0, n)
		return
	}
	chunk := (steps + workers - 1) / workers * step
	p.fanOut(workers, func(w int) {
		if start := w * chunk; start < n {
			fn(start, min(start+chunk, n))
		}
	})
}

// ParallelForAtomic calls fn(i) for every i in [0, n), with workers taking
// the next index from a shared counter. It balances loops whose iterations
// differ in cost, such as the rows of a triangular product.
func (p *Pool) ParallelForAtomic(n int, fn func(i int)) {
	p.ParallelForAtomicBatched(n, 1, func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}

// ParallelForAtomicBatched is ParallelForAtomic taking batchSize indices
// per counter increment; fn receives each batch as [start, end).
func (p *Pool) ParallelForAtomicBatched(n, batchSize int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	batchSize = max(batchSize, 1)
	workers := p.workersFor((n + batchSize - 1) / batchSize)
	if workers == 1 {
		fn(0, n)
		return
	}
	var next atomic.Int64
	p.fanOut(workers, func(int) {
		for {
			start := int(next.Add(int64(batchSize))) - batchSize
			if start >= n {
				return
			}
			fn(start, min(start+batchSize, n))
		}
	})
}
