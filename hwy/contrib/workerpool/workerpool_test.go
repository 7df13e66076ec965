// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"
)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()
	if got := pool.NumWorkers(); got != 4 {
		t.Errorf("NumWorkers() = %d, want 4", got)
	}

	def := New(0)
	defer def.Close()
	if got := def.NumWorkers(); got != runtime.GOMAXPROCS(0) {
		t.Errorf("NumWorkers() = %d, want GOMAXPROCS=%d", got, runtime.GOMAXPROCS(0))
	}
}

// loops adapts every loop form to a range callback.
var loops = map[string]func(p *Pool, n int, fn func(start, end int)){
	"ParallelFor": func(p *Pool, n int, fn func(start, end int)) {
		p.ParallelFor(n, fn)
	},
	"ParallelForStep": func(p *Pool, n int, fn func(start, end int)) {
		p.ParallelForStep(n, 8, fn)
	},
	"ParallelForAtomic": func(p *Pool, n int, fn func(start, end int)) {
		p.ParallelForAtomic(n, func(i int) { fn(i, i+1) })
	},
	"ParallelForAtomicBatched": func(p *Pool, n int, fn func(start, end int)) {
		p.ParallelForAtomicBatched(n, 10, fn)
	},
}

func TestLoopsVisitEveryIndexOnce(t *testing.T) {
	for name, loop := range loops {
		for _, workers := range []int{1, 4, 8} {
			for _, closed := range []bool{false, true} {
				for _, n := range []int{0, 1, 3, 100, 1001} {
					t.Run(fmt.Sprintf("%s/workers=%d/closed=%v/n=%d", name, workers, closed, n), func(t *testing.T) {
						pool := New(workers)
						defer pool.Close()
						if closed {
							pool.Close()
						}
						visits := make([]atomic.Int32, n)
						var calls atomic.Int32
						loop(pool, n, func(start, end int) {
							calls.Add(1)
							for i := start; i < end; i++ {
								visits[i].Add(1)
							}
						})
						for i := range visits {
							if got := visits[i].Load(); got != 1 {
								t.Fatalf("index %d visited %d times", i, got)
							}
						}
						if n == 0 && calls.Load() != 0 {
							t.Errorf("fn called %d times for n=0", calls.Load())
						}
					})
				}
			}
		}
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	pool := New(4)
	pool.Close()
	pool.Close()
}

func TestParallelForStep(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		n, step int
	}{
		{"even split", 4, 64, 8},
		{"ragged tail", 4, 101, 8},
		{"fewer steps than workers", 8, 20, 16},
		{"step larger than n", 4, 5, 16},
		{"step one", 3, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := New(tt.workers)
			defer pool.Close()

			hits := make([]atomic.Int32, tt.n)
			pool.ParallelForStep(tt.n, tt.step, func(start, end int) {
				if start%tt.step != 0 {
					t.Errorf("chunk start %d is not a multiple of %d", start, tt.step)
				}
				if end != tt.n && end%tt.step != 0 {
					t.Errorf("chunk end %d is not a multiple of %d", end, tt.step)
				}
				for i := start; i < end; i++ {
					hits[i].Add(1)
				}
			})
			for i := range hits {
				if got := hits[i].Load(); got != 1 {
					t.Errorf("index %d visited %d times, want 1", i, got)
				}
			}
		})
	}
}

func TestParallelForStepClosedPool(t *testing.T) {
	pool := New(4)
	pool.Close()

	var calls int
	pool.ParallelForStep(100, 8, func(start, end int) {
		calls++
		if start != 0 || end != 100 {
			t.Errorf("closed pool chunk = [%d, %d), want [0, 100)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("closed pool made %d calls, want 1", calls)
	}
}

func BenchmarkParallelForStep(b *testing.B) {
	pool := New(0)
	defer pool.Close()

	n := 1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.ParallelForStep(n, 8, func(start, end int) {
			for j := start; j < end; j++ {
				_ = j * j
			}
		})
	}
}

func BenchmarkParallelForAtomicBatched(b *testing.B) {
	pool := New(0)
	defer pool.Close()

	n := 1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.ParallelForAtomicBatched(n, 10, func(start, end int) {
			for j := start; j < end; j++ {
				_ = j * j
			}
		})
	}
}
