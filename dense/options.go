package dense

import (
	"sync/atomic"

	"github.com/go-ffblas/ffblas/hwy/contrib/workerpool"
)

// DefaultThreshold is the dimension below which Syrk stops recursing and
// calls the base-case kernel.
const DefaultThreshold = 64

// Option configures a dense kernel call.
type Option func(*options)

type options struct {
	threshold int
	alloc     Allocator
	pool      *workerpool.Pool
}

// WithThreshold sets the recursion cutoff. Panics if n < 2.
func WithThreshold(n int) Option {
	if n < 2 {
		panic(badThreshold)
	}
	return func(o *options) { o.threshold = n }
}

// WithAllocator routes scratch acquisition through a.
func WithAllocator(a Allocator) Option {
	return func(o *options) { o.alloc = a }
}

// WithPool runs base-case rows on p. The recursive combination steps stay
// sequential.
func WithPool(p *workerpool.Pool) Option {
	return func(o *options) { o.pool = p }
}

func gatherOptions(opts []Option) options {
	o := options{threshold: DefaultThreshold, alloc: unlimited{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Allocator accounts for scratch memory. Acquire either reserves bytes or
// returns an error wrapping ErrScratchAlloc; every successful Acquire is
// paired with exactly one Release of the same size.
type Allocator interface {
	Acquire(bytes int) error
	Release(bytes int)
}

type unlimited struct{}

func (unlimited) Acquire(int) error { return nil }
func (unlimited) Release(int)       {}

// Budget is an Allocator with a fixed byte limit. It is safe for concurrent
// use.
type Budget struct {
	limit int64
	used  atomic.Int64
	peak  atomic.Int64
}

// NewBudget returns a Budget allowing at most limit bytes at once.
func NewBudget(limit int64) *Budget {
	return &Budget{limit: limit}
}

// Acquire reserves bytes, failing with ErrScratchAlloc past the limit.
func (b *Budget) Acquire(bytes int) error {
	n := int64(bytes)
	used := b.used.Add(n)
	if used > b.limit {
		b.used.Add(-n)
		return ErrScratchAlloc
	}
	for {
		p := b.peak.Load()
		if used <= p || b.peak.CompareAndSwap(p, used) {
			return nil
		}
	}
}

// Release returns bytes to the budget.
func (b *Budget) Release(bytes int) {
	b.used.Add(-int64(bytes))
}

// InUse returns the bytes currently reserved.
func (b *Budget) InUse() int64 { return b.used.Load() }

// Peak returns the largest reservation seen.
func (b *Budget) Peak() int64 { return b.peak.Load() }
