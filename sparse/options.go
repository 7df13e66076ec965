package sparse

import (
	"unsafe"

	"github.com/go-ffblas/ffblas/field"
	"github.com/go-ffblas/ffblas/hwy"
	"github.com/go-ffblas/ffblas/hwy/contrib/workerpool"
)

// Strategy selects the SpMV accumulation kernel.
type Strategy int

const (
	// StrategyAuto picks from the field category: vectorized for
	// unparametric fields when a lane holds at least two elements,
	// unparametric otherwise, generic for generic fields.
	StrategyAuto Strategy = iota
	// StrategyGeneric reduces every product with the field's Axpy.
	StrategyGeneric
	// StrategyUnparametric sums raw products and reduces per block.
	StrategyUnparametric
	// StrategyVectorized gathers x a lane at a time and reduces whole lanes.
	StrategyVectorized
)

func (s Strategy) String() string {
	switch s {
	case StrategyAuto:
		return "auto"
	case StrategyGeneric:
		return "generic"
	case StrategyUnparametric:
		return "unparametric"
	case StrategyVectorized:
		return "vectorized"
	default:
		return "unknown"
	}
}

// Option configures an SpMV call.
type Option func(*options)

type options struct {
	strategy Strategy
	pool     *workerpool.Pool
}

// WithStrategy forces a kernel. Forcing one the field cannot run panics.
func WithStrategy(s Strategy) Option {
	return func(o *options) { o.strategy = s }
}

// WithPool spreads rows over p.
func WithPool(p *workerpool.Pool) Option {
	return func(o *options) { o.pool = p }
}

func gatherOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// resolve maps the requested strategy onto one f can run, returning the
// lane view of f for the vectorized kernel.
func resolve[E field.Element](f field.Field[E], s Strategy) (Strategy, field.LaneField[E]) {
	cat := f.Category()
	if cat == field.CategoryRNS {
		panic(badRNS)
	}
	lf, lanesOK := f.(field.LaneField[E])
	lanesOK = lanesOK && cat == field.CategoryUnparametric && hwy.MaxLanes[E]() >= 2

	switch s {
	case StrategyAuto:
		switch {
		case lanesOK:
			return StrategyVectorized, lf
		case cat == field.CategoryUnparametric:
			return StrategyUnparametric, nil
		default:
			return StrategyGeneric, nil
		}
	case StrategyGeneric:
		return s, nil
	case StrategyUnparametric:
		if cat != field.CategoryUnparametric {
			panic(badStrategy)
		}
		return s, nil
	case StrategyVectorized:
		if !lanesOK {
			panic(badStrategy)
		}
		return s, lf
	}
	panic(badStrategy)
}

// rowStep is the number of output elements sharing one cache line. Row
// chunks handed to different workers start on multiples of it.
func rowStep[E field.Element]() int {
	var zero E
	return max(1, hwy.CacheLineSize/int(unsafe.Sizeof(zero)))
}

// forRows runs fn over [0, m), on the pool when one is configured.
func forRows[E field.Element](o options, m int, fn func(start, end int)) {
	if o.pool == nil {
		fn(0, m)
		return
	}
	o.pool.ParallelForStep(m, rowStep[E](), fn)
}
