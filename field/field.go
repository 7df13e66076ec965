// Package field defines the finite field capability consumed by the dense
// and sparse kernels, and provides prime fields Z/pZ over int32, int64 and
// float64 elements.
//
// Elements are stored in a machine type much wider than the modulus needs,
// so kernels can sum several unreduced products before calling Reduce. The
// element range reported by MinElement and MaxElement, together with
// AccumulatorRange, is what the delayed package uses to bound that sum.
package field

import (
	"errors"

	"github.com/go-ffblas/ffblas/hwy"
)

// Element is the set of machine types a field element can be stored in.
type Element interface {
	int32 | int64 | float64
}

// Category selects the kernel strategy for a field. It is resolved once per
// call.
type Category int

const (
	// CategoryGeneric fields are only manipulated through their methods.
	// Kernels never accumulate raw products for them.
	CategoryGeneric Category = iota

	// CategoryUnparametric fields store elements natively; raw machine
	// arithmetic is exact up to the delayed-reduction bound.
	CategoryUnparametric

	// CategoryRNS marks multi-modulus residue number system fields. No
	// kernel supports them.
	CategoryRNS
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryGeneric:
		return "generic"
	case CategoryUnparametric:
		return "unparametric"
	case CategoryRNS:
		return "rns"
	default:
		return "unknown"
	}
}

// Field is the arithmetic capability of a finite field whose elements are
// stored as E. Implementations must be safe for concurrent use.
type Field[E Element] interface {
	Zero() E
	One() E
	// Init maps an integer to its canonical representative.
	Init(x int64) E

	Add(a, b E) E
	Sub(a, b E) E
	Neg(a E) E
	Mul(a, b E) E
	// Axpy returns a*x + y, reduced.
	Axpy(a, x, y E) E
	// Reduce maps an unreduced accumulator back into [MinElement, MaxElement].
	Reduce(x E) E
	IsZero(x E) bool

	Characteristic() uint64
	MinElement() E
	MaxElement() E
	Category() Category
}

// LaneField is a Field that can also reduce and combine whole lanes.
// The vectorized kernels require it.
type LaneField[E Element] interface {
	Field[E]
	ReduceLanes(v hwy.Vec[E]) hwy.Vec[E]
	AddLanes(a, b hwy.Vec[E]) hwy.Vec[E]
	SubLanes(a, b hwy.Vec[E]) hwy.Vec[E]
}

var (
	// ErrModulus is returned for a modulus below 2.
	ErrModulus = errors.New("field: modulus must be at least 2")

	// ErrNotPrime is returned when the modulus is composite.
	ErrNotPrime = errors.New("field: modulus is not prime")

	// ErrModulusTooLarge is returned when a single product plus one reduced
	// addend does not fit the element type.
	ErrModulusTooLarge = errors.New("field: modulus too large for element type")
)

// AccumulatorRange returns the largest magnitude an E can hold exactly:
// 2^31-1, 2^63-1, or 2^53 for float64.
func AccumulatorRange[E Element]() uint64 {
	var zero E
	switch any(zero).(type) {
	case int32:
		return 1<<31 - 1
	case int64:
		return 1<<63 - 1
	default:
		return 1 << 53
	}
}

// MaxMagnitude returns max(|MinElement|, |MaxElement|) of f.
func MaxMagnitude[E Element](f Field[E]) uint64 {
	lo, hi := f.MinElement(), f.MaxElement()
	if lo < 0 {
		lo = -lo
	}
	if hi < 0 {
		hi = -hi
	}
	return uint64(max(lo, hi))
}
