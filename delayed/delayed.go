// Package delayed computes how many unreduced products an accumulator can
// absorb before a reduction is mandatory, and walks accumulation ranges in
// blocks of that size.
//
// An accumulator holding one reduced element plus k products of reduced
// elements has magnitude at most m + k*m^2, where m is the largest element
// magnitude of the field. The bound is the largest k keeping that below the
// exact range of the element type.
package delayed

import (
	"math"

	"github.com/go-ffblas/ffblas/field"
)

const (
	badKmax  = "delayed: kmax must be at least 1"
	badField = "delayed: field elements do not fit the accumulator"
)

// Bound returns kmax for f. It depends on the modulus, so it must be
// recomputed for every field rather than cached.
//
// Panics if not even one product fits, which only a field with a zero
// width or a modulus too large for E can cause.
func Bound[E field.Element](f field.Field[E]) int {
	m := field.MaxMagnitude(f)
	rng := field.AccumulatorRange[E]()
	if m == 0 {
		return math.MaxInt32
	}
	if m > rng/m || m*m > rng-m {
		panic(badField)
	}
	k := (rng - m) / (m * m)
	if k > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(k)
}

// Cadence splits an accumulation of length n into n/kmax full blocks and a
// trailing remainder. A reduce follows every full block, and the remainder
// is reduced once at the end.
func Cadence(n, kmax int) (blocks, rem int) {
	if kmax < 1 {
		panic(badKmax)
	}
	return n / kmax, n % kmax
}

// ForEachBlock calls fn for consecutive ranges [start, end) covering [0, n),
// each at most kmax long. The caller reduces after every call.
// Nothing is called for n == 0.
func ForEachBlock(n, kmax int, fn func(start, end int)) {
	blocks, rem := Cadence(n, kmax)
	start := 0
	for range blocks {
		fn(start, start+kmax)
		start += kmax
	}
	if rem > 0 {
		fn(start, n)
	}
}

// IsDelayed reports whether a whole row of ld slots fits in one block,
// so kernels can skip the block loop and reduce once.
func IsDelayed(kmax, ld int) bool {
	return kmax >= ld
}
