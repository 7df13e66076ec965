package dense

import (
	"fmt"
	"unsafe"

	"gonum.org/v1/gonum/blas"

	"github.com/go-ffblas/ffblas/field"
)

// Syrk computes the symmetric rank-k update C = alpha*A*Aᵗ + beta*C over f
// and stores the triangle of C selected by uplo.
//
// With trans == blas.NoTrans, A is n x k; with blas.Trans it is k x n and
// A*Aᵗ is replaced by Aᵗ*A. C is n x n.
//
// Large products recurse through a Strassen-like identity using five
// half-size products instead of eight. When beta is zero the recursion runs
// in place, using the quadrants of C as scratch. Otherwise each recursive
// level acquires one n/2 x max(n/2, k/2) scratch block from the configured
// Allocator and releases it before returning. Either way the triangle not
// selected by uplo is clobbered once recursion happens; the base case never
// touches it. Products with k > n are summed over column blocks of width n.
//
// The only error is a failed scratch acquisition (ErrScratchAlloc). A failure
// at the top level leaves C unmodified; a failure deeper down, possible only
// when the Allocator is shared with concurrent callers, leaves C partially
// updated. Shape mismatches and illegal uplo or trans values panic.
func Syrk[E field.Element](f field.Field[E], uplo blas.Uplo, trans blas.Transpose, n, k int, alpha E, a View[E], beta E, c View[E], opts ...Option) error {
	switch trans {
	case blas.NoTrans:
	case blas.Trans:
		a = a.T()
	default:
		panic(badTranspose)
	}
	switch uplo {
	case blas.Lower:
	case blas.Upper:
		// The upper triangle of C is the lower triangle of Cᵗ.
		c = c.T()
	default:
		panic(badUplo)
	}
	if n < 0 || k < 0 || a.rows != n || a.cols != k || c.rows != n || c.cols != n {
		panic(badDims)
	}

	s := newScheduler(f, gatherOptions(opts))
	if n == 0 {
		return nil
	}
	if k == 0 || f.IsZero(alpha) {
		ScaleLower(f, beta, c)
		return nil
	}
	if k <= n || !s.recursive(n, n) {
		return s.syrk(alpha, a, beta, c)
	}

	// The recursion keeps its S blocks in the quadrants of C, which needs
	// k <= n, so wider products are summed over column blocks of width n.
	for start := 0; start < k; start += n {
		b := beta
		if start > 0 {
			b = f.One()
		}
		if err := s.syrk(alpha, a.Slice(0, start, n, min(n, k-start)), b, c); err != nil {
			return err
		}
	}
	return nil
}

// acquireScratch reserves and allocates a rows x cols buffer. The returned
// release func must be called exactly once.
func acquireScratch[E field.Element](alloc Allocator, rows, cols int) (View[E], func(), error) {
	var zero E
	bytes := rows * cols * int(unsafe.Sizeof(zero))
	if err := alloc.Acquire(bytes); err != nil {
		return View[E]{}, nil, fmt.Errorf("dense: %dx%d scratch: %w", rows, cols, err)
	}
	return NewView[E](rows, cols), func() { alloc.Release(bytes) }, nil
}
