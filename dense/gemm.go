package dense

import (
	"github.com/go-ffblas/ffblas/field"
	"github.com/go-ffblas/ffblas/hwy/contrib/workerpool"
)

// GemmNT computes C = alpha*A*Bᵗ + beta*C for A m x k, B n x k and C m x n.
// Every entry is a delayed-reduction dot product, so the result is reduced.
// C must not overlap A or B.
func GemmNT[E field.Element](f field.Field[E], alpha E, a, b View[E], beta E, c View[E], opts ...Option) {
	o := gatherOptions(opts)
	newKernel(f).gemmNT(alpha, a, b, beta, c, o.pool)
}

// SyrkBase writes the lower triangle of alpha*A*Aᵗ + beta*C for A n x k
// into C, computing every entry directly. The strict upper triangle of C is
// neither read nor written.
func SyrkBase[E field.Element](f field.Field[E], alpha E, a View[E], beta E, c View[E], opts ...Option) {
	o := gatherOptions(opts)
	newKernel(f).syrkLower(alpha, a, beta, c, o.pool)
}

func (k *kernel[E]) gemmNT(alpha E, a, b View[E], beta E, c View[E], pool *workerpool.Pool) {
	if a.cols != b.cols || c.rows != a.rows || c.cols != b.rows {
		panic(badDims)
	}
	rows := func(start, end int) {
		for i := start; i < end; i++ {
			for j := range c.cols {
				c.Set(i, j, k.scale(alpha, k.dot(a, i, b, j), beta, func() E { return c.At(i, j) }))
			}
		}
	}
	if pool != nil {
		pool.ParallelFor(c.rows, rows)
		return
	}
	rows(0, c.rows)
}

func (k *kernel[E]) syrkLower(alpha E, a View[E], beta E, c View[E], pool *workerpool.Pool) {
	if c.rows != a.rows || c.cols != a.rows {
		panic(badDims)
	}
	row := func(i int) {
		for j := 0; j <= i; j++ {
			c.Set(i, j, k.scale(alpha, k.dot(a, i, a, j), beta, func() E { return c.At(i, j) }))
		}
	}
	if pool != nil {
		// Row i costs i+1 dot products; work stealing evens that out.
		pool.ParallelForAtomic(c.rows, row)
		return
	}
	for i := range c.rows {
		row(i)
	}
}
