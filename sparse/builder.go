package sparse

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/go-ffblas/ffblas/delayed"
	"github.com/go-ffblas/ffblas/field"
	"github.com/go-ffblas/ffblas/hwy"
)

// NewELL builds an m x n ELL matrix from a triplet stream. Triplets may come
// in any order; within a row they are packed in input order. Values are
// stored as given, so they must already be reduced.
func NewELL[E field.Element](f field.Field[E], rows, cols []int, vals []E, m, n int) (*ELL[E], error) {
	if len(vals) != len(rows) {
		return nil, fmt.Errorf("%w: %d rows, %d values", ErrDimension, len(rows), len(vals))
	}
	counts, err := rowCounts(rows, cols, m, n)
	if err != nil {
		return nil, err
	}
	ld := lo.Max(counts)

	a := &ELL[E]{
		M:       m,
		N:       n,
		NNZ:     len(rows),
		Ld:      ld,
		Col:     hwy.AllocAligned[int32](m * ld),
		Dat:     hwy.AllocAligned[E](m * ld),
		Delayed: isDelayed(f, ld),
	}
	next := make([]int, m)
	for t, i := range rows {
		slot := i*ld + next[i]
		a.Col[slot] = int32(cols[t])
		a.Dat[slot] = vals[t]
		next[i]++
	}
	return a, nil
}

// NewELLZO builds the structure of an m x n zero-one matrix. f only
// determines the accumulation bound.
func NewELLZO[E field.Element](f field.Field[E], rows, cols []int, m, n int) (*ELLZO, error) {
	counts, err := rowCounts(rows, cols, m, n)
	if err != nil {
		return nil, err
	}
	ld := lo.Max(counts)

	a := &ELLZO{
		M:       m,
		N:       n,
		NNZ:     len(rows),
		Ld:      ld,
		Col:     hwy.AllocAligned[int32](m * ld),
		Len:     make([]int32, m),
		Delayed: isDelayed(f, ld),
	}
	for t, i := range rows {
		a.Col[i*ld+int(a.Len[i])] = int32(cols[t])
		a.Len[i]++
	}
	return a, nil
}

func rowCounts(rows, cols []int, m, n int) ([]int, error) {
	if m < 0 || n < 0 || len(rows) != len(cols) {
		return nil, fmt.Errorf("%w: m=%d n=%d, %d rows, %d cols", ErrDimension, m, n, len(rows), len(cols))
	}
	counts := make([]int, m)
	for t, i := range rows {
		j := cols[t]
		if i < 0 || i >= m || j < 0 || j >= n {
			return nil, fmt.Errorf("%w: (%d, %d) in %dx%d", ErrTripletOutOfRange, i, j, m, n)
		}
		counts[i]++
	}
	return counts, nil
}

func isDelayed[E field.Element](f field.Field[E], ld int) bool {
	if f.Category() != field.CategoryUnparametric {
		return false
	}
	return delayed.IsDelayed(delayed.Bound(f), ld)
}
