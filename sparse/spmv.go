package sparse

import (
	"github.com/go-ffblas/ffblas/delayed"
	"github.com/go-ffblas/ffblas/field"
	"github.com/go-ffblas/ffblas/hwy"
)

// SpMV computes y[i] += Σ_j A[i,j]·x[A.Col[i,j]] for every row of a.
//
// x must have at least a.N elements and y at least a.M, all reduced. Column
// indices are not validated. Rows are independent and may run concurrently
// when WithPool is given.
func SpMV[E field.Element](f field.Field[E], a *ELL[E], x, y []E, opts ...Option) {
	if a.released() {
		panic(badReleased)
	}
	if len(x) < a.N || len(y) < a.M {
		panic(badVector)
	}
	o := gatherOptions(opts)
	s, lf := resolve(f, o.strategy)
	if a.Ld == 0 {
		return
	}

	var rows func(start, end int)
	switch s {
	case StrategyGeneric:
		rows = func(start, end int) {
			for i := start; i < end; i++ {
				y[i] = genericRow(f, a.Col[i*a.Ld:(i+1)*a.Ld], a.Dat[i*a.Ld:(i+1)*a.Ld], x, y[i])
			}
		}
	case StrategyUnparametric:
		kmax := rowBlock(f, a.Ld, a.Delayed)
		rows = func(start, end int) {
			for i := start; i < end; i++ {
				y[i] = rawRow(f, a.Col[i*a.Ld:(i+1)*a.Ld], a.Dat[i*a.Ld:(i+1)*a.Ld], x, y[i], kmax)
			}
		}
	case StrategyVectorized:
		kmax := delayed.Bound(f)
		rows = func(start, end int) {
			for i := start; i < end; i++ {
				y[i] = laneRow(lf, a.Col[i*a.Ld:(i+1)*a.Ld], a.Dat[i*a.Ld:(i+1)*a.Ld], x, y[i], kmax)
			}
		}
	}
	forRows[E](o, a.M, rows)
}

// rowBlock is the block length of the row loop: the whole row when the
// matrix is delayed.
func rowBlock[E field.Element](f field.Field[E], ld int, isDelayed bool) int {
	if isDelayed {
		return max(ld, 1)
	}
	return delayed.Bound(f)
}

// genericRow accumulates into four independent partial sums, each product
// reduced by Axpy.
func genericRow[E field.Element](f field.Field[E], col []int32, dat, x []E, yi E) E {
	y1, y2, y3, y4 := yi, f.Zero(), f.Zero(), f.Zero()
	ld := len(col)
	j := 0
	for ; j+4 <= ld; j += 4 {
		y1 = f.Axpy(dat[j], x[col[j]], y1)
		y2 = f.Axpy(dat[j+1], x[col[j+1]], y2)
		y3 = f.Axpy(dat[j+2], x[col[j+2]], y3)
		y4 = f.Axpy(dat[j+3], x[col[j+3]], y4)
	}
	for ; j < ld; j++ {
		y1 = f.Axpy(dat[j], x[col[j]], y1)
	}
	return f.Add(f.Add(y1, y2), f.Add(y3, y4))
}

// rawRow is the four-way raw accumulation, reduced after every kmax slots.
// The four partial sums together never hold more than kmax products on top
// of yi.
func rawRow[E field.Element](f field.Field[E], col []int32, dat, x []E, yi E, kmax int) E {
	acc := yi
	delayed.ForEachBlock(len(col), kmax, func(start, end int) {
		var y1, y2, y3, y4 E
		y1 = acc
		j := start
		for ; j+4 <= end; j += 4 {
			y1 += dat[j] * x[col[j]]
			y2 += dat[j+1] * x[col[j+1]]
			y3 += dat[j+2] * x[col[j+2]]
			y4 += dat[j+3] * x[col[j+3]]
		}
		for ; j < end; j++ {
			y1 += dat[j] * x[col[j]]
		}
		acc = f.Reduce(y1 + y2 + y3 + y4)
	})
	return acc
}

// laneRow gathers one lane of x per step and reduces the lane accumulator
// every kmax steps. Slots past the last full lane are summed as scalars.
func laneRow[E field.Element](f field.LaneField[E], col []int32, dat, x []E, yi E, kmax int) E {
	w := hwy.MaxLanes[E]()
	ld := len(col)
	acc := hwy.Zero[E]()
	steps := 0
	j := 0
	for ; j+w <= ld; j += w {
		xs := hwy.GatherIndex(x, hwy.LoadU(col[j:j+w]))
		acc = hwy.MulAdd(hwy.LoadU(dat[j:]), xs, acc)
		if steps++; steps == kmax {
			acc = f.ReduceLanes(acc)
			steps = 0
		}
	}
	sum := f.Add(yi, f.Reduce(hwy.ReduceSum(f.ReduceLanes(acc))))
	if j < ld {
		sum = rawRow[E](f, col[j:], dat[j:], x, sum, kmax)
	}
	return sum
}
