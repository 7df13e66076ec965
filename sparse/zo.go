package sparse

import (
	"github.com/go-ffblas/ffblas/delayed"
	"github.com/go-ffblas/ffblas/field"
	"github.com/go-ffblas/ffblas/hwy"
)

// Combine folds one x value into an accumulator without reducing. The
// result of folding at most delayed.Bound(f) values into a reduced
// accumulator must stay inside the element type's exact range. Lane may be
// nil, which rules out the vectorized kernel.
type Combine[E field.Element] struct {
	Scalar func(acc, x E) E
	Lane   func(acc, x hwy.Vec[E]) hwy.Vec[E]
}

// AddCombine adds x, making SpMVZO a product with a 0/1 matrix.
func AddCombine[E field.Element]() Combine[E] {
	return Combine[E]{
		Scalar: func(acc, x E) E { return acc + x },
		Lane:   hwy.Add[E],
	}
}

// SubCombine subtracts x, for the negative half of a 0/±1 matrix.
func SubCombine[E field.Element]() Combine[E] {
	return Combine[E]{
		Scalar: func(acc, x E) E { return acc - x },
		Lane:   hwy.Sub[E],
	}
}

// SpMVZO computes y[i] = combine(... combine(y[i], x[c0]) ..., x[cL]) over
// the stored columns of each row, reducing at the same cadence as SpMV.
func SpMVZO[E field.Element](f field.Field[E], a *ELLZO, x, y []E, c Combine[E], opts ...Option) {
	if a.released() {
		panic(badReleased)
	}
	if len(x) < a.N || len(y) < a.M {
		panic(badVector)
	}
	o := gatherOptions(opts)
	if o.strategy == StrategyAuto && c.Lane == nil && f.Category() == field.CategoryUnparametric {
		o.strategy = StrategyUnparametric
	}
	s, lf := resolve(f, o.strategy)
	if s == StrategyVectorized && c.Lane == nil {
		panic(badStrategy)
	}
	if a.Ld == 0 {
		return
	}

	cols := func(i int) []int32 {
		return a.Col[i*a.Ld : i*a.Ld+int(a.Len[i])]
	}
	var rows func(start, end int)
	switch s {
	case StrategyGeneric:
		rows = func(start, end int) {
			for i := start; i < end; i++ {
				y[i] = genericRowZO(f, cols(i), x, y[i], c)
			}
		}
	case StrategyUnparametric:
		kmax := rowBlock(f, a.Ld, a.Delayed)
		rows = func(start, end int) {
			for i := start; i < end; i++ {
				y[i] = rawRowZO(f, cols(i), x, y[i], c, kmax)
			}
		}
	case StrategyVectorized:
		kmax := delayed.Bound(f)
		rows = func(start, end int) {
			for i := start; i < end; i++ {
				y[i] = laneRowZO(lf, cols(i), x, y[i], c, kmax)
			}
		}
	}
	forRows[E](o, a.M, rows)
}

func genericRowZO[E field.Element](f field.Field[E], col []int32, x []E, yi E, c Combine[E]) E {
	y1, y2, y3, y4 := yi, f.Zero(), f.Zero(), f.Zero()
	n := len(col)
	j := 0
	for ; j+4 <= n; j += 4 {
		y1 = f.Reduce(c.Scalar(y1, x[col[j]]))
		y2 = f.Reduce(c.Scalar(y2, x[col[j+1]]))
		y3 = f.Reduce(c.Scalar(y3, x[col[j+2]]))
		y4 = f.Reduce(c.Scalar(y4, x[col[j+3]]))
	}
	for ; j < n; j++ {
		y1 = f.Reduce(c.Scalar(y1, x[col[j]]))
	}
	return f.Add(f.Add(y1, y2), f.Add(y3, y4))
}

func rawRowZO[E field.Element](f field.Field[E], col []int32, x []E, yi E, c Combine[E], kmax int) E {
	acc := yi
	delayed.ForEachBlock(len(col), kmax, func(start, end int) {
		for j := start; j < end; j++ {
			acc = c.Scalar(acc, x[col[j]])
		}
		acc = f.Reduce(acc)
	})
	return acc
}

func laneRowZO[E field.Element](f field.LaneField[E], col []int32, x []E, yi E, c Combine[E], kmax int) E {
	w := hwy.MaxLanes[E]()
	n := len(col)
	acc := hwy.Zero[E]()
	steps := 0
	j := 0
	for ; j+w <= n; j += w {
		acc = c.Lane(acc, hwy.GatherIndex(x, hwy.LoadU(col[j:j+w])))
		if steps++; steps == kmax {
			acc = f.ReduceLanes(acc)
			steps = 0
		}
	}
	sum := f.Add(yi, f.Reduce(hwy.ReduceSum(f.ReduceLanes(acc))))
	if j < n {
		sum = rawRowZO[E](f, col[j:], x, sum, c, kmax)
	}
	return sum
}
