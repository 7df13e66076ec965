package dense

import (
	"github.com/go-ffblas/ffblas/field"
	"github.com/go-ffblas/ffblas/hwy"
)

func sameShape[E field.Element](a, b View[E]) {
	if a.rows != b.rows || a.cols != b.cols {
		panic(badDims)
	}
}

// laneField returns f as a LaneField when its lanes may be used directly.
func laneField[E field.Element](f field.Field[E]) (field.LaneField[E], bool) {
	if f.Category() != field.CategoryUnparametric {
		return nil, false
	}
	lf, ok := f.(field.LaneField[E])
	return lf, ok
}

// Copy copies src into dst.
func Copy[E field.Element](dst, src View[E]) {
	sameShape(dst, src)
	for i := range dst.rows {
		if dst.contiguous() && src.contiguous() {
			copy(dst.row(i), src.row(i))
			continue
		}
		for j := range dst.cols {
			dst.Set(i, j, src.At(i, j))
		}
	}
}

// Add stores a + b into dst. dst may be the same view as a or b.
func Add[E field.Element](f field.Field[E], dst, a, b View[E]) {
	elementwise(f, dst, a, b, f.Add, laneOp(f, true))
}

// Sub stores a - b into dst. dst may be the same view as a or b.
func Sub[E field.Element](f field.Field[E], dst, a, b View[E]) {
	elementwise(f, dst, a, b, f.Sub, laneOp(f, false))
}

func laneOp[E field.Element](f field.Field[E], add bool) func(x, y hwy.Vec[E]) hwy.Vec[E] {
	lf, ok := laneField(f)
	if !ok {
		return nil
	}
	if add {
		return lf.AddLanes
	}
	return lf.SubLanes
}

func elementwise[E field.Element](f field.Field[E], dst, a, b View[E], op func(x, y E) E, lane func(x, y hwy.Vec[E]) hwy.Vec[E]) {
	sameShape(dst, a)
	sameShape(dst, b)
	useLanes := lane != nil && dst.contiguous() && a.contiguous() && b.contiguous()
	for i := range dst.rows {
		if !useLanes {
			for j := range dst.cols {
				dst.Set(i, j, op(a.At(i, j), b.At(i, j)))
			}
			continue
		}
		d, x, y := dst.row(i), a.row(i), b.row(i)
		hwy.ProcessWithTail[E](len(d),
			func(off int) {
				hwy.StoreU(lane(hwy.LoadU(x[off:]), hwy.LoadU(y[off:])), d[off:])
			},
			func(off, count int) {
				for j := off; j < off+count; j++ {
					d[j] = op(x[j], y[j])
				}
			})
	}
}

// AddLower adds the lower triangle of src, diagonal included, into dst.
func AddLower[E field.Element](f field.Field[E], dst, src View[E]) {
	sameShape(dst, src)
	for i := range dst.rows {
		for j := 0; j <= i && j < dst.cols; j++ {
			dst.Set(i, j, f.Add(dst.At(i, j), src.At(i, j)))
		}
	}
}

// MirrorLower overwrites the strict upper triangle of the square view v with
// the transpose of its lower triangle, making v explicitly symmetric.
func MirrorLower[E field.Element](v View[E]) {
	if v.rows != v.cols {
		panic(badDims)
	}
	for i := range v.rows {
		for j := 0; j < i; j++ {
			v.Set(j, i, v.At(i, j))
		}
	}
}

// ScaleLower multiplies the lower triangle of c by beta.
func ScaleLower[E field.Element](f field.Field[E], beta E, c View[E]) {
	for i := range c.rows {
		for j := 0; j <= i && j < c.cols; j++ {
			if f.IsZero(beta) {
				c.Set(i, j, f.Zero())
			} else {
				c.Set(i, j, f.Mul(beta, c.At(i, j)))
			}
		}
	}
}

// AxpyLower sets the lower triangle of c to w + beta*c.
func AxpyLower[E field.Element](f field.Field[E], beta E, c, w View[E]) {
	sameShape(c, w)
	for i := range c.rows {
		for j := 0; j <= i && j < c.cols; j++ {
			c.Set(i, j, f.Axpy(beta, c.At(i, j), w.At(i, j)))
		}
	}
}
