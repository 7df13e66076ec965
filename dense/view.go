// Package dense implements dense kernels over finite fields: strided matrix
// views, the delayed-reduction base-case products, and the recursive
// Strassen-like symmetric rank-k update Syrk.
package dense

import (
	"github.com/go-ffblas/ffblas/field"
	"github.com/go-ffblas/ffblas/hwy"
)

// View is a rectangular window onto a backing slice. Element (i, j) lives at
// off + i*rowStride + j*colStride. Views never own their storage; slicing,
// splitting into quadrants and transposing only change the offset, extents
// and strides.
type View[E field.Element] struct {
	data       []E
	off        int
	rows, cols int
	rs, cs     int
}

// NewView allocates a zeroed rows x cols row-major matrix on a cache-line
// boundary.
func NewView[E field.Element](rows, cols int) View[E] {
	if rows < 0 || cols < 0 {
		panic(badShape)
	}
	return View[E]{
		data: hwy.AllocAligned[E](rows * cols),
		rows: rows,
		cols: cols,
		rs:   cols,
		cs:   1,
	}
}

// ViewOf wraps caller-owned row-major storage with leading dimension ld.
func ViewOf[E field.Element](data []E, rows, cols, ld int) View[E] {
	if rows < 0 || cols < 0 || ld < cols {
		panic(badShape)
	}
	if rows > 0 && cols > 0 && len(data) < (rows-1)*ld+cols {
		panic(badShortData)
	}
	return View[E]{data: data, rows: rows, cols: cols, rs: ld, cs: 1}
}

// Rows returns the number of rows.
func (v View[E]) Rows() int { return v.rows }

// Cols returns the number of columns.
func (v View[E]) Cols() int { return v.cols }

// At returns element (i, j). Indices are not bounds checked beyond what the
// backing slice enforces.
func (v View[E]) At(i, j int) E {
	return v.data[v.off+i*v.rs+j*v.cs]
}

// Set stores element (i, j).
func (v View[E]) Set(i, j int, e E) {
	v.data[v.off+i*v.rs+j*v.cs] = e
}

// Slice returns the r x c window whose top-left corner is (i, j).
func (v View[E]) Slice(i, j, r, c int) View[E] {
	if i < 0 || j < 0 || r < 0 || c < 0 || i+r > v.rows || j+c > v.cols {
		panic(badSlice)
	}
	w := v
	w.off = v.off + i*v.rs + j*v.cs
	w.rows, w.cols = r, c
	return w
}

// T returns the transposed view over the same storage.
func (v View[E]) T() View[E] {
	w := v
	w.rows, w.cols = v.cols, v.rows
	w.rs, w.cs = v.cs, v.rs
	return w
}

// Quadrants splits v into four equal blocks. Both extents must be even.
func (v View[E]) Quadrants() (v11, v12, v21, v22 View[E]) {
	if v.rows%2 != 0 || v.cols%2 != 0 {
		panic(badOddN)
	}
	r, c := v.rows/2, v.cols/2
	return v.Slice(0, 0, r, c), v.Slice(0, c, r, c), v.Slice(r, 0, r, c), v.Slice(r, c, r, c)
}

// Dense returns a compact row-major copy of the viewed elements.
func (v View[E]) Dense() []E {
	out := make([]E, 0, v.rows*v.cols)
	for i := range v.rows {
		for j := range v.cols {
			out = append(out, v.At(i, j))
		}
	}
	return out
}

// contiguous reports whether every row is a plain subslice.
func (v View[E]) contiguous() bool { return v.cs == 1 }

// row returns row i as a slice. Only valid for contiguous views.
func (v View[E]) row(i int) []E {
	base := v.off + i*v.rs
	return v.data[base : base+v.cols]
}
