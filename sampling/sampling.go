package sampling

import (
	"github.com/go-ffblas/ffblas/field"
)

// Element draws one uniform element of f.
func Element[E field.Element](f field.Field[E], x *XOF) E {
	return f.Init(int64(x.below(f.Characteristic())))
}

// Elements draws n uniform elements of f.
func Elements[E field.Element](f field.Field[E], x *XOF, n int) []E {
	out := make([]E, n)
	for i := range out {
		out[i] = Element(f, x)
	}
	return out
}

// Matrix draws a rows x cols row-major matrix of uniform elements.
func Matrix[E field.Element](f field.Field[E], x *XOF, rows, cols int) []E {
	return Elements(f, x, rows*cols)
}

// Triplets draws a sparse m x n matrix as a (row, col, value) stream. Row i
// gets a uniform number of entries in [0, perRow] at distinct columns, all
// values non-zero. The stream is returned in scrambled order.
func Triplets[E field.Element](f field.Field[E], x *XOF, m, n, perRow int) (rows, cols []int, vals []E) {
	perRow = min(perRow, n)
	for i := range m {
		k := x.IntN(perRow + 1)
		seen := make(map[int]struct{}, k)
		for len(seen) < k {
			j := x.IntN(n)
			if _, dup := seen[j]; dup {
				continue
			}
			seen[j] = struct{}{}
			rows = append(rows, i)
			cols = append(cols, j)
			vals = append(vals, nonZero(f, x))
		}
	}
	// Fisher-Yates, driven by the same stream.
	for i := len(rows) - 1; i > 0; i-- {
		j := x.IntN(i + 1)
		rows[i], rows[j] = rows[j], rows[i]
		cols[i], cols[j] = cols[j], cols[i]
		vals[i], vals[j] = vals[j], vals[i]
	}
	return rows, cols, vals
}

func nonZero[E field.Element](f field.Field[E], x *XOF) E {
	for {
		if v := Element(f, x); !f.IsZero(v) {
			return v
		}
	}
}
