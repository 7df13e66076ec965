package sparse

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-ffblas/ffblas/field"
	"github.com/go-ffblas/ffblas/hwy"
	"github.com/go-ffblas/ffblas/hwy/contrib/workerpool"
	"github.com/go-ffblas/ffblas/sampling"
)

func TestNewELLPacking(t *testing.T) {
	f := field.MustModular[int64](101)
	// Row 1 is empty, row 2 arrives out of order.
	rows := []int{2, 0, 2, 2, 0}
	cols := []int{3, 1, 0, 2, 4}
	vals := []int64{5, 6, 7, 8, 9}
	a, err := NewELL[int64](f, rows, cols, vals, 3, 5)
	require.NoError(t, err)

	assert.Equal(t, 3, a.Ld)
	assert.Equal(t, 5, a.NNZ)
	assert.True(t, a.Delayed)
	if diff := cmp.Diff([]int32{1, 4, 0, 0, 0, 0, 3, 0, 2}, a.Col); diff != "" {
		t.Errorf("Col mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{6, 9, 0, 0, 0, 0, 5, 7, 8}, a.Dat); diff != "" {
		t.Errorf("Dat mismatch (-want +got):\n%s", diff)
	}

	zo, err := NewELLZO[int64](f, rows, cols, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, []int32{2, 0, 3}, zo.Len)
	assert.Equal(t, a.Col, zo.Col)
}

func TestNewELLErrors(t *testing.T) {
	f := field.MustModular[int32](101)
	tests := []struct {
		name string
		rows []int
		cols []int
		vals []int32
		m, n int
		want error
	}{
		{"short values", []int{0, 1}, []int{0, 1}, []int32{1}, 2, 2, ErrDimension},
		{"short cols", []int{0, 1}, []int{0}, []int32{1, 1}, 2, 2, ErrDimension},
		{"negative m", nil, nil, nil, -1, 2, ErrDimension},
		{"row too large", []int{2}, []int{0}, []int32{1}, 2, 2, ErrTripletOutOfRange},
		{"negative col", []int{0}, []int{-1}, []int32{1}, 2, 2, ErrTripletOutOfRange},
		{"col too large", []int{1}, []int{2}, []int32{1}, 2, 2, ErrTripletOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewELL[int32](f, tt.rows, tt.cols, tt.vals, tt.m, tt.n)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestDelayedFlag(t *testing.T) {
	rows := make([]int, 7)
	cols := []int{0, 1, 2, 3, 4, 5, 6}
	vals := make([]int64, 7)

	big := field.MustModular[int64](2147483647) // kmax 2
	a, err := NewELL[int64](big, rows, cols, vals, 1, 7)
	require.NoError(t, err)
	assert.False(t, a.Delayed)

	small := field.MustModular[int64](101)
	a, err = NewELL[int64](small, rows, cols, vals, 1, 7)
	require.NoError(t, err)
	assert.True(t, a.Delayed)

	a, err = NewELL[int64](field.AsGeneric[int64](small), rows, cols, vals, 1, 7)
	require.NoError(t, err)
	assert.False(t, a.Delayed, "generic fields never skip the block loop")
}

// naiveSpMV returns y + A·x computed one reduced operation at a time.
func naiveSpMV[E field.Element](f field.Field[E], rows, cols []int, vals, x, y []E) []E {
	out := append([]E(nil), y...)
	for t := range rows {
		out[rows[t]] = f.Add(out[rows[t]], f.Mul(vals[t], x[cols[t]]))
	}
	return out
}

type spmvShape struct {
	m, n, perRow int
	extreme      bool // every entry of A, x and y at the largest magnitude
}

var spmvShapes = []spmvShape{
	{0, 4, 2, false},
	{5, 5, 0, false},
	{9, 11, 3, false},
	{13, 40, 7, false},
	{21, 64, 13, false},
	{6, 17, 17, false}, // dense rows
	{100, 300, 37, false},
	{12, 64, 64, true},
	{9, 40, 17, true},
}

// extreme returns the element of f with the largest magnitude.
func extreme[E field.Element](f field.Field[E]) E {
	lo, hi := f.MinElement(), f.MaxElement()
	if -lo > hi {
		return lo
	}
	return hi
}

func fill[E any](s []E, v E) {
	for i := range s {
		s[i] = v
	}
}

func checkSpMV[E field.Element](t *testing.T, f field.Field[E], pool *workerpool.Pool) {
	strategies := []Strategy{StrategyAuto, StrategyGeneric}
	if f.Category() == field.CategoryUnparametric {
		strategies = append(strategies, StrategyUnparametric)
		if _, ok := f.(field.LaneField[E]); ok && hwy.MaxLanes[E]() >= 2 {
			strategies = append(strategies, StrategyVectorized)
		}
	}
	for _, sh := range spmvShapes {
		x := sampling.NewXOF([]byte(fmt.Sprintf("spmv/%v", sh)), 0)
		rows, cols, vals := sampling.Triplets(f, x, sh.m, sh.n, sh.perRow)
		xs := sampling.Elements(f, x, sh.n)
		y0 := sampling.Elements(f, x, sh.m)
		if sh.extreme {
			e := extreme(f)
			fill(vals, e)
			fill(xs, e)
			fill(y0, e)
		}
		want := naiveSpMV(f, rows, cols, vals, xs, y0)

		a, err := NewELL(f, rows, cols, vals, sh.m, sh.n)
		require.NoError(t, err)
		simd := ToSimd(a)

		for _, s := range strategies {
			opts := []Option{WithStrategy(s)}
			if pool != nil {
				opts = append(opts, WithPool(pool))
			}
			name := fmt.Sprintf("m=%d/n=%d/perRow=%d/extreme=%v/%v", sh.m, sh.n, sh.perRow, sh.extreme, s)

			y := append([]E(nil), y0...)
			SpMV(f, a, xs, y, opts...)
			require.Equal(t, want, y, "ELL %s", name)

			y = append([]E(nil), y0...)
			SpMVSimd(f, simd, xs, y, opts...)
			require.Equal(t, want, y, "ELLSimd %s", name)
		}
	}
}

func TestSpMV(t *testing.T) {
	balanced, err := field.NewModularBalanced[int64](1000003)
	require.NoError(t, err)
	balancedF, err := field.NewModularBalanced[float64](101)
	require.NoError(t, err)
	balanced32, err := field.NewModularBalanced[int32](40009)
	require.NoError(t, err)

	pool := workerpool.New(4)
	defer pool.Close()

	for _, p := range []*workerpool.Pool{nil, pool} {
		name := "sequential"
		if p != nil {
			name = "pool"
		}
		t.Run(name, func(t *testing.T) {
			t.Run("int32/p=40009", func(t *testing.T) { checkSpMV[int32](t, field.MustModular[int32](40009), p) })
			t.Run("int32/p=101", func(t *testing.T) { checkSpMV[int32](t, field.MustModular[int32](101), p) })
			t.Run("int64/p=2^31-1", func(t *testing.T) { checkSpMV[int64](t, field.MustModular[int64](2147483647), p) })
			t.Run("float64/p=67108859", func(t *testing.T) { checkSpMV[float64](t, field.MustModular[float64](67108859), p) })
			t.Run("balanced-int64", func(t *testing.T) { checkSpMV[int64](t, balanced, p) })
			t.Run("balanced-float64", func(t *testing.T) { checkSpMV[float64](t, balancedF, p) })
			t.Run("balanced-int32", func(t *testing.T) { checkSpMV[int32](t, balanced32, p) })
			t.Run("generic", func(t *testing.T) {
				checkSpMV[int64](t, field.AsGeneric[int64](field.MustModular[int64](1000003)), p)
			})
		})
	}
}

func TestSpMVEmptyMatrix(t *testing.T) {
	f := field.MustModular[int64](101)
	a, err := NewELL[int64](f, nil, nil, nil, 4, 3)
	require.NoError(t, err)
	assert.Zero(t, a.Ld)

	y := []int64{1, 2, 3, 4}
	SpMV[int64](f, a, []int64{5, 6, 7}, y)
	assert.Equal(t, []int64{1, 2, 3, 4}, y)
}

func TestSpMVZO(t *testing.T) {
	f := field.MustModular[int64](2147483647)
	x := sampling.NewXOF([]byte("zo"), 0)
	const m, n = 30, 50
	rows, cols, _ := sampling.Triplets[int64](f, x, m, n, 19)
	xs := sampling.Elements[int64](f, x, n)
	y0 := sampling.Elements[int64](f, x, m)

	add := append([]int64(nil), y0...)
	sub := append([]int64(nil), y0...)
	for t := range rows {
		add[rows[t]] = f.Add(add[rows[t]], xs[cols[t]])
		sub[rows[t]] = f.Sub(sub[rows[t]], xs[cols[t]])
	}

	a, err := NewELLZO[int64](f, rows, cols, m, n)
	require.NoError(t, err)
	for _, s := range []Strategy{StrategyAuto, StrategyGeneric, StrategyUnparametric, StrategyVectorized} {
		if s == StrategyVectorized && hwy.MaxLanes[int64]() < 2 {
			continue
		}
		t.Run(s.String(), func(t *testing.T) {
			y := append([]int64(nil), y0...)
			SpMVZO[int64](f, a, xs, y, AddCombine[int64](), WithStrategy(s))
			require.Equal(t, add, y)

			y = append([]int64(nil), y0...)
			SpMVZO[int64](f, a, xs, y, SubCombine[int64](), WithStrategy(s))
			require.Equal(t, sub, y)
		})
	}

	t.Run("scalar only combine", func(t *testing.T) {
		y := append([]int64(nil), y0...)
		c := Combine[int64]{Scalar: AddCombine[int64]().Scalar}
		SpMVZO[int64](f, a, xs, y, c)
		require.Equal(t, add, y)
		assert.PanicsWithValue(t, badStrategy, func() {
			SpMVZO[int64](f, a, xs, y, c, WithStrategy(StrategyVectorized))
		})
	})
}

type rnsField struct {
	field.Field[int64]
}

func (rnsField) Category() field.Category { return field.CategoryRNS }

func TestSpMVPanics(t *testing.T) {
	f := field.MustModular[int64](101)
	a, err := NewELL[int64](f, []int{0, 1}, []int{1, 0}, []int64{1, 2}, 2, 2)
	require.NoError(t, err)
	x, y := []int64{1, 1}, []int64{0, 0}

	assert.PanicsWithValue(t, badVector, func() { SpMV[int64](f, a, x[:1], y) })
	assert.PanicsWithValue(t, badRNS, func() { SpMV[int64](rnsField{f}, a, x, y) })
	assert.PanicsWithValue(t, badStrategy, func() {
		SpMV[int64](field.AsGeneric[int64](f), a, x, y, WithStrategy(StrategyUnparametric))
	})
	assert.PanicsWithValue(t, badStrategy, func() {
		SpMV[int64](field.AsGeneric[int64](f), a, x, y, WithStrategy(StrategyVectorized))
	})

	s := ToSimd(a)
	a.Release()
	assert.PanicsWithValue(t, badReleased, func() { SpMV[int64](f, a, x, y) })
	assert.PanicsWithValue(t, badReleased, func() { ToSimd(a) })
	s.Release()
	assert.PanicsWithValue(t, badReleased, func() { SpMVSimd[int64](f, s, x, y) })
}

func TestRowStep(t *testing.T) {
	assert.Equal(t, hwy.CacheLineSize/8, rowStep[int64]())
	assert.Equal(t, hwy.CacheLineSize/4, rowStep[int32]())
}

func BenchmarkSpMV(b *testing.B) {
	f := field.MustModular[float64](67108859)
	x := sampling.NewXOF([]byte("bench"), 0)
	const m, n = 4096, 4096
	rows, cols, vals := sampling.Triplets[float64](f, x, m, n, 32)
	a, err := NewELL[float64](f, rows, cols, vals, m, n)
	require.NoError(b, err)
	simd := ToSimd(a)
	xs := sampling.Elements[float64](f, x, n)
	y := make([]float64, m)

	pool := workerpool.New(0)
	defer pool.Close()

	for _, s := range []Strategy{StrategyGeneric, StrategyUnparametric, StrategyVectorized} {
		if s == StrategyVectorized && hwy.MaxLanes[float64]() < 2 {
			continue
		}
		b.Run("ell/"+s.String(), func(b *testing.B) {
			for range b.N {
				SpMV[float64](f, a, xs, y, WithStrategy(s))
			}
		})
		b.Run("ell-pool/"+s.String(), func(b *testing.B) {
			for range b.N {
				SpMV[float64](f, a, xs, y, WithStrategy(s), WithPool(pool))
			}
		})
		b.Run("ellsimd/"+s.String(), func(b *testing.B) {
			for range b.N {
				SpMVSimd[float64](f, simd, xs, y, WithStrategy(s))
			}
		})
	}
}
