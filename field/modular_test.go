package field

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModularErrors(t *testing.T) {
	_, err := NewModular[int64](1)
	require.ErrorIs(t, err, ErrModulus)

	_, err = NewModular[int64](91)
	require.ErrorIs(t, err, ErrNotPrime)

	// (p-1)^2 + (p-1) must fit 2^31-1.
	_, err = NewModular[int32](46349)
	require.ErrorIs(t, err, ErrModulusTooLarge)
	_, err = NewModular[int32](46337)
	require.NoError(t, err)

	// 2^53 bounds float64 elements.
	_, err = NewModular[float64](94906297)
	require.ErrorIs(t, err, ErrModulusTooLarge)
	_, err = NewModular[float64](94906249)
	require.NoError(t, err)

	// Balanced elements allow a larger modulus for the same type.
	_, err = NewModularBalanced[int32](65521)
	require.NoError(t, err)
}

func TestModularElementRange(t *testing.T) {
	f := MustModular[int64](101)
	assert.Equal(t, int64(0), f.MinElement())
	assert.Equal(t, int64(100), f.MaxElement())
	assert.Equal(t, uint64(101), f.Characteristic())
	assert.Equal(t, CategoryUnparametric, f.Category())
	assert.False(t, f.Balanced())

	b, err := NewModularBalanced[int64](101)
	require.NoError(t, err)
	assert.Equal(t, int64(-50), b.MinElement())
	assert.Equal(t, int64(50), b.MaxElement())
	assert.Equal(t, uint64(50), MaxMagnitude[int64](b))

	two, err := NewModularBalanced[int32](2)
	require.NoError(t, err)
	assert.Equal(t, int32(0), two.MinElement())
	assert.Equal(t, int32(1), two.MaxElement())
}

// modRef is the canonical residue of x in [0, p).
func modRef(x, p int64) int64 {
	r := x % p
	if r < 0 {
		r += p
	}
	return r
}

func testArithmetic[E Element](t *testing.T, f *Modular[E]) {
	p := int64(f.Characteristic())
	canon := func(e E) int64 { return modRef(int64(e), p) }
	inRange := func(e E) {
		if e < f.MinElement() || e > f.MaxElement() {
			t.Fatalf("%v: %v outside [%v, %v]", f, e, f.MinElement(), f.MaxElement())
		}
	}

	rng := rand.New(rand.NewPCG(1, uint64(p)))
	for range 2000 {
		x, y, z := rng.Int64N(p), rng.Int64N(p), rng.Int64N(p)
		a, b, c := f.Init(x), f.Init(y), f.Init(z-p)
		inRange(a)
		inRange(c)
		require.Equal(t, z, canon(c), "Init(%d)", z-p)

		for _, got := range []struct {
			name string
			e    E
			want int64
		}{
			{"Add", f.Add(a, b), modRef(x+y, p)},
			{"Sub", f.Sub(a, b), modRef(x-y, p)},
			{"Neg", f.Neg(a), modRef(-x, p)},
			{"Mul", f.Mul(a, b), modRef(x*y, p)},
			{"Axpy", f.Axpy(a, b, c), modRef(x*y+z, p)},
		} {
			inRange(got.e)
			if canon(got.e) != got.want {
				t.Fatalf("%v: %s(%d, %d) = %v, want %d", f, got.name, x, y, got.e, got.want)
			}
		}
	}
	assert.True(t, f.IsZero(f.Init(p)))
	assert.Equal(t, f.One(), f.Init(p+1))
}

func TestModularArithmetic(t *testing.T) {
	t.Run("int32", func(t *testing.T) { testArithmetic(t, MustModular[int32](40009)) })
	t.Run("int64", func(t *testing.T) { testArithmetic(t, MustModular[int64](2147483647)) })
	t.Run("float64", func(t *testing.T) { testArithmetic(t, MustModular[float64](67108859)) })
	t.Run("balanced int64", func(t *testing.T) {
		f, err := NewModularBalanced[int64](1000003)
		require.NoError(t, err)
		testArithmetic(t, f)
	})
	t.Run("balanced float64", func(t *testing.T) {
		f, err := NewModularBalanced[float64](101)
		require.NoError(t, err)
		testArithmetic(t, f)
	})
}

func TestReduceExtremes(t *testing.T) {
	f := MustModular[int64](65537)
	for _, x := range []int64{math.MaxInt64, -math.MaxInt64, 0, -1, 65537, -65537} {
		assert.Equal(t, modRef(x, 65537), int64(f.Reduce(x)), "Reduce(%d)", x)
	}
	g := MustModular[float64](65521)
	for _, x := range []float64{1 << 53, -(1 << 53), -1, 65521 * 3} {
		assert.Equal(t, float64(modRef(int64(x), 65521)), g.Reduce(x), "Reduce(%v)", x)
	}
}

func TestGenericFieldCategory(t *testing.T) {
	f := MustModular[int64](17)
	g := AsGeneric[int64](f)
	assert.Equal(t, CategoryGeneric, g.Category())
	assert.Equal(t, f.Mul(5, 7), g.Mul(5, 7))
	assert.Equal(t, "generic", g.Category().String())
	assert.Equal(t, "rns", CategoryRNS.String())
}

func TestAccumulatorRange(t *testing.T) {
	assert.Equal(t, uint64(math.MaxInt32), AccumulatorRange[int32]())
	assert.Equal(t, uint64(math.MaxInt64), AccumulatorRange[int64]())
	assert.Equal(t, uint64(1<<53), AccumulatorRange[float64]())
}
