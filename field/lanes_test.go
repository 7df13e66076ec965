package field

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-ffblas/ffblas/hwy"
)

// accumulatorSamples returns values spread over the whole accumulator
// range, including both extremes.
func accumulatorSamples[E Element](rng *rand.Rand, n int) []E {
	limit := int64(min(AccumulatorRange[E](), math.MaxInt64))
	out := []E{E(limit), E(-limit), 0, 1, -1}
	for len(out) < n {
		v := rng.Int64N(limit)
		if rng.IntN(2) == 0 {
			v = -v
		}
		out = append(out, E(v))
	}
	return out
}

func testReduceLanes[E Element](t *testing.T, f *Modular[E]) {
	rng := rand.New(rand.NewPCG(7, f.Characteristic()))
	samples := accumulatorSamples[E](rng, 64*hwy.MaxLanes[E]())
	lanes := hwy.MaxLanes[E]()
	for j := 0; j+lanes <= len(samples); j += lanes {
		got := f.ReduceLanes(hwy.LoadU(samples[j:])).Data()
		for i, x := range samples[j : j+lanes] {
			require.Equal(t, f.Reduce(x), got[i], "%v: ReduceLanes lane for %v", f, x)
		}
	}
}

func TestReduceLanes(t *testing.T) {
	t.Run("int32", func(t *testing.T) { testReduceLanes(t, MustModular[int32](46337)) })
	t.Run("int32 small", func(t *testing.T) { testReduceLanes(t, MustModular[int32](3)) })
	t.Run("int64", func(t *testing.T) { testReduceLanes(t, MustModular[int64](2147483647)) })
	t.Run("int64 p=2", func(t *testing.T) { testReduceLanes(t, MustModular[int64](2)) })
	t.Run("float64", func(t *testing.T) { testReduceLanes(t, MustModular[float64](67108859)) })
	t.Run("balanced int64", func(t *testing.T) {
		f, err := NewModularBalanced[int64](1000003)
		require.NoError(t, err)
		testReduceLanes(t, f)
	})
	t.Run("balanced float64", func(t *testing.T) {
		f, err := NewModularBalanced[float64](8388593)
		require.NoError(t, err)
		testReduceLanes(t, f)
	})
}

func TestAddSubLanes(t *testing.T) {
	f, err := NewModularBalanced[int32](101)
	require.NoError(t, err)
	lanes := hwy.MaxLanes[int32]()
	a := make([]int32, lanes)
	b := make([]int32, lanes)
	for i := range lanes {
		a[i] = f.Init(int64(37 * i))
		b[i] = f.Init(int64(50 + 11*i))
	}
	sum := f.AddLanes(hwy.LoadU(a), hwy.LoadU(b)).Data()
	diff := f.SubLanes(hwy.LoadU(a), hwy.LoadU(b)).Data()
	for i := range lanes {
		require.Equal(t, f.Add(a[i], b[i]), sum[i], "AddLanes lane %d", i)
		require.Equal(t, f.Sub(a[i], b[i]), diff[i], "SubLanes lane %d", i)
	}
}
