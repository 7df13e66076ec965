package dense

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iotaView(rows, cols int) View[int64] {
	v := NewView[int64](rows, cols)
	for i := range rows {
		for j := range cols {
			v.Set(i, j, int64(10*i+j))
		}
	}
	return v
}

func TestViewSliceAndTranspose(t *testing.T) {
	v := iotaView(4, 6)
	s := v.Slice(1, 2, 2, 3)
	assert.Equal(t, 2, s.Rows())
	assert.Equal(t, 3, s.Cols())
	if diff := cmp.Diff([]int64{12, 13, 14, 22, 23, 24}, s.Dense()); diff != "" {
		t.Errorf("Slice mismatch (-want +got):\n%s", diff)
	}

	tt := s.T()
	assert.Equal(t, 3, tt.Rows())
	assert.Equal(t, int64(22), tt.At(0, 1))
	tt.Set(2, 0, -1)
	assert.Equal(t, int64(-1), v.At(1, 4), "transpose must alias the parent")
	assert.False(t, tt.contiguous())
}

func TestViewQuadrants(t *testing.T) {
	v := iotaView(4, 4)
	v11, v12, v21, v22 := v.Quadrants()
	assert.Equal(t, []int64{0, 1, 10, 11}, v11.Dense())
	assert.Equal(t, []int64{2, 3, 12, 13}, v12.Dense())
	assert.Equal(t, []int64{20, 21, 30, 31}, v21.Dense())
	assert.Equal(t, []int64{22, 23, 32, 33}, v22.Dense())

	assert.PanicsWithValue(t, badOddN, func() { iotaView(3, 4).Quadrants() })
}

func TestViewOf(t *testing.T) {
	data := []int32{1, 2, 3, 0, 4, 5, 6, 0}
	v := ViewOf(data, 2, 3, 4)
	assert.Equal(t, []int32{1, 2, 3, 4, 5, 6}, v.Dense())
	assert.Equal(t, []int32{4, 5, 6}, v.row(1))

	assert.PanicsWithValue(t, badShape, func() { ViewOf(data, 2, 5, 4) })
	assert.PanicsWithValue(t, badShortData, func() { ViewOf(data[:6], 2, 3, 4) })
	assert.PanicsWithValue(t, badSlice, func() { v.Slice(1, 1, 2, 1) })
}

func TestNewViewAligned(t *testing.T) {
	v := NewView[float64](5, 7)
	require.Len(t, v.data, 35)
	for _, x := range v.data {
		require.Zero(t, x)
	}
	assert.Empty(t, NewView[int32](0, 3).Dense())
}
