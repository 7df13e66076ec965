package hwy

// This file provides pure Go implementations of indexed loads.
// Sparse column indices are unordered, so nothing here assumes a stride.

// GatherIndex loads elements from non-contiguous memory locations specified by indices.
// For each lane i in the index vector, it loads src[indices[i]].
// If an index is out of bounds (negative or >= len(src)), the result for that lane is zero.
func GatherIndex[T Lanes, I ~int32 | ~int64](src []T, indices Vec[I]) Vec[T] {
	n := len(indices.data)
	result := make([]T, n)
	for i := range n {
		idx := int(indices.data[i])
		if idx >= 0 && idx < len(src) {
			result[i] = src[idx]
		}
	}
	return Vec[T]{data: result}
}

// GatherIndexOffset loads elements using base + index*scale addressing.
// This is the strided load used for matrix views whose column stride is not one.
// For each lane i, it loads src[base + indices[i]*scale].
func GatherIndexOffset[T Lanes, I ~int32 | ~int64](src []T, base int, indices Vec[I], scale int) Vec[T] {
	n := len(indices.data)
	result := make([]T, n)
	for i := range n {
		idx := base + int(indices.data[i])*scale
		if idx >= 0 && idx < len(src) {
			result[i] = src[idx]
		}
	}
	return Vec[T]{data: result}
}

// IndicesIota creates an index vector with values [0, 1, 2, 3, ...].
func IndicesIota[I ~int32 | ~int64](numLanes int) Vec[I] {
	result := make([]I, numLanes)
	for i := range numLanes {
		result[i] = I(i)
	}
	return Vec[I]{data: result}
}
