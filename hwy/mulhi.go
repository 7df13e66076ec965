// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package hwy

import (
	"math/bits"
	"unsafe"
)

// MulHi returns the high half of the double-width product of each lane pair.
//
// For 8/16/32-bit lanes the product is formed in a 64-bit register and
// shifted, which is what the native instructions do. 64-bit lanes have no
// native high multiply below AVX-512 IFMA, so they fall back to the
// emulated path: the four 32x32 partial products are formed one lane at a
// time (bits.Mul64) and recombined. Expect roughly 4x the cost of a low
// multiply there.
func MulHi[T Integers](a, b Vec[T]) Vec[T] {
	n := min(len(b.data), len(a.data))
	result := make([]T, n)
	var zero T
	switch any(zero).(type) {
	case int64:
		for i := range n {
			result[i] = T(mulHiInt64(int64(a.data[i]), int64(b.data[i])))
		}
	case uint64:
		for i := range n {
			hi, _ := bits.Mul64(uint64(a.data[i]), uint64(b.data[i]))
			result[i] = T(hi)
		}
	default:
		shift := 8 * unsafe.Sizeof(zero)
		signed := T(0)-1 < 0
		for i := range n {
			if signed {
				result[i] = T((int64(a.data[i]) * int64(b.data[i])) >> shift)
			} else {
				result[i] = T((uint64(a.data[i]) * uint64(b.data[i])) >> shift)
			}
		}
	}
	return Vec[T]{data: result}
}

// mulHiInt64 is the signed high half, derived from the unsigned one by the
// usual two's complement correction.
func mulHiInt64(a, b int64) int64 {
	hi, _ := bits.Mul64(uint64(a), uint64(b))
	h := int64(hi)
	if a < 0 {
		h -= b
	}
	if b < 0 {
		h -= a
	}
	return h
}

// BitCast reinterprets the lanes of v as type U without changing any bits.
// T and U must have the same size.
func BitCast[U, T Lanes](v Vec[T]) Vec[U] {
	var t T
	var u U
	if unsafe.Sizeof(t) != unsafe.Sizeof(u) {
		panic("hwy: BitCast between lane types of different size")
	}
	result := make([]U, len(v.data))
	for i := range v.data {
		result[i] = *(*U)(unsafe.Pointer(&v.data[i]))
	}
	return Vec[U]{data: result}
}
