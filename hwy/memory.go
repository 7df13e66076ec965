package hwy

import "unsafe"

// AllocAligned returns a zeroed slice of n elements whose first element
// sits on a CacheLineSize boundary. Lane loads starting at multiples of
// MaxLanes[T]() are then aligned.
func AllocAligned[T Lanes](n int) []T {
	if n <= 0 {
		return nil
	}
	var dummy T
	size := int(unsafe.Sizeof(dummy))
	pad := CacheLineSize / size
	buf := make([]T, n+pad)
	off := 0
	if rem := int(uintptr(unsafe.Pointer(&buf[0])) % uintptr(CacheLineSize)); rem != 0 {
		off = (CacheLineSize - rem) / size
	}
	return buf[off : off+n : off+n]
}

// IsAlignedSlice reports whether s starts on a CacheLineSize boundary.
// Empty slices are considered aligned.
func IsAlignedSlice[T Lanes](s []T) bool {
	if len(s) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&s[0]))%uintptr(CacheLineSize) == 0
}
