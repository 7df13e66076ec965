//go:build arm64

package hwy

import "golang.org/x/sys/cpu"

func init() {
	// Check for FFBLAS_NO_SIMD environment variable first
	if NoSimdEnv() {
		setScalarMode()
		applyPinnedWidth()
		return
	}

	// ARM64 (AArch64) always has NEON (ASIMD) available.
	// It's part of the ARMv8-A base architecture.
	switch {
	case cpu.ARM64.HasSVE:
		// SVE vector length is implementation defined; lanes stay at the
		// 128-bit minimum every SVE part guarantees.
		setLevel(DispatchSVE, 16)
	case cpu.ARM64.HasASIMD:
		setLevel(DispatchNEON, 16)
	default:
		setScalarMode()
	}
	applyPinnedWidth()
}

// HasAVX512 returns false on ARM.
func HasAVX512() bool {
	return false
}
