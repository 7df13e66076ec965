//go:build !amd64 && !arm64

package hwy

func init() {
	// Other architectures fall back to scalar mode.
	setScalarMode()
	applyPinnedWidth()
}

// HasAVX512 returns false on non-x86 architectures.
func HasAVX512() bool {
	return false
}
