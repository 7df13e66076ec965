//go:build hwy256

package hwy

// pinnedWidth fixes lanes at 256 bits regardless of the detected CPU.
const pinnedWidth = 32
