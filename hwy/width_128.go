//go:build hwy128

package hwy

// pinnedWidth fixes lanes at 128 bits regardless of the detected CPU.
const pinnedWidth = 16
