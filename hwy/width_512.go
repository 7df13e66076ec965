//go:build hwy512

package hwy

// pinnedWidth fixes lanes at 512 bits regardless of the detected CPU.
const pinnedWidth = 64
