//go:build !hwy128 && !hwy256 && !hwy512

package hwy

// pinnedWidth is zero when the lane width follows runtime detection.
const pinnedWidth = 0
