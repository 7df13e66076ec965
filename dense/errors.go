package dense

import "errors"

// ErrScratchAlloc is returned when a scratch buffer cannot be acquired.
// It is the only error Syrk returns; every other misuse panics.
var ErrScratchAlloc = errors.New("dense: scratch allocation failed")

// Panic messages for caller errors.
const (
	badShape     = "dense: bad shape"
	badShortData = "dense: backing slice too short"
	badSlice     = "dense: slice out of range"
	badOddN      = "dense: odd dimension in recursive step"
	badDims      = "dense: operand dimensions mismatch"
	badUplo      = "dense: illegal triangle selector"
	badTranspose = "dense: illegal transpose mode"
	badRNS       = "dense: residue number system fields are not supported"
	badThreshold = "dense: threshold must be at least 2"
)
