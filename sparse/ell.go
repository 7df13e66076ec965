// Package sparse implements sparse matrix-vector products over finite fields
// for the fixed-row-length (ELL) layout.
//
// Every row of an ELL matrix holds exactly Ld slots. Rows with fewer
// non-zeros are left-packed and padded with column 0 and value 0, so a
// padding slot contributes nothing to a product. Zero-one matrices (ELLZO)
// carry no values; their padding is skipped using the per-row lengths.
//
// The products follow the delayed-reduction discipline: raw products are
// accumulated in the element type and reduced at least every
// delayed.Bound(f) of them. Matrices whose Ld fits in one block are flagged
// Delayed at construction and reduce once per row.
package sparse

import (
	"errors"

	"github.com/go-ffblas/ffblas/field"
)

var (
	// ErrDimension is returned when triplet slices disagree in length or the
	// matrix dimensions are negative.
	ErrDimension = errors.New("sparse: inconsistent dimensions")

	// ErrTripletOutOfRange is returned when a triplet's row or column lies
	// outside the matrix.
	ErrTripletOutOfRange = errors.New("sparse: triplet out of range")
)

// Panic messages for caller errors in the hot path.
const (
	badVector   = "sparse: vector shorter than matrix dimension"
	badStrategy = "sparse: strategy not supported by field"
	badRNS      = "sparse: residue number system fields are not supported"
	badReleased = "sparse: matrix used after Release"
)

// ELL is an m x n matrix stored row-major with Ld slots per row. Slot j of
// row i is at index i*Ld + j of Col and Dat.
type ELL[E field.Element] struct {
	M, N int
	// NNZ counts the stored non-zeros, padding excluded.
	NNZ int
	Ld  int
	Col []int32
	Dat []E
	// Delayed is set when one reduction per row suffices for the field the
	// matrix was built with.
	Delayed bool
}

// Release drops the storage. The matrix must not be used afterwards.
func (a *ELL[E]) Release() {
	a.Col, a.Dat = nil, nil
}

func (a *ELL[E]) released() bool {
	return a.M > 0 && a.Ld > 0 && a.Col == nil
}

// ELLZO is the structure of a zero-one matrix. Len[i] is the number of
// stored columns of row i; slots past it are padding.
type ELLZO struct {
	M, N    int
	NNZ     int
	Ld      int
	Col     []int32
	Len     []int32
	Delayed bool
}

// Release drops the storage. The matrix must not be used afterwards.
func (a *ELLZO) Release() {
	a.Col, a.Len = nil, nil
}

func (a *ELLZO) released() bool {
	return a.M > 0 && a.Ld > 0 && a.Col == nil
}
