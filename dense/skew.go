package dense

import (
	"math/bits"

	"modernc.org/mathutil"

	"github.com/go-ffblas/ffblas/field"
)

// SkewPair returns x, y with x² + y² = -1 in f, preferring y = 0.
//
// The recursive Syrk step multiplies by the skew-orthogonal block matrix
// Y = [[x I, y I], [-y I, x I]], for which Y Yᵗ = -I. When -1 is a square
// (p = 2 or p ≡ 1 mod 4) y is zero and Y = x I. Otherwise every prime field
// still writes -1 as a sum of two squares, found by scanning x.
//
// ok is false only when the characteristic is not an odd prime or two.
func SkewPair[E field.Element](f field.Field[E]) (x, y E, ok bool) {
	p := f.Characteristic()
	switch {
	case p == 2:
		return f.One(), f.Zero(), true
	case p%4 == 1:
		// g^((p-1)/4) is a square root of -1 for any non-residue g.
		for g := uint64(2); g < p; g++ {
			if mathutil.ModPowUint64(g, (p-1)/2, p) == p-1 {
				return initUint(f, mathutil.ModPowUint64(g, (p-1)/4, p)), f.Zero(), true
			}
		}
	case p%4 == 3:
		for a := uint64(1); a < p; a++ {
			t := (p - 1 - mulMod(a, a, p)) % p
			if t != 0 && mathutil.ModPowUint64(t, (p-1)/2, p) == 1 {
				// p ≡ 3 mod 4, so t^((p+1)/4) is a square root of t.
				b := mathutil.ModPowUint64(t, (p+1)/4, p)
				return initUint(f, a), initUint(f, b), true
			}
		}
	}
	return f.Zero(), f.Zero(), false
}

func mulMod(a, b, p uint64) uint64 {
	hi, lo := mathutil.MulUint128_64(a, b)
	return bits.Rem64(hi, lo, p)
}

func initUint[E field.Element](f field.Field[E], v uint64) E {
	return f.Init(int64(v))
}
