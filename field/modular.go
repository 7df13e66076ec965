package field

import (
	"fmt"
	"math"

	"modernc.org/mathutil"
)

// Modular is the prime field Z/pZ with elements stored as E.
//
// Elements of a standard field live in [0, p-1]. Elements of a balanced
// field live in [-(p-1)/2, p-1-(p-1)/2], which halves the largest product
// magnitude and roughly quadruples the delayed-reduction bound.
type Modular[E Element] struct {
	p        E
	p64      int64
	min, max E
	balanced bool
	float    bool

	// Barrett constant floor((2^w - 1) / p) for w-bit integer lanes.
	mu   uint64
	invp float64
}

// NewModular returns the field Z/pZ with elements in [0, p-1].
func NewModular[E Element](p uint64) (*Modular[E], error) {
	return newModular[E](p, false)
}

// NewModularBalanced returns the field Z/pZ with elements centered on zero.
func NewModularBalanced[E Element](p uint64) (*Modular[E], error) {
	return newModular[E](p, true)
}

func newModular[E Element](p uint64, balanced bool) (*Modular[E], error) {
	if p < 2 {
		return nil, ErrModulus
	}
	if p > math.MaxInt64 || !mathutil.IsPrimeUint64(p) {
		return nil, fmt.Errorf("%w: %d", ErrNotPrime, p)
	}

	lo, hi := uint64(0), p-1
	if balanced {
		lo = (p - 1) / 2
		hi = p - 1 - lo
	}
	m := max(lo, hi)
	// kmax >= 1 needs m*m + m <= range; checked without overflowing.
	rng := AccumulatorRange[E]()
	if m > rng/m || m*m > rng-m {
		return nil, fmt.Errorf("%w: %d", ErrModulusTooLarge, p)
	}

	f := &Modular[E]{
		p:        E(p),
		p64:      int64(p),
		min:      -E(lo),
		max:      E(hi),
		balanced: balanced,
		invp:     1 / float64(p),
	}
	var zero E
	switch any(zero).(type) {
	case float64:
		f.float = true
	case int32:
		f.mu = uint64(math.MaxUint32) / p
	case int64:
		f.mu = math.MaxUint64 / p
	}
	return f, nil
}

// MustModular is like NewModular but panics on error. It is meant for
// tests and package-level variables.
func MustModular[E Element](p uint64) *Modular[E] {
	f, err := NewModular[E](p)
	if err != nil {
		panic(err)
	}
	return f
}

// Balanced reports whether elements are centered on zero.
func (f *Modular[E]) Balanced() bool { return f.balanced }

func (f *Modular[E]) Zero() E { return 0 }
func (f *Modular[E]) One() E  { return 1 }

func (f *Modular[E]) Init(x int64) E {
	return f.center(E(x % f.p64))
}

func (f *Modular[E]) Add(a, b E) E { return f.fold(a + b) }
func (f *Modular[E]) Sub(a, b E) E { return f.fold(a - b) }
func (f *Modular[E]) Neg(a E) E    { return f.fold(-a) }
func (f *Modular[E]) Mul(a, b E) E { return f.Reduce(a * b) }

func (f *Modular[E]) Axpy(a, x, y E) E { return f.Reduce(a*x + y) }

// Reduce maps any accumulator within AccumulatorRange to its canonical
// representative.
func (f *Modular[E]) Reduce(x E) E {
	if f.float {
		return f.center(E(math.Mod(float64(x), float64(f.p))))
	}
	return f.center(E(int64(x) % f.p64))
}

func (f *Modular[E]) IsZero(x E) bool { return x == 0 }

func (f *Modular[E]) Characteristic() uint64 { return uint64(f.p64) }
func (f *Modular[E]) MinElement() E          { return f.min }
func (f *Modular[E]) MaxElement() E          { return f.max }

// Category reports CategoryUnparametric: raw E arithmetic is exact within
// the delayed-reduction bound.
func (f *Modular[E]) Category() Category { return CategoryUnparametric }

func (f *Modular[E]) String() string {
	if f.balanced {
		return fmt.Sprintf("ModularBalanced<%T>(%d)", f.p, f.p64)
	}
	return fmt.Sprintf("Modular<%T>(%d)", f.p, f.p64)
}

// center maps r in (-p, p) into [min, max].
func (f *Modular[E]) center(r E) E {
	if r < f.min {
		r += f.p
	}
	if r > f.max {
		r -= f.p
	}
	return r
}

// fold maps the sum or difference of two elements back into [min, max].
func (f *Modular[E]) fold(r E) E {
	if r > f.max {
		return r - f.p
	}
	if r < f.min {
		return r + f.p
	}
	return r
}
