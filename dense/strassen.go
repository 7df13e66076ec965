package dense

import "github.com/go-ffblas/ffblas/field"

// scheduler holds the state shared by every level of one Syrk call.
type scheduler[E field.Element] struct {
	f    field.Field[E]
	k    *kernel[E]
	opts options

	// Skew pair x² + y² = -1. skewOK is false when no pair exists, which
	// keeps every call on the base case.
	x, y   E
	skewOK bool
}

func newScheduler[E field.Element](f field.Field[E], o options) *scheduler[E] {
	s := &scheduler[E]{f: f, k: newKernel(f), opts: o}
	s.x, s.y, s.skewOK = SkewPair(f)
	return s
}

// recursive reports whether an n x k product is split further.
func (s *scheduler[E]) recursive(n, k int) bool {
	switch {
	case n < s.opts.threshold || k < s.opts.threshold:
		return false
	case n%2 != 0 || k%2 != 0 || k > n || !s.skewOK:
		return false
	case !s.f.IsZero(s.y) && (k/2)%2 != 0:
		// Y acts on two halves of the k/2 columns.
		return false
	}
	return true
}

// syrk writes the lower triangle of alpha*A*Aᵗ + beta*C into c. Shapes that
// do not recurse go to the base case without touching the Allocator.
func (s *scheduler[E]) syrk(alpha E, a View[E], beta E, c View[E]) error {
	switch {
	case !s.recursive(a.rows, a.cols):
		s.k.syrkLower(alpha, a, beta, c, s.opts.pool)
		return nil
	case s.f.IsZero(beta):
		s.strassen(alpha, a, c)
		return nil
	}
	return s.strassenAcc(alpha, a, beta, c)
}

// syrkZero writes the lower triangle of alpha*A*Aᵗ into c. The upper
// triangle of c is used as scratch.
func (s *scheduler[E]) syrkZero(alpha E, a, c View[E]) {
	if !s.recursive(a.rows, a.cols) {
		s.k.syrkLower(alpha, a, s.f.Zero(), c, s.opts.pool)
		return
	}
	s.strassen(alpha, a, c)
}

// strassen is one recursive step. With A split into halves A11 A12 / A21 A22
// and Y skew-orthogonal:
//
//	S1 = (A11 - A21) Yᵗ    S2 = A22 - A21 Yᵗ    S3 = S1 + A22    S4 = S3 - A12
//	P1 = A11 A11ᵗ   P2 = A12 A12ᵗ   P3 = A22 S4ᵗ   P4 = S1 S2ᵗ   P5 = S3 S3ᵗ
//	U1 = P1 + P5    U2 = U1 - P4
//	C11 = P1 + P2   C21 = U2 - P3   C22 = U2 - P4ᵗ
//
// The S blocks live in the left k/2 columns of the C quadrants, so k <= n is
// required. Each quadrant is fully consumed before it is overwritten.
func (s *scheduler[E]) strassen(alpha E, a, c View[E]) {
	if a.rows%2 != 0 || a.cols%2 != 0 {
		panic(badOddN)
	}
	f := s.f
	n2, k2 := a.rows/2, a.cols/2
	a11, a12, a21, a22 := a.Quadrants()
	c11, c12, c21, c22 := c.Quadrants()
	negAlpha := f.Neg(alpha)
	pool := s.opts.pool

	s1 := c21.Slice(0, 0, n2, k2)
	s2 := c12.Slice(0, 0, n2, k2)
	s4 := c11.Slice(0, 0, n2, k2)

	Sub(f, s1, a11, a21)
	s.applySkew(s1)
	Copy(s2, a21)
	s.applySkew(s2)
	Sub(f, s2, a22, s2)

	// C22 = -alpha P4ᵗ
	s.k.gemmNT(negAlpha, s2, s1, f.Zero(), c22, pool)

	// S3 overwrites S1. C12 = alpha P5, lower triangle.
	Add(f, s1, s1, a22)
	s.syrkZero(alpha, s1, c12)

	// C21 = -alpha P3
	Sub(f, s4, s1, a12)
	s.k.gemmNT(negAlpha, a22, s4, f.Zero(), c21, pool)

	// C11 = alpha P1
	s.syrkZero(alpha, a11, c11)

	// C12 = alpha U1, made explicit before the full-block additions.
	AddLower(f, c12, c11)
	MirrorLower(c12)
	// C12 = alpha U2
	Add(f, c12, c12, c22.T())

	Add(f, c21, c21, c12)
	AddLower(f, c22, c12)

	// C11 = alpha (P1 + P2)
	s.syrkZero(alpha, a12, c12)
	AddLower(f, c11, c12)
}

// applySkew replaces every row r = [r1 | r2] of v by r Yᵗ.
func (s *scheduler[E]) applySkew(v View[E]) {
	f, x, y := s.f, s.x, s.y
	if f.IsZero(y) {
		for i := range v.rows {
			for j := range v.cols {
				v.Set(i, j, f.Mul(x, v.At(i, j)))
			}
		}
		return
	}
	h := v.cols / 2
	for i := range v.rows {
		for j := range h {
			r1, r2 := v.At(i, j), v.At(i, j+h)
			v.Set(i, j, f.Add(f.Mul(x, r1), f.Mul(y, r2)))
			v.Set(i, j+h, f.Sub(f.Mul(x, r2), f.Mul(y, r1)))
		}
	}
}

// strassenAcc is the accumulating form of strassen. beta*C survives the step
// with one n/2 x max(n/2, k/2) scratch block T:
//
//	T = S1    C12 = S2    strict Low(C22) saved in strict Up(C11)
//	C22 = -alpha P4ᵗ + beta diag(C22)
//	T = S3    C12 = alpha P5
//	T = S4    C21 = -alpha P3 + beta C21
//	T = alpha P1    C12 = alpha U2    C21 += C12    C22 += C12 + beta saved
//	C11 = T + beta C11
//
// T is released before the last product, C11 += alpha P2, recurses.
func (s *scheduler[E]) strassenAcc(alpha E, a View[E], beta E, c View[E]) error {
	if a.rows%2 != 0 || a.cols%2 != 0 {
		panic(badOddN)
	}
	if err := s.combineAcc(alpha, a, beta, c); err != nil {
		return err
	}
	_, a12, _, _ := a.Quadrants()
	c11, _, _, _ := c.Quadrants()
	return s.syrk(alpha, a12, s.f.One(), c11)
}

func (s *scheduler[E]) combineAcc(alpha E, a View[E], beta E, c View[E]) error {
	f := s.f
	n2, k2 := a.rows/2, a.cols/2
	t, release, err := acquireScratch[E](s.opts.alloc, n2, max(n2, k2))
	if err != nil {
		return err
	}
	defer release()

	a11, a12, a21, a22 := a.Quadrants()
	c11, c12, c21, c22 := c.Quadrants()
	negAlpha := f.Neg(alpha)
	pool := s.opts.pool
	ts := t.Slice(0, 0, n2, k2)
	tp := t.Slice(0, 0, n2, n2)
	s2 := c12.Slice(0, 0, n2, k2)

	Sub(f, ts, a11, a21)
	s.applySkew(ts)
	Copy(s2, a21)
	s.applySkew(s2)
	Sub(f, s2, a22, s2)

	for i := range n2 {
		for j := range n2 {
			if i > j {
				c11.Set(j, i, c22.At(i, j))
			}
			if i != j {
				c22.Set(i, j, f.Zero())
			}
		}
	}
	s.k.gemmNT(negAlpha, s2, ts, beta, c22, pool)

	Add(f, ts, ts, a22)
	s.syrkZero(alpha, ts, c12)

	Sub(f, ts, ts, a12)
	s.k.gemmNT(negAlpha, a22, ts, beta, c21, pool)

	s.syrkZero(alpha, a11, tp)

	AddLower(f, c12, tp)
	MirrorLower(c12)
	Add(f, c12, c12, c22.T())
	for i := range n2 {
		// The diagonal of C22 also carries beta C22(i,i).
		bc := f.Add(c22.At(i, i), f.Mul(alpha, s.p4Diag(a11, a21, a22, i)))
		c12.Set(i, i, f.Sub(c12.At(i, i), bc))
	}

	Add(f, c21, c21, c12)
	AddLower(f, c22, c12)
	for i := range n2 {
		for j := range i {
			c22.Set(i, j, f.Axpy(beta, c11.At(j, i), c22.At(i, j)))
		}
	}
	AxpyLower(f, beta, c11, tp)
	return nil
}

// p4Diag returns row i of S1 dotted with row i of S2, computed from A.
func (s *scheduler[E]) p4Diag(a11, a21, a22 View[E], i int) E {
	f := s.f
	diff := func(j int) E { return f.Sub(a11.At(i, j), a21.At(i, j)) }
	low := func(j int) E { return a21.At(i, j) }
	acc := f.Zero()
	for j := range a11.cols {
		s2 := f.Sub(a22.At(i, j), s.skewAt(low, j, a11.cols))
		acc = f.Axpy(s.skewAt(diff, j, a11.cols), s2, acc)
	}
	return acc
}

// skewAt returns entry j of the row v Yᵗ, where v has k entries.
func (s *scheduler[E]) skewAt(v func(j int) E, j, k int) E {
	f, x, y := s.f, s.x, s.y
	if f.IsZero(y) {
		return f.Mul(x, v(j))
	}
	h := k / 2
	if j < h {
		return f.Add(f.Mul(x, v(j)), f.Mul(y, v(j+h)))
	}
	return f.Sub(f.Mul(x, v(j)), f.Mul(y, v(j-h)))
}
