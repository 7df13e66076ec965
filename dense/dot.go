package dense

import (
	"github.com/go-ffblas/ffblas/delayed"
	"github.com/go-ffblas/ffblas/field"
	"github.com/go-ffblas/ffblas/hwy"
)

// kernel carries the per-call arithmetic state of the base-case products.
// kmax is derived from the field on every construction.
type kernel[E field.Element] struct {
	f     field.Field[E]
	cat   field.Category
	lanes field.LaneField[E] // nil unless lane reduction is available
	kmax  int
	iota  hwy.Vec[int32] // lane offsets for strided loads
}

func newKernel[E field.Element](f field.Field[E]) *kernel[E] {
	k := &kernel[E]{f: f, cat: f.Category()}
	switch k.cat {
	case field.CategoryRNS:
		panic(badRNS)
	case field.CategoryUnparametric:
		k.kmax = delayed.Bound(f)
		if lf, ok := f.(field.LaneField[E]); ok && hwy.MaxLanes[E]() >= 2 {
			k.lanes = lf
			k.iota = hwy.IndicesIota[int32](hwy.MaxLanes[E]())
		}
	}
	return k
}

// dot returns the reduced dot product of row i of a and row j of b.
func (k *kernel[E]) dot(a View[E], i int, b View[E], j int) E {
	switch {
	case k.cat == field.CategoryGeneric:
		return k.dotGeneric(a, i, b, j)
	case k.lanes != nil && a.cols >= hwy.MaxLanes[E]():
		return k.dotLanes(a, i, b, j)
	default:
		return k.dotRaw(a, i, b, j)
	}
}

func (k *kernel[E]) dotGeneric(a View[E], i int, b View[E], j int) E {
	acc := k.f.Zero()
	for l := range a.cols {
		acc = k.f.Axpy(a.At(i, l), b.At(j, l), acc)
	}
	return acc
}

// dotRaw sums raw products, reducing after every kmax of them.
func (k *kernel[E]) dotRaw(a View[E], i int, b View[E], j int) E {
	pa, pb := a.off+i*a.rs, b.off+j*b.rs
	n := a.cols
	var acc E
	for s := 0; s < n; s += k.kmax {
		e := min(s+k.kmax, n)
		for l := s; l < e; l++ {
			acc += a.data[pa+l*a.cs] * b.data[pb+l*b.cs]
		}
		acc = k.f.Reduce(acc)
	}
	return acc
}

// dotLanes accumulates one product per lane per step and reduces the whole
// lane every kmax steps. The horizontal sum of reduced lanes stays far
// below the accumulator range, so one scalar reduce follows it.
func (k *kernel[E]) dotLanes(a View[E], i int, b View[E], j int) E {
	n := a.cols
	w := hwy.MaxLanes[E]()
	acc := hwy.Zero[E]()
	steps := 0
	l := 0
	for ; l+w <= n; l += w {
		acc = hwy.MulAdd(k.loadRow(a, i, l), k.loadRow(b, j, l), acc)
		if steps++; steps == k.kmax {
			acc = k.lanes.ReduceLanes(acc)
			steps = 0
		}
	}
	sum := k.f.Reduce(hwy.ReduceSum(k.lanes.ReduceLanes(acc)))

	pa, pb := a.off+i*a.rs, b.off+j*b.rs
	for s := l; s < n; s += k.kmax {
		e := min(s+k.kmax, n)
		for q := s; q < e; q++ {
			sum += a.data[pa+q*a.cs] * b.data[pb+q*b.cs]
		}
		sum = k.f.Reduce(sum)
	}
	return sum
}

// loadRow loads one lane group of row i of v starting at column l.
// Transposed views have a column stride above one and are gathered.
func (k *kernel[E]) loadRow(v View[E], i, l int) hwy.Vec[E] {
	base := v.off + i*v.rs + l*v.cs
	if v.contiguous() {
		return hwy.LoadU(v.data[base:])
	}
	return hwy.GatherIndexOffset(v.data, base, k.iota, v.cs)
}

// scale returns alpha*d + beta*old, skipping the terms that are trivially
// zero or one. old is only read when beta is non-zero.
func (k *kernel[E]) scale(alpha, d, beta E, old func() E) E {
	f := k.f
	r := d
	if alpha != f.One() {
		r = f.Mul(alpha, d)
	}
	if !f.IsZero(beta) {
		r = f.Axpy(beta, old(), r)
	}
	return r
}
