package field

import "github.com/go-ffblas/ffblas/hwy"

// ReduceLanes reduces every lane of an accumulator to its canonical
// representative. Lanes may hold any value within AccumulatorRange.
//
// Integer lanes use Barrett reduction on |v| with mu = floor((2^w-1)/p):
// the quotient estimate from MulHi is short by at most one, leaving a
// remainder in [0, 2p) that a single conditional subtract fixes. Float lanes
// use floor(v / p) with the precomputed inverse.
func (f *Modular[E]) ReduceLanes(v hwy.Vec[E]) hwy.Vec[E] {
	var r hwy.Vec[E]
	switch x := any(v).(type) {
	case hwy.Vec[int32]:
		r = any(barrettLanes(x, int32(f.p64), uint32(f.mu))).(hwy.Vec[E])
	case hwy.Vec[int64]:
		r = any(barrettLanes(x, f.p64, f.mu)).(hwy.Vec[E])
	case hwy.Vec[float64]:
		r = any(floorLanes(x, float64(f.p64), f.invp)).(hwy.Vec[E])
	}
	return f.centerLanes(r)
}

// AddLanes adds two lanes of reduced elements.
func (f *Modular[E]) AddLanes(a, b hwy.Vec[E]) hwy.Vec[E] {
	return f.foldLanes(hwy.Add(a, b))
}

// SubLanes subtracts two lanes of reduced elements.
func (f *Modular[E]) SubLanes(a, b hwy.Vec[E]) hwy.Vec[E] {
	return f.foldLanes(hwy.Sub(a, b))
}

func (f *Modular[E]) foldLanes(r hwy.Vec[E]) hwy.Vec[E] {
	p := hwy.Set(f.p)
	r = hwy.IfThenElse(hwy.Greater(r, hwy.Set(f.max)), hwy.Sub(r, p), r)
	return hwy.IfThenElse(hwy.Less(r, hwy.Set(f.min)), hwy.Add(r, p), r)
}

// centerLanes maps [0, p) into [min, max].
func (f *Modular[E]) centerLanes(r hwy.Vec[E]) hwy.Vec[E] {
	if !f.balanced {
		return r
	}
	return hwy.IfThenElse(hwy.Greater(r, hwy.Set(f.max)), hwy.Sub(r, hwy.Set(f.p)), r)
}

// barrettLanes returns v mod p in [0, p).
func barrettLanes[S int32 | int64, U uint32 | uint64](v hwy.Vec[S], p S, mu U) hwy.Vec[S] {
	zero := hwy.Zero[S]()
	neg := hwy.Less(v, zero)
	abs := hwy.BitCast[U](hwy.IfThenElse(neg, hwy.Neg(v), v))

	pu := hwy.Set(U(p))
	q := hwy.MulHi(abs, hwy.Set(mu))
	r := hwy.Sub(abs, hwy.Mul(q, pu))
	r = hwy.IfThenElse(hwy.GreaterEqual(r, pu), hwy.Sub(r, pu), r)

	// -|v| mod p is p - r, except when r is zero.
	rs := hwy.BitCast[S](r)
	flip := hwy.MaskAnd(neg, hwy.Greater(rs, zero))
	return hwy.IfThenElse(flip, hwy.Sub(hwy.Set(p), rs), rs)
}

// floorLanes returns v mod p in [0, p) for integral float lanes.
func floorLanes(v hwy.Vec[float64], p, invp float64) hwy.Vec[float64] {
	pv := hwy.Set(p)
	q := hwy.Floor(hwy.Mul(v, hwy.Set(invp)))
	// v - q*p is exact when fused, even where q*p itself is not
	// representable. invp is rounded, so q can be off by one either way.
	r := hwy.FMA(hwy.Neg(q), pv, v)
	r = hwy.IfThenElse(hwy.Less(r, hwy.Zero[float64]()), hwy.Add(r, pv), r)
	return hwy.IfThenElse(hwy.GreaterEqual(r, pv), hwy.Sub(r, pv), r)
}
