package sparse

import (
	"github.com/go-ffblas/ffblas/delayed"
	"github.com/go-ffblas/ffblas/field"
	"github.com/go-ffblas/ffblas/hwy"
)

// chunkBatch is the number of chunks a worker claims at a time.
const chunkBatch = 4

// ELLSimd is an ELL matrix regrouped for lane-per-row products. Rows are
// taken Chunk at a time, Chunk being the lane count of E, and each chunk is
// stored slot-major: slot j of row c*Chunk+r is at
// c*Ld*Chunk + j*Chunk + r. Rows past M pad the last chunk with zeros.
type ELLSimd[E field.Element] struct {
	M, N    int
	NNZ     int
	Ld      int
	Chunk   int
	NChunks int
	Col     []int32
	Dat     []E
	Delayed bool
}

// ToSimd regroups a into the chunked layout. a is left unchanged.
func ToSimd[E field.Element](a *ELL[E]) *ELLSimd[E] {
	if a.released() {
		panic(badReleased)
	}
	chunk := hwy.MaxLanes[E]()
	rows := hwy.AlignedSize[E](a.M)
	s := &ELLSimd[E]{
		M:       a.M,
		N:       a.N,
		NNZ:     a.NNZ,
		Ld:      a.Ld,
		Chunk:   chunk,
		NChunks: rows / chunk,
		Col:     hwy.AllocAligned[int32](rows * a.Ld),
		Dat:     hwy.AllocAligned[E](rows * a.Ld),
		Delayed: a.Delayed,
	}
	for i := range a.M {
		c, r := i/chunk, i%chunk
		base := c * a.Ld * chunk
		for j := range a.Ld {
			s.Col[base+j*chunk+r] = a.Col[i*a.Ld+j]
			s.Dat[base+j*chunk+r] = a.Dat[i*a.Ld+j]
		}
	}
	return s
}

// Release drops the storage. The matrix must not be used afterwards.
func (a *ELLSimd[E]) Release() {
	a.Col, a.Dat = nil, nil
}

func (a *ELLSimd[E]) released() bool {
	return a.M > 0 && a.Ld > 0 && a.Col == nil
}

// SpMVSimd computes y += A·x like SpMV. The vectorized kernel keeps one
// lane per row, so no horizontal sums are needed. With a pool, chunks are
// handed out dynamically.
func SpMVSimd[E field.Element](f field.Field[E], a *ELLSimd[E], x, y []E, opts ...Option) {
	if a.released() {
		panic(badReleased)
	}
	if len(x) < a.N || len(y) < a.M {
		panic(badVector)
	}
	o := gatherOptions(opts)
	s, lf := resolve(f, o.strategy)
	if a.Ld == 0 {
		return
	}

	var chunk func(c int)
	switch s {
	case StrategyGeneric:
		chunk = func(c int) {
			a.forChunkRows(c, func(i, base, r int) {
				acc := y[i]
				for j := range a.Ld {
					slot := base + j*a.Chunk + r
					acc = f.Axpy(a.Dat[slot], x[a.Col[slot]], acc)
				}
				y[i] = acc
			})
		}
	case StrategyUnparametric:
		kmax := rowBlock(f, a.Ld, a.Delayed)
		chunk = func(c int) {
			a.forChunkRows(c, func(i, base, r int) {
				acc := y[i]
				delayed.ForEachBlock(a.Ld, kmax, func(start, end int) {
					for j := start; j < end; j++ {
						slot := base + j*a.Chunk + r
						acc += a.Dat[slot] * x[a.Col[slot]]
					}
					acc = f.Reduce(acc)
				})
				y[i] = acc
			})
		}
	case StrategyVectorized:
		kmax := delayed.Bound(f)
		chunk = func(c int) { a.laneChunk(lf, c, x, y, kmax) }
	}

	if o.pool == nil {
		for c := range a.NChunks {
			chunk(c)
		}
		return
	}
	o.pool.ParallelForAtomicBatched(a.NChunks, chunkBatch, func(start, end int) {
		for c := start; c < end; c++ {
			chunk(c)
		}
	})
}

// forChunkRows calls fn for each real row of chunk c with the chunk's base
// offset and the row's lane.
func (a *ELLSimd[E]) forChunkRows(c int, fn func(i, base, r int)) {
	base := c * a.Ld * a.Chunk
	for r := range a.Chunk {
		i := c*a.Chunk + r
		if i >= a.M {
			return
		}
		fn(i, base, r)
	}
}

func (a *ELLSimd[E]) laneChunk(f field.LaneField[E], c int, x, y []E, kmax int) {
	base := c * a.Ld * a.Chunk
	acc := hwy.Zero[E]()
	delayed.ForEachBlock(a.Ld, kmax, func(start, end int) {
		for j := start; j < end; j++ {
			off := base + j*a.Chunk
			xs := hwy.GatherIndex(x, hwy.Load(a.Col[off:off+a.Chunk]))
			acc = hwy.MulAdd(hwy.Load(a.Dat[off:]), xs, acc)
		}
		acc = f.ReduceLanes(acc)
	})

	r0 := c * a.Chunk
	valid := min(a.Chunk, a.M-r0)
	acc = hwy.IfThenElseZero(hwy.TailMask[E](valid), acc)
	hwy.StoreU(f.AddLanes(hwy.LoadU(y[r0:r0+valid]), acc), y[r0:r0+valid])
}
