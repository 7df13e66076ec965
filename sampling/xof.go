// Package sampling draws reproducible field elements, dense matrices and
// sparse triplet streams from a SHAKE128 stream. Tests and benchmarks use it
// so every run sees the same inputs for the same seed.
package sampling

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/crypto/sha3"
)

// XOF is a buffered SHAKE128 stream over seed||nonce.
type XOF struct {
	h   sha3.ShakeHash
	buf [168]byte // SHAKE128 rate
	pos int
	end int
}

// NewXOF creates a stream for seed||nonce, with the nonce little endian.
func NewXOF(seed []byte, nonce uint16) *XOF {
	x := &XOF{h: sha3.NewShake128()}
	x.Reset(seed, nonce)
	return x
}

// Reset reinitializes the stream for a new seed||nonce.
func (x *XOF) Reset(seed []byte, nonce uint16) {
	x.h.Reset()
	x.h.Write(seed)
	x.h.Write([]byte{byte(nonce & 0xFF), byte(nonce >> 8)})
	x.pos = 0
	x.end = 0
}

// Uint64 returns the next 8 bytes of the stream, little endian.
func (x *XOF) Uint64() uint64 {
	if x.pos+8 > x.end {
		// Copy leftover bytes to beginning
		leftover := x.end - x.pos
		if leftover > 0 {
			copy(x.buf[:leftover], x.buf[x.pos:x.end])
		}
		n, _ := x.h.Read(x.buf[leftover:])
		x.pos = 0
		x.end = leftover + n
	}
	v := binary.LittleEndian.Uint64(x.buf[x.pos:])
	x.pos += 8
	return v
}

// IntN returns a uniform integer in [0, n) by rejection. n must be positive.
func (x *XOF) IntN(n int) int {
	return int(x.below(uint64(n)))
}

// below returns a uniform value in [0, n).
func (x *XOF) below(n uint64) uint64 {
	if n <= 1 {
		return 0
	}
	mask := ^uint64(0) >> bits.LeadingZeros64(n-1)
	for {
		if v := x.Uint64() & mask; v < n {
			return v
		}
	}
}
