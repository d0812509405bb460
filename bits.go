package pinball

// Bits is a dense bit vector stored one bit per byte. Values are 0 or 1.
//
// Syndrome rounds, correction vectors, and error records are all Bits in
// row-major grid order. The decoders mutate rounds in place as defects are
// explained, so callers keep exclusive ownership of a buffer for the
// duration of one batch.
type Bits []uint8

// NewBits returns an all-zero bit vector of length n.
func NewBits(n int) Bits {
	return make(Bits, n)
}

// Any reports whether any bit is set.
func (b Bits) Any() bool {
	for _, v := range b {
		if v != 0 {
			return true
		}
	}
	return false
}

// Weight returns the number of set bits.
func (b Bits) Weight() int {
	n := 0
	for _, v := range b {
		if v != 0 {
			n++
		}
	}
	return n
}

// Xor XORs other into b element-wise. The two vectors must have equal length.
func (b Bits) Xor(other Bits) {
	for i, v := range other {
		b[i] ^= v
	}
}

// Clone returns a copy of b.
func (b Bits) Clone() Bits {
	c := make(Bits, len(b))
	copy(c, b)
	return c
}

// XorReduce XORs a sequence of equal-length vectors into a fresh vector of
// length n. Used to collapse per-round error records into the net physical
// error of a batch.
func XorReduce(n int, vs []Bits) Bits {
	out := NewBits(n)
	for _, v := range vs {
		out.Xor(v)
	}
	return out
}
