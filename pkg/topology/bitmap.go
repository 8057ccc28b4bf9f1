package topology

import "math/bits"

const wordBits = 64

// Bitmap is a fixed-size set of processor ids.
type Bitmap struct {
	nr    uint32
	words []uint64
}

// NewBitmap makes a bitmap which can hold ids below nr.
func NewBitmap(nr uint32) Bitmap {
	return Bitmap{
		nr:    nr,
		words: make([]uint64, (nr+wordBits-1)/wordBits),
	}
}

// Len returns the capacity of the bitmap in bits.
func (b Bitmap) Len() uint32 {
	return b.nr
}

// Set marks the given id. Out-of-range ids are ignored.
func (b Bitmap) Set(id ID) {
	if uint32(id) >= b.nr {
		return
	}
	b.words[id/wordBits] |= 1 << (uint(id) % wordBits)
}

// Test reports whether the given id is marked.
func (b Bitmap) Test(id ID) bool {
	if uint32(id) >= b.nr {
		return false
	}
	return b.words[id/wordBits]&(1<<(uint(id)%wordBits)) != 0
}

// Count returns the number of marked ids.
func (b Bitmap) Count() uint32 {
	var n uint32
	for _, w := range b.words {
		n += uint32(bits.OnesCount64(w))
	}
	return n
}

func (b Bitmap) clone() Bitmap {
	c := NewBitmap(b.nr)
	copy(c.words, b.words)
	return c
}
