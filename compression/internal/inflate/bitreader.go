package inflate

import "encoding/binary"

// The bit reader is a 64-bit LSB-first accumulator embedded in Decompressor.
// Bits above nbits are either zero or a copy of the next unconsumed input
// bytes, so refilling can OR new bytes in without clearing first.

// fillBuffer loads as many whole bytes from input as fit above the active
// bits and advances input past them.
func (d *Decompressor) fillBuffer(input *[]byte) {
	in := *input
	if len(in) >= 8 {
		d.buffer |= binary.LittleEndian.Uint64(in) << d.nbits
		n := (63 - d.nbits) / 8
		*input = in[n:]
		d.nbits |= 56
		return
	}

	n := min(len(in), int(63-d.nbits)/8)
	for i := 0; i < n; i++ {
		d.buffer |= uint64(in[i]) << d.nbits
		d.nbits += 8
	}
	*input = in[n:]
}

// peekBits returns the low n bits of the buffer without consuming them.
func (d *Decompressor) peekBits(n uint8) uint64 {
	return d.buffer & (1<<n - 1)
}

func (d *Decompressor) consumeBits(n uint8) {
	d.buffer >>= n
	d.nbits -= n
}
