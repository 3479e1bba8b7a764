package inflate

import (
	"encoding/binary"
	"hash/adler32"
)

// bitWriter packs bits LSB-first the way DEFLATE streams are laid out.
type bitWriter struct {
	buf []byte
	acc uint64
	n   uint
}

func (w *bitWriter) writeBits(v uint64, n uint) {
	w.acc |= v << w.n
	w.n += n
	for w.n >= 8 {
		w.buf = append(w.buf, byte(w.acc))
		w.acc >>= 8
		w.n -= 8
	}
}

func (w *bitWriter) align() {
	if w.n%8 != 0 {
		w.writeBits(0, 8-w.n%8)
	}
}

func (w *bitWriter) bytes() []byte {
	w.align()
	return w.buf
}

type huffCode struct {
	codes   []uint16
	lengths []uint8
}

func newHuffCode(lengths []uint8) huffCode {
	c := huffCode{codes: make([]uint16, len(lengths)), lengths: lengths}
	computeCodes(lengths, c.codes)
	return c
}

func (w *bitWriter) writeSym(c huffCode, sym int) {
	w.writeBits(uint64(c.codes[sym]), uint(c.lengths[sym]))
}

func (w *bitWriter) writeLength(c huffCode, length int) {
	i := len(lenBase) - 1
	for int(lenBase[i]) > length {
		i--
	}
	w.writeSym(c, 257+i)
	w.writeBits(uint64(length-int(lenBase[i])), uint(lenExtra[i]))
}

func (w *bitWriter) writeDist(c huffCode, dist int) {
	i := len(distBase) - 1
	for int(distBase[i]) > dist {
		i--
	}
	w.writeSym(c, i)
	w.writeBits(uint64(dist-int(distBase[i])), uint(distExtra[i]))
}

func (w *bitWriter) writeBlockStart(final bool, btype uint64) {
	var f uint64
	if final {
		f = 1
	}
	w.writeBits(f, 1)
	w.writeBits(btype, 2)
}

func (w *bitWriter) writeStored(final bool, data []byte) {
	w.writeBlockStart(final, 0)
	w.align()
	w.writeBits(uint64(len(data)), 16)
	w.writeBits(uint64(^uint16(len(data))), 16)
	w.buf = append(w.buf, data...)
}

// clSym is one code length alphabet symbol with its extra bits.
type clSym struct {
	sym   int
	extra uint64
}

// writeDynamicHeaderRaw writes a dynamic block header with full control over
// the code length code and the emitted code length symbols.
func (w *bitWriter) writeDynamicHeaderRaw(final bool, hlit, hdist, hclen int, clLengths [numCLCodes]uint8, syms []clSym) {
	w.writeBlockStart(final, 2)
	w.writeBits(uint64(hlit-257), 5)
	w.writeBits(uint64(hdist-1), 5)
	w.writeBits(uint64(hclen-4), 4)
	for i := 0; i < hclen; i++ {
		w.writeBits(uint64(clLengths[clOrder[i]]), 3)
	}
	cl := newHuffCode(clLengths[:])
	extraBits := map[int]uint{16: 2, 17: 3, 18: 7}
	for _, s := range syms {
		w.writeSym(cl, s.sym)
		if n, ok := extraBits[s.sym]; ok {
			w.writeBits(s.extra, n)
		}
	}
}

// writeDynamicHeader writes a dynamic block header for lit and dist, coding
// every length with a plain 4-bit code length symbol.
func (w *bitWriter) writeDynamicHeader(final bool, lit, dist []uint8) {
	var clLengths [numCLCodes]uint8
	for i := 0; i < 16; i++ {
		clLengths[i] = 4
	}
	var syms []clSym
	for _, l := range lit {
		syms = append(syms, clSym{sym: int(l)})
	}
	for _, l := range dist {
		syms = append(syms, clSym{sym: int(l)})
	}
	w.writeDynamicHeaderRaw(final, len(lit), len(dist), numCLCodes, clLengths, syms)
}

// zlibStream wraps the DEFLATE body written by body in a zlib container whose
// trailer is the checksum of payload.
func zlibStream(payload []byte, body func(w *bitWriter)) []byte {
	w := &bitWriter{buf: []byte{0x78, 0x01}}
	body(w)
	return binary.BigEndian.AppendUint32(w.bytes(), adler32.Checksum(payload))
}

func fixedCodes() (lit, dist huffCode) {
	return newHuffCode(fixedLengths[:numLitlenSlots]), newHuffCode(fixedLengths[numLitlenSlots:])
}

// compressFast encodes data the way the companion fast encoder does: a single
// dynamic block with the fast literal/length code where repeats of the previous
// byte become distance 1 matches.
func compressFast(data []byte) []byte {
	lit := newHuffCode(fastLengths[:numLitlenSlots])
	return zlibStream(data, func(w *bitWriter) {
		w.writeDynamicHeader(true, fastLitlenLengths[:], []uint8{1})
		for i := 0; i < len(data); {
			if i > 0 {
				run := 0
				for i+run < len(data) && run < 258 && data[i+run] == data[i-1] {
					run++
				}
				if run >= 3 {
					w.writeLength(lit, run)
					w.writeBits(0, 1)
					i += run
					continue
				}
			}
			w.writeSym(lit, int(data[i]))
			i++
		}
		w.writeSym(lit, endOfBlock)
	})
}
