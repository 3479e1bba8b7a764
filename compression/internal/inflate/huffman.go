package inflate

import "math/bits"

// compressedBlock holds the decode tables of one compressed block. Tables for
// fixed blocks and for fast encoder blocks are shared, read-only values.
type compressedBlock struct {
	litlen     [litlenTableSize]uint32
	litlenMask uint64
	// litlenBits is the longest code the primary table resolves on its own.
	// An empty slot is a bad code once this many bits are buffered.
	litlenBits uint8
	secondary  []uint16
	dist       [distTableSize]uint32

	distLengths [maxDistCodes]uint8
	distMasks   [maxDistCodes]uint16
	distCodes   [maxDistCodes]uint16

	eofCode uint16
	eofMask uint16
	eofBits uint8
}

var (
	fixedBlock = mustBuild(fixedLengths[:], numLitlenSlots)
	fastBlock  = mustBuild(fastLengths[:], maxLitlenCodes)
)

func mustBuild(lengths []uint8, hlit int) *compressedBlock {
	b := new(compressedBlock)
	if err := b.build(lengths, hlit); err != nil {
		panic("inflate: invalid static code lengths: " + err.Error())
	}
	return b
}

// computeCodes assigns canonical huffman codes to lengths, bit-reversed so they
// can be matched against the LSB-first bit buffer. It reports false unless the
// lengths describe a complete prefix code.
func computeCodes(lengths []uint8, codes []uint16) bool {
	var code uint32
	for l := uint8(1); l <= 16; l++ {
		for i, n := range lengths {
			if n == l {
				codes[i] = bits.Reverse16(uint16(code)) >> (16 - l)
				code++
			}
		}
		code <<= 1
	}
	return code == 2<<16
}

// literalBytes returns the number of output bytes and the bytes encoded by a
// literal entry.
func literalBytes(entry uint32) (n int, b0, b1 byte) {
	return int(entry>>8) & 0xf, byte(entry >> 16), byte(entry >> 24)
}

func literalPair(b0, b1 byte, length uint8) uint32 {
	return uint32(b0)<<16 | uint32(b1)<<24 | literalEntry | 2<<8 | uint32(length)
}

// build fills b from code lengths laid out as 288 literal/length slots
// followed by 32 distance slots. Symbols at or beyond hlit must have length 0.
func (b *compressedBlock) build(lengths []uint8, hlit int) error {
	litLengths := lengths[:numLitlenSlots]
	distLengths := lengths[numLitlenSlots:numCodeLengths]

	var litCodes [numLitlenSlots]uint16
	if !computeCodes(litLengths, litCodes[:]) {
		return ErrBadLiteralLengthHuffmanTree
	}

	var maxLen uint8
	for _, l := range litLengths {
		maxLen = max(maxLen, l)
	}
	tableBits := min(max(maxLen, minPairTableBits), litlenTableBits)
	tableSize := 1 << tableBits
	b.litlenMask = uint64(tableSize - 1)
	b.litlenBits = min(maxLen, litlenTableBits)
	clear(b.litlen[:])
	b.secondary = b.secondary[:0]

	// Literals, with every pair of short literals merged into one entry.
	for i := 0; i < 256; i++ {
		l := litLengths[i]
		if l == 0 || l > tableBits {
			continue
		}
		entry := uint32(i)<<16 | literalEntry | 1<<8 | uint32(l)
		for j := int(litCodes[i]); j < tableSize; j += 1 << l {
			b.litlen[j] = entry
		}
		if l > minPairTableBits {
			continue
		}
		for k := 0; k < 256; k++ {
			l2 := litLengths[k]
			if l2 == 0 || l2 > minPairTableBits || l+l2 > tableBits {
				continue
			}
			pair := literalPair(byte(i), byte(k), l+l2)
			step := 1 << (l + l2)
			for j := int(litCodes[i]) | int(litCodes[k])<<l; j < tableSize; j += step {
				b.litlen[j] = pair
			}
		}
	}

	eofLen := litLengths[endOfBlock]
	if eofLen == 0 {
		return ErrBadLiteralLengthHuffmanTree
	}
	b.eofCode = litCodes[endOfBlock]
	b.eofMask = uint16(1)<<eofLen - 1
	b.eofBits = eofLen
	if eofLen <= tableBits {
		for j := int(b.eofCode); j < tableSize; j += 1 << eofLen {
			b.litlen[j] = exceptionalEntry | uint32(eofLen)
		}
	}

	for i := endOfBlock + 1; i < min(hlit, maxLitlenCodes); i++ {
		l := litLengths[i]
		if l == 0 || l > tableBits {
			continue
		}
		entry := uint32(lenBase[i-257])<<16 | uint32(lenExtra[i-257])<<8 | uint32(l)
		for j := int(litCodes[i]); j < tableSize; j += 1 << l {
			b.litlen[j] = entry
		}
	}

	if maxLen > litlenTableBits {
		b.buildSecondary(litLengths, litCodes[:], hlit)
	}

	return b.buildDist(distLengths)
}

// buildSecondary resolves codes longer than the primary table. The primary
// slot selected by the low bits of such a code points at a group of
// secondaryGroup entries indexed by the following bits.
func (b *compressedBlock) buildSecondary(litLengths []uint8, litCodes []uint16, hlit int) {
	const candidate = exceptionalEntry | secondaryEntry

	// Mark the primary slots referenced by long codes, then number the groups.
	for i, l := range litLengths {
		if l > litlenTableBits {
			b.litlen[litCodes[i]&(litlenTableSize-1)] = candidate
		}
	}
	groups := 0
	for j := range b.litlen {
		if b.litlen[j] == candidate {
			b.litlen[j] = uint32(groups)<<16 | candidate
			groups++
		}
	}
	b.secondary = append(b.secondary, make([]uint16, groups*secondaryGroup)...)

	for i, l := range litLengths {
		if l <= litlenTableBits || (i > endOfBlock && i >= hlit) {
			continue
		}
		code := litCodes[i]
		group := int(b.litlen[code&(litlenTableSize-1)]>>16) * secondaryGroup
		entry := uint16(i)<<4 | uint16(l)
		for j := int(code >> litlenTableBits); j < secondaryGroup; j += 1 << (l - litlenTableBits) {
			b.secondary[group+j] = entry
		}
	}
}

func (b *compressedBlock) buildDist(distLengths []uint8) error {
	var distCodes [numDistSlots]uint16
	if !computeCodes(distLengths, distCodes[:]) {
		// Incomplete distance trees are allowed in two shapes: no codes at
		// all (a literal-only block) or a lone one-bit code.
		used, single := 0, 0
		for i, l := range distLengths {
			if l != 0 {
				used++
				single = i
			}
		}
		switch {
		case used == 0:
		case used == 1 && distLengths[single] == 1:
			distCodes[single] = 0
		default:
			return ErrBadDistanceHuffmanTree
		}
	}

	clear(b.dist[:])
	for i := 0; i < maxDistCodes; i++ {
		l := distLengths[i]
		b.distLengths[i] = l
		b.distCodes[i] = distCodes[i]
		b.distMasks[i] = uint16(1)<<l - 1
		if l == 0 || l > distTableBits {
			continue
		}
		entry := uint32(distBase[i])<<16 | uint32(distExtra[i])<<8 | uint32(l)
		for j := int(distCodes[i]); j < distTableSize; j += 1 << l {
			b.dist[j] = entry
		}
	}
	return nil
}

// resolveDist decodes the distance code at the bottom of bits. It returns the
// distance base, its extra bit count and the code length, or ok=false if no
// distance symbol matches.
func (b *compressedBlock) resolveDist(bits uint64) (base uint16, extra, length uint8, ok bool) {
	if e := b.dist[bits&(distTableSize-1)]; e != 0 {
		return uint16(e >> 16), uint8(e >> 8), uint8(e), true
	}
	for i := 0; i < maxDistCodes; i++ {
		l := b.distLengths[i]
		if l > distTableBits && uint16(bits)&b.distMasks[i] == b.distCodes[i] {
			return distBase[i], distExtra[i], l, true
		}
	}
	return 0, 0, 0, false
}
