package inflate

// readBlockHeader decodes BFINAL, BTYPE and the fixed-size part of the block
// header that follows.
func (d *Decompressor) readBlockHeader(input *[]byte) error {
	d.fillBuffer(input)
	if d.nbits < 10 {
		return nil
	}

	start := d.peekBits(3)
	d.lastBlock = start&1 != 0
	switch start >> 1 {
	case 0:
		align := (d.nbits - 3) % 8
		headerBits := 3 + align + 32
		if d.nbits < headerBits {
			return nil
		}
		lengths := d.peekBits(headerBits) >> (3 + align)
		n, nn := uint16(lengths), uint16(lengths>>16)
		if n != ^nn {
			return ErrInvalidUncompressedBlockLength
		}
		d.consumeBits(headerBits)
		d.uncompressedLeft = int(n)
		d.state = stateUncompressedData

	case 1:
		d.consumeBits(3)
		d.block = fixedBlock
		d.state = stateCompressedData

	case 2:
		if d.nbits < 17 {
			return nil
		}
		d.header.hlit = int(d.peekBits(8)>>3) + 257
		d.header.hdist = int(d.peekBits(13)>>8) + 1
		d.header.hclen = int(d.peekBits(17)>>13) + 4
		if d.header.hlit > maxLitlenCodes {
			return ErrInvalidHlit
		}
		if d.header.hdist > maxDistCodes {
			return ErrInvalidHdist
		}
		d.consumeBits(17)
		d.state = stateCodeLengthCodes

	default:
		return ErrInvalidBlockType
	}
	return nil
}

// readCodeLengthCodes reads the lengths of the code length alphabet and builds
// its decode table. It waits until all HCLEN triplets are available.
func (d *Decompressor) readCodeLengthCodes(input *[]byte) error {
	d.fillBuffer(input)
	if int(d.nbits)+len(*input)*8 < 3*d.header.hclen {
		return nil
	}

	var lengths [numCLCodes]uint8
	for i := 0; i < d.header.hclen; i++ {
		lengths[clOrder[i]] = uint8(d.peekBits(3))
		d.consumeBits(3)
		// 18 triplets use 54 bits, the least a full buffer holds.
		if i == 17 {
			d.fillBuffer(input)
		}
	}

	var codes [numCLCodes]uint16
	if !computeCodes(lengths[:], codes[:]) {
		return ErrBadCodeLengthHuffmanTree
	}

	clear(d.header.table[:])
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		for j := int(codes[sym]); j < clTableSize; j += 1 << l {
			d.header.table[j] = uint8(sym)<<3 | l
		}
	}
	d.header.numLengthsRead = 0
	d.state = stateCodeLengths
	return nil
}

// readCodeLengths decodes the run-length coded literal/length and distance
// code lengths, then builds the block's decode tables.
func (d *Decompressor) readCodeLengths(input *[]byte) error {
	h := &d.header
	total := h.hlit + h.hdist
	for h.numLengthsRead < total {
		d.fillBuffer(input)
		if d.nbits < clTableBits {
			return nil
		}

		entry := h.table[d.peekBits(clTableBits)]
		length, sym := entry&7, entry>>3
		if sym < 16 {
			h.codeLengths[h.numLengthsRead] = sym
			h.numLengthsRead++
			d.consumeBits(length)
			continue
		}

		var base int
		var extra uint8
		var value uint8
		switch sym {
		case 16:
			base, extra = 3, 2
		case 17:
			base, extra = 3, 3
		default:
			base, extra = 11, 7
		}
		if d.nbits < length+extra {
			return nil
		}
		if sym == 16 {
			// Repeats the previous length, which may belong to the literal/length
			// alphabet when the run crosses into the distance lengths.
			if h.numLengthsRead == 0 {
				return ErrInvalidCodeLengthRepeat
			}
			value = h.codeLengths[h.numLengthsRead-1]
		}
		repeat := base + int(d.peekBits(length+extra)>>length)
		if h.numLengthsRead+repeat > total {
			return ErrInvalidCodeLengthRepeat
		}
		fill(h.codeLengths[h.numLengthsRead:h.numLengthsRead+repeat], value)
		h.numLengthsRead += repeat
		d.consumeBits(length + extra)
	}

	// Move the distance lengths to their fixed slots and clear the unused ones.
	copy(h.codeLengths[numLitlenSlots:], h.codeLengths[h.hlit:total])
	clear(h.codeLengths[h.hlit:numLitlenSlots])
	clear(h.codeLengths[numLitlenSlots+h.hdist:])

	if h.codeLengths == fastLengths {
		d.block = fastBlock
	} else {
		if err := d.dynamic.build(h.codeLengths[:], h.hlit); err != nil {
			return err
		}
		d.block = &d.dynamic
	}
	d.state = stateCompressedData
	return nil
}
