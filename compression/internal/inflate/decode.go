package inflate

// symbol kinds produced by decodeSymbol
const (
	symbolLiteral = iota
	symbolEndOfBlock
	symbolMatch
)

// symbol is one decoded non-table-literal symbol.
type symbol struct {
	kind   int
	value  byte
	length int
	dist   int
	bits   uint8
}

// readCompressed decodes symbols of the current block until the block ends,
// the output is full or the input runs dry. It returns the new output index.
func (d *Decompressor) readCompressed(input *[]byte, output []byte, out int) (int, error) {
	b := d.block

	// Fast loop: the buffer holds at least 56 bits after every refill and there
	// is room for eight output bytes, so only back-references need bounds checks.
	for d.state == stateCompressedData && len(*input) >= 8 && out+8 <= len(output) {
		d.fillBuffer(input)
		bits := d.buffer
		e1 := b.litlen[bits&b.litlenMask]
		if e1&literalEntry != 0 {
			n := uint8(e1)
			e2 := b.litlen[(bits>>n)&b.litlenMask]
			n2 := n + uint8(e2)
			e3 := b.litlen[(bits>>n2)&b.litlenMask]
			n3 := n2 + uint8(e3)
			e4 := b.litlen[(bits>>n3)&b.litlenMask]
			if e2&e3&e4&literalEntry != 0 {
				out = putLiteral(output, out, e1)
				out = putLiteral(output, out, e2)
				out = putLiteral(output, out, e3)
				out = putLiteral(output, out, e4)
				d.consumeBits(n3 + uint8(e4))
				continue
			}
			out = putLiteral(output, out, e1)
			d.consumeBits(n)
			continue
		}

		sym, ok, err := d.decodeSymbol(bits, e1)
		if err != nil {
			return out, err
		}
		if !ok {
			break
		}
		var stop bool
		if out, stop, err = d.apply(sym, output, out); err != nil || stop {
			return out, err
		}
	}

	// Careful loop for the tail of the input or output.
	for d.state == stateCompressedData {
		d.fillBuffer(input)
		if out == len(output) {
			break
		}

		bits := d.buffer
		e := b.litlen[bits&b.litlenMask]
		if e&literalEntry != 0 {
			n, b0, b1 := literalBytes(e)
			if d.nbits < uint8(e) {
				break
			}
			d.consumeBits(uint8(e))
			output[out] = b0
			out++
			if n == 2 {
				if out == len(output) {
					d.rleValue, d.rleLeft = b1, 1
					break
				}
				output[out] = b1
				out++
			}
			continue
		}

		sym, ok, err := d.decodeSymbol(bits, e)
		if err != nil {
			return out, err
		}
		if !ok {
			break
		}
		var stop bool
		if out, stop, err = d.apply(sym, output, out); err != nil || stop {
			return out, err
		}
	}

	// The block may end right where the output filled up.
	if d.state == stateCompressedData && d.rleLeft == 0 && d.backrefLen == 0 &&
		d.nbits >= maxCodeLength && uint16(d.buffer)&b.eofMask == b.eofCode {
		d.consumeBits(b.eofBits)
		d.endBlock()
	}
	return out, nil
}

func putLiteral(output []byte, out int, entry uint32) int {
	n, b0, b1 := literalBytes(entry)
	output[out] = b0
	output[out+1] = b1
	return out + n
}

// decodeSymbol decodes the symbol whose primary table entry is not a plain
// literal. It reports ok=false when the buffer does not yet hold the whole
// symbol including its extra bits.
func (d *Decompressor) decodeSymbol(bits uint64, entry uint32) (symbol, bool, error) {
	b := d.block
	var sym symbol
	var lengthBase int
	var lengthExtra uint8

	codeBits := uint8(entry)
	switch {
	case entry&secondaryEntry != 0:
		i := int(entry>>16)*secondaryGroup + int(bits>>litlenTableBits)&(secondaryGroup-1)
		se := b.secondary[i]
		s, l := int(se>>4), uint8(se&0xf)
		if l == 0 {
			if d.nbits < maxCodeLength {
				return sym, false, nil
			}
			return sym, false, ErrInvalidLiteralLengthCode
		}
		if d.nbits < l {
			return sym, false, nil
		}
		switch {
		case s < endOfBlock:
			return symbol{kind: symbolLiteral, value: byte(s), bits: l}, true, nil
		case s == endOfBlock:
			return symbol{kind: symbolEndOfBlock, bits: l}, true, nil
		}
		codeBits = l
		lengthBase, lengthExtra = int(lenBase[s-257]), lenExtra[s-257]

	case entry&exceptionalEntry != 0:
		if d.nbits < codeBits {
			return sym, false, nil
		}
		return symbol{kind: symbolEndOfBlock, bits: codeBits}, true, nil

	case codeBits == 0:
		if d.nbits < b.litlenBits {
			return sym, false, nil
		}
		return sym, false, ErrInvalidLiteralLengthCode

	default:
		lengthBase, lengthExtra = int(entry>>16), uint8(entry>>8)&0xf
	}

	used := codeBits + lengthExtra
	length := lengthBase + int(bits>>codeBits)&(1<<lengthExtra-1)

	distBase, distExtra, distBits, ok := b.resolveDist(bits >> used)
	if !ok {
		if d.nbits < used+maxCodeLength {
			return sym, false, nil
		}
		return sym, false, ErrInvalidDistanceCode
	}
	used += distBits
	dist := int(distBase) + int(bits>>used)&(1<<distExtra-1)
	used += distExtra
	if d.nbits < used {
		return sym, false, nil
	}
	return symbol{kind: symbolMatch, length: length, dist: dist, bits: used}, true, nil
}

// apply consumes sym and writes its output. stop is set when the block ended
// or the output filled before a back-reference was complete.
func (d *Decompressor) apply(sym symbol, output []byte, out int) (int, bool, error) {
	switch sym.kind {
	case symbolLiteral:
		d.consumeBits(sym.bits)
		output[out] = sym.value
		return out + 1, false, nil
	case symbolEndOfBlock:
		d.consumeBits(sym.bits)
		d.endBlock()
		return out, true, nil
	}

	if out == 0 {
		return out, false, ErrInputStartsWithRun
	}
	if sym.dist > out {
		return out, false, ErrDistanceTooFarBack
	}
	d.consumeBits(sym.bits)
	return d.copyMatch(output, out, sym.length, sym.dist)
}

// copyMatch copies length bytes starting dist bytes back. Source and
// destination overlap whenever dist < length, which repeats the pattern.
func (d *Decompressor) copyMatch(output []byte, out, length, dist int) (int, bool, error) {
	n := min(length, len(output)-out)

	if dist == 1 {
		v := output[out-1]
		fill(output[out:out+n], v)
		if n < length {
			d.rleValue, d.rleLeft = v, length-n
			return out + n, true, nil
		}
		return out + n, false, nil
	}

	if out+length+15 <= len(output) {
		// Copy 16-byte chunks. With dist < 16 each chunk reads only bytes the
		// previous chunk already wrote, and the overshoot past length is
		// overwritten by later output.
		src := out - dist
		step := min(dist, 16)
		for i := 0; i < length; i += step {
			copy(output[out+i:out+i+16], output[src+i:src+i+16])
		}
		return out + length, false, nil
	}

	if dist < n {
		for i := out; i < out+n; i++ {
			output[i] = output[i-dist]
		}
	} else {
		copy(output[out:out+n], output[out-dist:out-dist+n])
	}
	if n < length {
		d.backrefDst, d.backrefLen = dist, length-n
		return out + n, true, nil
	}
	return out + n, false, nil
}
