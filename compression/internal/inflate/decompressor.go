package inflate

import (
	"hash"
	"hash/adler32"
	"math/bits"
)

// Decompressor states.
const (
	stateZlibHeader = iota
	stateBlockHeader
	stateCodeLengthCodes
	stateCodeLengths
	stateCompressedData
	stateUncompressedData
	stateChecksum
	stateDone
)

// blockHeader is scratch space for decoding a dynamic block header.
type blockHeader struct {
	hlit  int
	hdist int
	hclen int

	// table decodes the code length alphabet: symbol<<3 | code length.
	table          [clTableSize]uint8
	codeLengths    [numCodeLengths]uint8
	numLengthsRead int
}

// Decompressor is a resumable zlib stream decoder. It is driven by repeated
// calls to Read and never performs I/O itself. A Decompressor must not be
// used from more than one goroutine at a time.
type Decompressor struct {
	buffer uint64
	nbits  uint8

	block   *compressedBlock
	dynamic compressedBlock
	header  blockHeader

	uncompressedLeft int

	// Deferred copies left over when the output filled up mid-symbol.
	rleValue   byte
	rleLeft    int
	backrefDst int
	backrefLen int

	checksum       hash.Hash32
	ignoreChecksum bool
	lastBlock      bool
	state          int
	err            error
}

// NewDecompressor returns a Decompressor positioned at the start of a zlib stream.
func NewDecompressor() *Decompressor {
	return &Decompressor{
		checksum: adler32.New(),
		state:    stateZlibHeader,
	}
}

// IgnoreAdler32 disables verification of the stream trailer. The checksum is
// still computed.
func (d *Decompressor) IgnoreAdler32() {
	d.ignoreChecksum = true
}

// Done reports whether the whole stream, trailer included, has been decoded.
func (d *Decompressor) Done() bool {
	return d.state == stateDone
}

// BufferedInput returns the number of whole input bytes that were consumed
// into the bit buffer but not decoded yet. Once Done, they follow the stream.
func (d *Decompressor) BufferedInput() int {
	return int(d.nbits / 8)
}

// Read decodes input into output starting at outputPosition and returns the
// number of input bytes consumed and output bytes produced. output[:outputPosition]
// must hold the bytes produced by earlier calls that back-references may still
// refer to (up to 32 KiB).
//
// Every call drains input, fills output, or finishes the stream. When none of
// those happened and endOfInput is set, the stream is truncated and
// ErrInsufficientInput is returned. After the stream is done Read returns 0, 0.
func (d *Decompressor) Read(input, output []byte, outputPosition int, endOfInput bool) (int, int, error) {
	if d.err != nil {
		return 0, 0, d.err
	}
	if d.state == stateDone {
		return 0, 0, nil
	}
	if outputPosition < 0 || outputPosition > len(output) {
		panic("inflate: output position out of range")
	}

	consumed, out, err := d.read(input, output, outputPosition, endOfInput)
	if err != nil {
		d.err = err
		return 0, 0, err
	}
	return consumed, out - outputPosition, nil
}

func (d *Decompressor) read(input, output []byte, outputPosition int, endOfInput bool) (int, int, error) {
	remaining := input
	out := d.drainQueued(output, outputPosition)
	if d.rleLeft > 0 || d.backrefLen > 0 {
		d.checksum.Write(output[outputPosition:out])
		return 0, out, nil
	}

	for last := -1; last != d.state; {
		last = d.state
		var err error
		switch d.state {
		case stateZlibHeader:
			err = d.readZlibHeader(&remaining)
		case stateBlockHeader:
			err = d.readBlockHeader(&remaining)
		case stateCodeLengthCodes:
			err = d.readCodeLengthCodes(&remaining)
		case stateCodeLengths:
			err = d.readCodeLengths(&remaining)
		case stateCompressedData:
			out, err = d.readCompressed(&remaining, output, out)
		case stateUncompressedData:
			out = d.readUncompressed(&remaining, output, out)
		case stateChecksum:
			err = d.readChecksum(&remaining, output[outputPosition:out])
		}
		if err != nil {
			return 0, 0, err
		}
	}

	if d.state != stateDone {
		d.checksum.Write(output[outputPosition:out])
	}

	if d.state == stateDone || !endOfInput || out == len(output) {
		return len(input) - len(remaining), out, nil
	}
	return 0, 0, ErrInsufficientInput
}

// drainQueued emits deferred run and back-reference bytes before any new
// symbol is decoded.
func (d *Decompressor) drainQueued(output []byte, out int) int {
	if d.rleLeft > 0 {
		n := min(d.rleLeft, len(output)-out)
		fill(output[out:out+n], d.rleValue)
		out += n
		d.rleLeft -= n
		if d.rleLeft > 0 {
			return out
		}
	}
	if d.backrefLen > 0 {
		n := min(d.backrefLen, len(output)-out)
		for i := out; i < out+n; i++ {
			output[i] = output[i-d.backrefDst]
		}
		out += n
		d.backrefLen -= n
	}
	return out
}

func (d *Decompressor) readZlibHeader(input *[]byte) error {
	d.fillBuffer(input)
	if d.nbits < 16 {
		return nil
	}
	cmf := d.peekBits(8)
	flg := d.peekBits(16) >> 8
	if cmf&0x0f != 8 || cmf>>4 > 7 || flg&0x20 != 0 || (cmf<<8|flg)%31 != 0 {
		return ErrBadZlibHeader
	}
	d.consumeBits(16)
	d.state = stateBlockHeader
	return nil
}

func (d *Decompressor) readUncompressed(input *[]byte, output []byte, out int) int {
	for d.nbits > 0 && d.uncompressedLeft > 0 && out < len(output) {
		output[out] = byte(d.peekBits(8))
		d.consumeBits(8)
		d.uncompressedLeft--
		out++
	}
	if d.nbits == 0 {
		// Drop the look-ahead copy of input bytes that are about to be copied directly.
		d.buffer = 0
		n := min(d.uncompressedLeft, len(*input), len(output)-out)
		copy(output[out:out+n], (*input)[:n])
		*input = (*input)[n:]
		d.uncompressedLeft -= n
		out += n
	}

	if d.uncompressedLeft == 0 {
		d.endBlock()
	}
	return out
}

func (d *Decompressor) readChecksum(input *[]byte, produced []byte) error {
	d.fillBuffer(input)
	align := d.nbits % 8
	if d.nbits < 32+align {
		return nil
	}
	d.checksum.Write(produced)
	d.consumeBits(align)
	want := bits.ReverseBytes32(uint32(d.peekBits(32)))
	if !d.ignoreChecksum && want != d.checksum.Sum32() {
		return ErrWrongChecksum
	}
	d.consumeBits(32)
	d.state = stateDone
	return nil
}

// endBlock moves past the end of the current block.
func (d *Decompressor) endBlock() {
	if d.lastBlock {
		d.state = stateChecksum
	} else {
		d.state = stateBlockHeader
	}
}

func fill(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}
