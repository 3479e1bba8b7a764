package inflate

// DecompressionError reports why a zlib stream could not be decoded. All
// errors are fatal to the stream; the Decompressor that returned one must be
// discarded.
type DecompressionError int

const (
	ErrBadZlibHeader DecompressionError = iota + 1
	ErrExtraInput
	ErrInsufficientInput
	ErrInvalidBlockType
	ErrInvalidUncompressedBlockLength
	ErrInvalidHlit
	ErrInvalidHdist
	ErrInvalidCodeLengthRepeat
	ErrBadCodeLengthHuffmanTree
	ErrBadLiteralLengthHuffmanTree
	ErrBadDistanceHuffmanTree
	ErrInvalidLiteralLengthCode
	ErrInvalidDistanceCode
	ErrInputStartsWithRun
	ErrDistanceTooFarBack
	ErrWrongChecksum
)

var errorStrings = [...]string{
	ErrBadZlibHeader:                  "bad zlib header",
	ErrExtraInput:                     "extra input after end of stream",
	ErrInsufficientInput:              "insufficient input",
	ErrInvalidBlockType:               "invalid block type",
	ErrInvalidUncompressedBlockLength: "invalid uncompressed block length",
	ErrInvalidHlit:                    "too many literal/length codes",
	ErrInvalidHdist:                   "too many distance codes",
	ErrInvalidCodeLengthRepeat:        "invalid code length repeat",
	ErrBadCodeLengthHuffmanTree:       "invalid code length huffman tree",
	ErrBadLiteralLengthHuffmanTree:    "invalid literal/length huffman tree",
	ErrBadDistanceHuffmanTree:         "invalid distance huffman tree",
	ErrInvalidLiteralLengthCode:       "invalid literal/length code",
	ErrInvalidDistanceCode:            "invalid distance code",
	ErrInputStartsWithRun:             "input starts with a back-reference",
	ErrDistanceTooFarBack:             "distance too far back",
	ErrWrongChecksum:                  "adler-32 checksum mismatch",
}

func (e DecompressionError) Error() string {
	if e <= 0 || int(e) >= len(errorStrings) {
		return "inflate: unknown error"
	}
	return "inflate: " + errorStrings[e]
}
