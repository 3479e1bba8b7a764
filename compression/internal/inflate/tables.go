package inflate

// Flags carried in literal/length table entries. The low byte of every entry
// holds the number of input bits it consumes.
const (
	literalEntry     = 0x8000
	exceptionalEntry = 0x4000
	secondaryEntry   = 0x2000
)

const (
	litlenTableBits  = 12
	litlenTableSize  = 1 << litlenTableBits
	distTableBits    = 9
	distTableSize    = 1 << distTableBits
	clTableBits      = 7
	clTableSize      = 1 << clTableBits
	secondaryBits    = 3
	secondaryGroup   = 1 << secondaryBits
	maxLitlenCodes   = 286
	maxDistCodes     = 30
	numLitlenSlots   = 288
	numDistSlots     = 32
	numCodeLengths   = numLitlenSlots + numDistSlots
	numCLCodes       = 19
	endOfBlock       = 256
	maxCodeLength    = 15
	minPairTableBits = 6
)

// clOrder is the order code length code lengths appear in a dynamic block header.
var clOrder = [numCLCodes]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

var lenBase = [29]uint16{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31,
	35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258,
}

var lenExtra = [29]uint8{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2,
	3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0,
}

var distBase = [maxDistCodes]uint16{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193,
	257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
}

var distExtra = [maxDistCodes]uint8{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6,
	7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

// fixedLengths holds the code lengths of a BTYPE=01 block: 288 literal/length
// slots followed by 32 distance slots.
var fixedLengths = func() (l [numCodeLengths]uint8) {
	for i := 0; i < 144; i++ {
		l[i] = 8
	}
	for i := 144; i < 256; i++ {
		l[i] = 9
	}
	for i := 256; i < 280; i++ {
		l[i] = 7
	}
	for i := 280; i < numLitlenSlots; i++ {
		l[i] = 8
	}
	for i := numLitlenSlots; i < numCodeLengths; i++ {
		l[i] = 5
	}
	return l
}()

// fastLitlenLengths is the literal/length code emitted by the companion fast
// encoder. Its streams pair it with a single one-bit distance code for
// distance 1, so every back-reference is a run of the previous byte.
var fastLitlenLengths = [maxLitlenCodes]uint8{
	2, 6, 6, 6, 6, 6, 6, 6, 6, 9, 9, 9, 9, 9, 9, 9,
	9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9,
	9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9,
	9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9,
	9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9,
	9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9,
	9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9,
	9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9,
	9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9,
	9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9,
	9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9,
	9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9,
	9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9,
	9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9,
	9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9,
	9, 9, 9, 9, 9, 9, 9, 9, 6, 6, 6, 6, 6, 6, 6, 6,
	10, 9, 9, 9, 9, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10,
	10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10,
}

// fastLengths is the full code length sequence of a fast encoder block.
var fastLengths = func() (l [numCodeLengths]uint8) {
	copy(l[:], fastLitlenLengths[:])
	l[numLitlenSlots] = 1
	return l
}()
