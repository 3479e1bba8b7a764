package inflate

import (
	"errors"
	"math"
	"slices"
)

// ErrOutputTooLarge is returned by DecompressBounded, together with the
// truncated output, when the stream decodes to more than the allowed size.
var ErrOutputTooLarge = errors.New("inflate: output too large")

const (
	initialOutputSize = 1024
	outputGrowth      = 32 * 1024
)

// Decompress decodes a complete zlib stream held in memory.
func Decompress(input []byte) ([]byte, error) {
	return DecompressBounded(input, math.MaxInt)
}

// DecompressBounded decodes a complete zlib stream, producing at most maxLen
// bytes. If the stream holds more, the first maxLen bytes are returned with
// ErrOutputTooLarge. It is the safe choice for untrusted input.
func DecompressBounded(input []byte, maxLen int) ([]byte, error) {
	return NewDecompressor().DecompressAll(input, maxLen)
}

// DecompressAll drives d over a complete stream the way DecompressBounded
// does. d must not have been used before.
func (d *Decompressor) DecompressAll(input []byte, maxLen int) ([]byte, error) {
	maxLen = max(maxLen, 0)
	output := make([]byte, min(initialOutputSize, maxLen))
	var in, out int
	for {
		consumed, produced, err := d.Read(input[in:], output, out, true)
		if err != nil {
			return nil, err
		}
		in += consumed
		out += produced

		if d.Done() {
			break
		}
		if len(output) == maxLen {
			return output[:out], ErrOutputTooLarge
		}
		size := min(len(output)+outputGrowth, maxLen)
		output = slices.Grow(output, size-len(output))[:size]
	}

	if in != len(input) || d.BufferedInput() > 0 {
		return nil, ErrExtraInput
	}
	return output[:out], nil
}
