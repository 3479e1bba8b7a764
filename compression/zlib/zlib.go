// Package zlib decodes zlib streams with a table-driven inflater and encodes
// them with klauspost/compress.
package zlib

import (
	"bytes"

	"github.com/inovacc/zinflate/compression/internal/inflate"
	kzlib "github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

type (
	Decompressor       = inflate.Decompressor
	DecompressionError = inflate.DecompressionError
)

const (
	ErrBadZlibHeader                  = inflate.ErrBadZlibHeader
	ErrExtraInput                     = inflate.ErrExtraInput
	ErrInsufficientInput              = inflate.ErrInsufficientInput
	ErrInvalidBlockType               = inflate.ErrInvalidBlockType
	ErrInvalidUncompressedBlockLength = inflate.ErrInvalidUncompressedBlockLength
	ErrInvalidHlit                    = inflate.ErrInvalidHlit
	ErrInvalidHdist                   = inflate.ErrInvalidHdist
	ErrInvalidCodeLengthRepeat        = inflate.ErrInvalidCodeLengthRepeat
	ErrBadCodeLengthHuffmanTree       = inflate.ErrBadCodeLengthHuffmanTree
	ErrBadLiteralLengthHuffmanTree    = inflate.ErrBadLiteralLengthHuffmanTree
	ErrBadDistanceHuffmanTree         = inflate.ErrBadDistanceHuffmanTree
	ErrInvalidLiteralLengthCode       = inflate.ErrInvalidLiteralLengthCode
	ErrInvalidDistanceCode            = inflate.ErrInvalidDistanceCode
	ErrInputStartsWithRun             = inflate.ErrInputStartsWithRun
	ErrDistanceTooFarBack             = inflate.ErrDistanceTooFarBack
	ErrWrongChecksum                  = inflate.ErrWrongChecksum
)

var ErrOutputTooLarge = inflate.ErrOutputTooLarge

// NewDecompressor returns a resumable decoder for callers that manage their
// own input and output buffers.
func NewDecompressor(opts ...OptsFn) *Decompressor {
	cfg := NewConfig(opts...)
	d := inflate.NewDecompressor()
	if cfg.ignoreChecksum {
		d.IgnoreAdler32()
	}
	return d
}

func Compress(data []byte, opts ...OptsFn) ([]byte, error) {
	cfg := NewConfig(opts...)

	var b bytes.Buffer
	w, err := kzlib.NewWriterLevel(&b, cfg.level)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid compression level %d", cfg.level)
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Decompress decodes a complete zlib stream, bounded by WithMaxOutput if given.
func Decompress(data []byte, opts ...OptsFn) ([]byte, error) {
	cfg := NewConfig(opts...)
	return DecompressBounded(data, cfg.maxOutput, opts...)
}

// DecompressBounded decodes at most maxLen bytes. When the stream holds more,
// the first maxLen bytes are returned along with ErrOutputTooLarge.
func DecompressBounded(data []byte, maxLen int, opts ...OptsFn) ([]byte, error) {
	return NewDecompressor(opts...).DecompressAll(data, maxLen)
}
