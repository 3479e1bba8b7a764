package zlib

import (
	"io"

	kzlib "github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// DecompressFile decodes the zlib file src into dst and returns the number of
// bytes written. dst is removed if decoding fails.
func DecompressFile(fs afero.Fs, src, dst string, opts ...OptsFn) (int64, error) {
	in, err := fs.Open(src)
	if err != nil {
		return 0, errors.Wrapf(err, "error opening %s", src)
	}
	defer in.Close()

	out, err := fs.Create(dst)
	if err != nil {
		return 0, errors.Wrapf(err, "error creating %s", dst)
	}

	n, err := io.Copy(out, NewReader(in, opts...))
	if err != nil {
		_ = out.Close()
		_ = fs.Remove(dst)
		return n, errors.Wrapf(err, "error decompressing %s", src)
	}
	if err := out.Close(); err != nil {
		return n, errors.Wrapf(err, "error closing %s", dst)
	}
	return n, nil
}

// CompressFile encodes src into the zlib file dst and returns the number of
// uncompressed bytes read.
func CompressFile(fs afero.Fs, src, dst string, opts ...OptsFn) (int64, error) {
	cfg := NewConfig(opts...)

	in, err := fs.Open(src)
	if err != nil {
		return 0, errors.Wrapf(err, "error opening %s", src)
	}
	defer in.Close()

	out, err := fs.Create(dst)
	if err != nil {
		return 0, errors.Wrapf(err, "error creating %s", dst)
	}
	defer out.Close()

	w, err := kzlib.NewWriterLevel(out, cfg.level)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid compression level %d", cfg.level)
	}

	n, err := io.Copy(w, in)
	if err != nil {
		return n, errors.Wrapf(err, "error compressing %s", src)
	}
	if err := w.Close(); err != nil {
		return n, errors.Wrapf(err, "error flushing %s", dst)
	}
	return n, out.Close()
}
