package zlib

import (
	"io"

	"github.com/inovacc/zinflate/compression/internal/inflate"
	"github.com/pkg/errors"
)

// windowSize is the largest distance a back-reference can reach.
const windowSize = 32 * 1024

const maxEmptyReads = 100

// Reader decompresses a zlib stream read from an io.Reader.
type Reader struct {
	cfg *Config
	src io.Reader
	d   *inflate.Decompressor

	buf    []byte
	in     []byte
	eof    bool
	srcErr error

	// window holds decoded bytes. Only [rpos, wpos) has not been handed
	// out yet; the bytes before rpos are kept for back-references.
	window []byte
	rpos   int
	wpos   int
	total  int

	err error
}

// NewReader creates a new Reader reading the given reader.
func NewReader(src io.Reader, opts ...OptsFn) *Reader {
	r := &Reader{cfg: NewConfig(opts...)}
	r.Reset(src)
	return r
}

// Reset discards the Reader's state and makes it equivalent to the result of
// NewReader, but reading from src instead. Buffers are reused.
func (r *Reader) Reset(src io.Reader) {
	if r.buf == nil {
		r.buf = make([]byte, r.cfg.bufferSize)
	}
	if r.window == nil {
		r.window = make([]byte, 2*windowSize)
	}

	r.src = src
	r.d = inflate.NewDecompressor()
	if r.cfg.ignoreChecksum {
		r.d.IgnoreAdler32()
	}
	r.in, r.eof, r.srcErr = nil, false, nil
	r.rpos, r.wpos, r.total = 0, 0, 0
	r.err = nil
}

func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for {
		if r.rpos < r.wpos {
			n := copy(p, r.window[r.rpos:r.wpos])
			r.rpos += n
			return n, nil
		}
		if r.err != nil {
			return 0, r.err
		}
		if !r.decode() {
			// The source returned nothing without an error; proxy that.
			return 0, nil
		}
	}
}

// Close releases nothing but makes Reader an io.ReadCloser. It reports the
// error that ended the stream, if any.
func (r *Reader) Close() error {
	if r.err == nil || r.err == io.EOF {
		return nil
	}
	return r.err
}

// decode runs the decompressor once and reports whether anything changed.
func (r *Reader) decode() bool {
	if len(r.in) == 0 && !r.eof {
		if r.srcErr != nil {
			r.err = r.srcErr
			return true
		}
		r.fill()
		if len(r.in) == 0 && !r.eof && r.srcErr == nil {
			return false
		}
	}

	if r.d.Done() {
		r.finish()
		return true
	}

	if r.wpos == len(r.window) {
		copy(r.window, r.window[r.wpos-windowSize:r.wpos])
		r.rpos, r.wpos = windowSize, windowSize
	}

	limit := len(r.window)
	budget := r.cfg.maxOutput - r.total
	if budget < limit-r.wpos {
		// With no budget left, a single byte of room tells whether the
		// stream would produce more.
		limit = r.wpos + max(budget, 1)
	}

	endOfInput := r.eof && r.srcErr == nil
	consumed, produced, err := r.d.Read(r.in, r.window[:limit], r.wpos, endOfInput)
	r.in = r.in[consumed:]
	switch {
	case errors.Is(err, inflate.ErrInsufficientInput):
		r.err = io.ErrUnexpectedEOF
		return true
	case err != nil:
		r.err = err
		return true
	case budget == 0 && produced > 0:
		r.err = ErrOutputTooLarge
		return true
	}

	r.wpos += produced
	r.total += produced
	if r.d.Done() {
		r.finish()
	}
	return true
}

func (r *Reader) fill() {
	n, err := r.src.Read(r.buf)
	r.in = r.buf[:n]
	switch {
	case err == io.EOF:
		r.eof = true
	case err != nil:
		r.srcErr = err
	}
}

// finish checks that nothing follows the stream.
func (r *Reader) finish() {
	for i := 0; len(r.in) == 0 && !r.eof && r.srcErr == nil; i++ {
		if i == maxEmptyReads {
			r.err = io.ErrNoProgress
			return
		}
		r.fill()
	}
	switch {
	case len(r.in) > 0 || r.d.BufferedInput() > 0:
		r.err = ErrExtraInput
	case r.srcErr != nil:
		r.err = r.srcErr
	default:
		r.err = io.EOF
	}
}
