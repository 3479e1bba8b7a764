package zlib

import (
	"math"

	kzlib "github.com/klauspost/compress/zlib"
)

// readBufSize matches the chunk size io.Copy uses.
const readBufSize = 32 * 1024

type OptsFn func(opts *Config)

type Config struct {
	ignoreChecksum bool
	maxOutput      int
	bufferSize     int
	level          int
}

func NewConfig(o ...OptsFn) *Config {
	cfg := &Config{
		maxOutput:  math.MaxInt,
		bufferSize: readBufSize,
		level:      kzlib.DefaultCompression,
	}
	for _, opts := range o {
		opts(cfg)
	}
	return cfg
}

// WithIgnoreChecksum skips the Adler-32 comparison at the end of the stream.
func WithIgnoreChecksum() OptsFn {
	return func(opts *Config) {
		opts.ignoreChecksum = true
	}
}

// WithMaxOutput limits the decoded size. Values below zero mean no output at all.
func WithMaxOutput(n int) OptsFn {
	return func(opts *Config) {
		opts.maxOutput = max(n, 0)
	}
}

// WithBufferSize sets how many bytes a Reader pulls from its source at a time.
func WithBufferSize(n int) OptsFn {
	return func(opts *Config) {
		if n > 0 {
			opts.bufferSize = n
		}
	}
}

// WithLevel sets the level used by Compress and CompressFile.
func WithLevel(level int) OptsFn {
	return func(opts *Config) {
		opts.level = level
	}
}

func (c *Config) IgnoreChecksum() bool { return c.ignoreChecksum }
func (c *Config) MaxOutput() int       { return c.maxOutput }
func (c *Config) BufferSize() int      { return c.bufferSize }
func (c *Config) Level() int           { return c.level }
