// Package gzipcodec provides a gzip compression codec.
package gzipcodec

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/discochess/picklejar/internal/compress"
)

// Compile-time check that Codec implements compress.Compressor.
var _ compress.Compressor = (*Codec)(nil)

// Codec implements gzip compression.
type Codec struct {
	level int
}

// New returns a new gzip codec. A zero level selects gzip.DefaultCompression.
func New(opts compress.Options) (*Codec, error) {
	level := opts.Level
	if level == 0 {
		level = gzip.DefaultCompression
	}
	if level < gzip.StatelessCompression || level > gzip.BestCompression {
		return nil, fmt.Errorf("gzip: invalid compression level %d", level)
	}
	return &Codec{level: level}, nil
}

// Reader wraps r to decompress gzip data.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

// Writer wraps w to compress data with gzip.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriterLevel(w, c.level)
}
