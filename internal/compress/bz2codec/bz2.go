// Package bz2codec provides a bzip2 compression codec.
package bz2codec

import (
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"

	"github.com/discochess/picklejar/internal/compress"
)

// Compile-time check that Codec implements compress.Compressor.
var _ compress.Compressor = (*Codec)(nil)

// Codec implements bzip2 compression.
type Codec struct {
	level int
}

// New returns a new bzip2 codec. Levels run from bzip2.BestSpeed to
// bzip2.BestCompression; zero selects the library default.
func New(opts compress.Options) (*Codec, error) {
	if opts.Level != 0 && (opts.Level < bzip2.BestSpeed || opts.Level > bzip2.BestCompression) {
		return nil, fmt.Errorf("bz2: invalid compression level %d", opts.Level)
	}
	return &Codec{level: opts.Level}, nil
}

// Reader wraps r to decompress bzip2 data.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	return bzip2.NewReader(r, nil)
}

// Writer wraps w to compress data with bzip2.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: c.level})
}
