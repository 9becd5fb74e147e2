// Package s2codec provides an S2 (Snappy-compatible framing) compression codec.
package s2codec

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"

	"github.com/discochess/picklejar/internal/compress"
)

// Compile-time check that Codec implements compress.Compressor.
var _ compress.Compressor = (*Codec)(nil)

// Codec implements S2 stream compression.
type Codec struct {
	opts []s2.WriterOption
}

// New returns a new S2 codec. Level 2 selects better and level 3 best
// compression; 0 and 1 keep the fast default.
func New(opts compress.Options) (*Codec, error) {
	c := &Codec{}
	switch opts.Level {
	case 0, 1:
	case 2:
		c.opts = append(c.opts, s2.WriterBetterCompression())
	case 3:
		c.opts = append(c.opts, s2.WriterBestCompression())
	default:
		return nil, fmt.Errorf("s2: invalid compression level %d", opts.Level)
	}
	return c, nil
}

// Reader wraps r to decompress an S2 stream.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(s2.NewReader(r)), nil
}

// Writer wraps w to compress data into an S2 stream.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return s2.NewWriter(w, c.opts...), nil
}
