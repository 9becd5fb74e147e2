// Package lzmacodec provides an xz/lzma compression codec. It writes the xz
// container format and reads both xz and legacy .lzma streams.
package lzmacodec

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"

	"github.com/discochess/picklejar/internal/compress"
)

// Compile-time check that Codec implements compress.Compressor.
var _ compress.Compressor = (*Codec)(nil)

// presetDictCap maps xz preset levels 1-9 to dictionary sizes.
var presetDictCap = [...]int{
	1: 1 << 20,
	2: 2 << 20,
	3: 4 << 20,
	4: 4 << 20,
	5: 8 << 20,
	6: 8 << 20,
	7: 16 << 20,
	8: 32 << 20,
	9: 64 << 20,
}

// Codec implements xz compression.
type Codec struct {
	cfg xz.WriterConfig
}

// New returns a new xz codec. Levels 1-9 select the preset dictionary size;
// zero keeps the library default.
func New(opts compress.Options) (*Codec, error) {
	c := &Codec{}
	if opts.Level != 0 {
		if opts.Level < 1 || opts.Level >= len(presetDictCap) {
			return nil, fmt.Errorf("lzma: invalid compression level %d", opts.Level)
		}
		c.cfg.DictCap = presetDictCap[opts.Level]
	}
	if err := c.cfg.Verify(); err != nil {
		return nil, fmt.Errorf("lzma: %w", err)
	}
	return c, nil
}

// Reader wraps r to decompress xz data, falling back to the legacy lzma
// format when the xz magic is absent.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(xz.HeaderLen)
	if xz.ValidHeader(head) || len(head) < xz.HeaderLen {
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(xr), nil
	}
	lr, err := lzma.NewReader(br)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(lr), nil
}

// Writer wraps w to compress data with xz.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return c.cfg.NewWriter(w)
}
