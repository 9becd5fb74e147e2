//go:build !picklejar_nolz4

package lz4codec

import (
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/discochess/picklejar/internal/compress"
)

var levels = [...]lz4.CompressionLevel{
	lz4.Fast, lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4,
	lz4.Level5, lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
}

// Codec implements LZ4 frame compression.
type Codec struct {
	level lz4.CompressionLevel
}

// New returns a new lz4 codec. Levels 1-9 select the high-compression
// modes; zero is the fast default.
func New(opts compress.Options) (*Codec, error) {
	if opts.Level < 0 || opts.Level >= len(levels) {
		return nil, fmt.Errorf("lz4: invalid compression level %d", opts.Level)
	}
	return &Codec{level: levels[opts.Level]}, nil
}

// Reader wraps r to decompress lz4 frames.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

// Writer wraps w to compress data into an lz4 frame.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	zw := lz4.NewWriter(w)
	if err := zw.Apply(lz4.CompressionLevelOption(c.level)); err != nil {
		return nil, err
	}
	return zw, nil
}
