// Package noopcodec provides a passthrough codec (no compression).
package noopcodec

import (
	"io"

	"github.com/discochess/picklejar/internal/compress"
)

// Compile-time check that Codec implements compress.Compressor.
var _ compress.Compressor = (*Codec)(nil)

// Codec passes bytes through unchanged.
type Codec struct{}

// New returns a new passthrough codec.
func New() *Codec {
	return &Codec{}
}

// Reader returns r behind a Close that does nothing, so the caller's
// stream stays open.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

// Writer returns w behind a Close that does nothing.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
