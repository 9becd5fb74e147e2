//go:build picklejar_nolz4

package lz4codec

import (
	"io"

	"github.com/discochess/picklejar/internal/compress"
)

// Codec is a placeholder; every method fails with ErrNotCompiled.
type Codec struct{}

// New always fails with ErrNotCompiled.
func New(compress.Options) (*Codec, error) {
	return nil, ErrNotCompiled
}

func (c *Codec) Reader(io.Reader) (io.ReadCloser, error) { return nil, ErrNotCompiled }

func (c *Codec) Writer(io.Writer) (io.WriteCloser, error) { return nil, ErrNotCompiled }
