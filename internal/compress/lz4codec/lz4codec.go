// Package lz4codec provides an LZ4 frame compression codec. Builds tagged
// picklejar_nolz4 leave the codec out and New reports ErrNotCompiled.
package lz4codec

import (
	"errors"

	"github.com/discochess/picklejar/internal/compress"
)

// ErrNotCompiled is returned by New when lz4 support was left out of the build.
var ErrNotCompiled = errors.New("lz4codec: built without lz4 support")

// Compile-time check that Codec implements compress.Compressor.
var _ compress.Compressor = (*Codec)(nil)
