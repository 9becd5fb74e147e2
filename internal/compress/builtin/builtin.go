// Package builtin assembles the compression backends shipped with picklejar.
package builtin

import (
	"github.com/discochess/picklejar/internal/compress"
	"github.com/discochess/picklejar/internal/compress/bz2codec"
	"github.com/discochess/picklejar/internal/compress/gzipcodec"
	"github.com/discochess/picklejar/internal/compress/lz4codec"
	"github.com/discochess/picklejar/internal/compress/lzmacodec"
	"github.com/discochess/picklejar/internal/compress/noopcodec"
	"github.com/discochess/picklejar/internal/compress/s2codec"
	"github.com/discochess/picklejar/internal/compress/zipcodec"
	"github.com/discochess/picklejar/internal/compress/zstdcodec"
)

// Backend names.
const (
	None    = "none"
	Gzip    = "gzip"
	Bz2     = "bz2"
	Lzma    = "lzma"
	Zipfile = "zipfile"
	Lz4     = "lz4"
	Zstd    = "zstd"
	S2      = "s2"
)

// NoneBackend is the passthrough backend. The dispatch engine falls back to
// it for "none" when a custom registry does not define one.
var NoneBackend = &compress.Backend{
	Name:    None,
	Aliases: []string{"pickle"},
	Exts:    []string{"pkl", "pickle"},
	New: func(compress.Options) (compress.Compressor, error) {
		return noopcodec.New(), nil
	},
}

// Backends returns fresh descriptors for every shipped backend, in the
// order they are registered.
func Backends() []*compress.Backend {
	none := *NoneBackend
	return []*compress.Backend{
		&none,
		{
			Name: Gzip,
			Exts: []string{"gz"},
			New: func(o compress.Options) (compress.Compressor, error) {
				return gzipcodec.New(o)
			},
		},
		{
			Name: Bz2,
			Exts: []string{"bz", "bz2"},
			New: func(o compress.Options) (compress.Compressor, error) {
				return bz2codec.New(o)
			},
		},
		{
			Name: Lzma,
			Exts: []string{"lzma", "xz"},
			New: func(o compress.Options) (compress.Compressor, error) {
				return lzmacodec.New(o)
			},
		},
		{
			Name:             Zipfile,
			Exts:             []string{"zip"},
			RandomAccessRead: true,
			New: func(o compress.Options) (compress.Compressor, error) {
				return zipcodec.New(o)
			},
		},
		{
			Name: Lz4,
			Exts: []string{"lz4"},
			New: func(o compress.Options) (compress.Compressor, error) {
				return lz4codec.New(o)
			},
		},
		{
			Name: Zstd,
			Exts: []string{"zst", "zstd"},
			New: func(o compress.Options) (compress.Compressor, error) {
				return zstdcodec.New(o)
			},
		},
		{
			Name: S2,
			Exts: []string{"s2"},
			New: func(o compress.Options) (compress.Compressor, error) {
				return s2codec.New(o)
			},
		},
	}
}

// NewRegistry returns a compression registry holding every shipped backend.
func NewRegistry() *compress.Registry {
	r := compress.NewEmptyRegistry()
	for _, b := range Backends() {
		r.MustRegister(b)
	}
	return r
}
