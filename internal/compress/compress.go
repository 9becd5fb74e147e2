// Package compress defines compression backends and their registry.
package compress

import (
	"io"

	"github.com/discochess/picklejar/internal/backend"
)

// Compressor wraps byte streams with a compression format.
// Closing a returned reader or writer never closes the wrapped stream.
type Compressor interface {
	// Reader wraps r to decompress data read from it.
	Reader(r io.Reader) (io.ReadCloser, error)
	// Writer wraps w to compress data written to it.
	Writer(w io.Writer) (io.WriteCloser, error)
}

// Options carries codec-specific settings for a single call.
type Options struct {
	// Level is the compression level. Zero selects the backend default.
	Level int
	// ArchiveName names the member inside archive formats.
	ArchiveName string
}

// Backend describes one compression backend.
type Backend struct {
	// Name is the canonical registry key.
	Name string
	// Aliases are extra registry keys.
	Aliases []string
	// Exts lists the file extensions without dot, canonical first.
	Exts []string
	// RandomAccessRead is set for formats that can only be read from a
	// seekable handle (archives with a trailing directory).
	RandomAccessRead bool
	// New builds a Compressor. An error means the backend is unusable.
	New func(Options) (Compressor, error)
	// Check overrides the availability probe. Nil means calling New.
	Check func() error
}

// Compile-time check that Backend implements backend.Descriptor.
var _ backend.Descriptor = (*Backend)(nil)

// Registry is the compression backend registry.
type Registry = backend.Registry[*Backend]

// NewEmptyRegistry returns a compression registry with no backends.
func NewEmptyRegistry() *Registry {
	return backend.NewRegistry[*Backend]("compression")
}

// Names returns the canonical name followed by the aliases.
func (b *Backend) Names() []string {
	return append([]string{b.Name}, b.Aliases...)
}

// Extensions returns the claimed file extensions.
func (b *Backend) Extensions() []string {
	return b.Exts
}

// Extension returns the canonical extension, or "" if none is claimed.
func (b *Backend) Extension() string {
	if len(b.Exts) == 0 {
		return ""
	}
	return b.Exts[0]
}

// Probe reports whether the backend can be instantiated.
func (b *Backend) Probe() error {
	if b.Check != nil {
		return b.Check()
	}
	_, err := b.New(Options{})
	return err
}
