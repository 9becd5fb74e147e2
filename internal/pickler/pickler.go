// Package pickler defines serialization backends and their registry.
package pickler

import (
	"errors"
	"io"

	"github.com/discochess/picklejar/internal/backend"
)

// Backend names.
const (
	Gob     = "gob"
	Msgpack = "msgpack"
	Raw     = "raw"
	Pickle  = "pickle"
	CBOR    = "cbor"
	Proto   = "proto"
	JSON    = "json"
	YAML    = "yaml"
)

// ErrUnsupportedType is returned when a pickler cannot represent a value.
var ErrUnsupportedType = errors.New("pickler: unsupported value type")

// Pickler turns values into bytes and back.
type Pickler interface {
	// Encode writes the serialized form of v to w.
	Encode(w io.Writer, v any) error
	// Decode reads one serialized value from r into v, which must be a
	// non-nil pointer.
	Decode(r io.Reader, v any) error
}

// Backend describes one pickler backend.
type Backend struct {
	// Name is the canonical registry key.
	Name string
	// Aliases are extra registry keys.
	Aliases []string
	// Text is set for picklers that emit human-readable UTF-8.
	Text bool
	// New builds a Pickler. An error means the backend is unusable.
	New func() (Pickler, error)
	// Check overrides the availability probe. Nil means calling New.
	Check func() error
}

// Compile-time check that Backend implements backend.Descriptor.
var _ backend.Descriptor = (*Backend)(nil)

// Registry is the pickler backend registry.
type Registry = backend.Registry[*Backend]

// Names returns the canonical name followed by the aliases.
func (b *Backend) Names() []string {
	return append([]string{b.Name}, b.Aliases...)
}

// Extensions returns nil: picklers are never inferred from a path.
func (b *Backend) Extensions() []string { return nil }

// Probe reports whether the backend can be instantiated.
func (b *Backend) Probe() error {
	if b.Check != nil {
		return b.Check()
	}
	_, err := b.New()
	return err
}

// NewEmptyRegistry returns a pickler registry with no backends.
func NewEmptyRegistry() *Registry {
	return backend.NewRegistry[*Backend]("pickler")
}

// Backends returns fresh descriptors for every shipped pickler.
func Backends() []*Backend {
	return []*Backend{
		{Name: Gob, New: stateless(gobPickler{})},
		{Name: Msgpack, Aliases: []string{"optimized"}, New: stateless(msgpackPickler{})},
		{Name: Raw, New: stateless(rawPickler{})},
		{Name: Pickle, New: stateless(picklePickler{})},
		{Name: CBOR, New: newCBOR},
		{Name: Proto, Aliases: []string{"protobuf"}, New: newProto},
		{Name: JSON, Text: true, New: stateless(jsonPickler{})},
		{Name: YAML, Aliases: []string{"yml"}, Text: true, New: stateless(yamlPickler{})},
	}
}

// NewRegistry returns a pickler registry holding every shipped backend.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for _, b := range Backends() {
		r.MustRegister(b)
	}
	return r
}

func stateless(p Pickler) func() (Pickler, error) {
	return func() (Pickler, error) { return p, nil }
}
