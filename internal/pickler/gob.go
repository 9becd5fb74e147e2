package pickler

import (
	"encoding/gob"
	"io"
)

// gobPickler is the default general-purpose object pickler. Interface
// values must have their concrete types registered with gob.Register.
type gobPickler struct{}

var _ Pickler = gobPickler{}

func (gobPickler) Encode(w io.Writer, v any) error {
	return gob.NewEncoder(w).Encode(v)
}

func (gobPickler) Decode(r io.Reader, v any) error {
	return gob.NewDecoder(r).Decode(v)
}
