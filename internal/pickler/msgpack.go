package pickler

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// msgpackPickler is the compact binary variant.
type msgpackPickler struct{}

var _ Pickler = msgpackPickler{}

func (msgpackPickler) Encode(w io.Writer, v any) error {
	return msgpack.NewEncoder(w).Encode(v)
}

func (msgpackPickler) Decode(r io.Reader, v any) error {
	return msgpack.NewDecoder(r).Decode(v)
}
