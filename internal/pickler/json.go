package pickler

import (
	"encoding/json"
	"io"
)

type jsonPickler struct{}

var _ Pickler = jsonPickler{}

func (jsonPickler) Encode(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

func (jsonPickler) Decode(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}
