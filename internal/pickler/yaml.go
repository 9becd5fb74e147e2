package pickler

import (
	"io"

	"gopkg.in/yaml.v3"
)

type yamlPickler struct{}

var _ Pickler = yamlPickler{}

func (yamlPickler) Encode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (yamlPickler) Decode(r io.Reader, v any) error {
	return yaml.NewDecoder(r).Decode(v)
}
