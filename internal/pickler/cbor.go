//go:build !picklejar_nocbor

package pickler

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

// cborPickler encodes deterministic CBOR (RFC 8949 core profile).
type cborPickler struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Pickler = (*cborPickler)(nil)

func newCBOR() (Pickler, error) {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	dm, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, err
	}
	return &cborPickler{enc: em, dec: dm}, nil
}

func (p *cborPickler) Encode(w io.Writer, v any) error {
	return p.enc.NewEncoder(w).Encode(v)
}

func (p *cborPickler) Decode(r io.Reader, v any) error {
	return p.dec.NewDecoder(r).Decode(v)
}
