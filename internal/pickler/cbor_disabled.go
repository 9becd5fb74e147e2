//go:build picklejar_nocbor

package pickler

import "errors"

func newCBOR() (Pickler, error) {
	return nil, errors.New("pickler: built without cbor support")
}
