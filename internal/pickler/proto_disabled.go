//go:build picklejar_noproto

package pickler

import "errors"

func newProto() (Pickler, error) {
	return nil, errors.New("pickler: built without protobuf support")
}
