package pickler

import (
	"fmt"
	"io"
	"reflect"

	ogorek "github.com/kisielk/og-rek"
)

// picklePickler speaks the Python pickle protocol. Decoded values use the
// og-rek mapping: ints become int64, lists []any, dicts map[any]any.
type picklePickler struct{}

var _ Pickler = picklePickler{}

func (picklePickler) Encode(w io.Writer, v any) error {
	return ogorek.NewEncoder(w).Encode(v)
}

func (picklePickler) Decode(r io.Reader, v any) error {
	dst := reflect.ValueOf(v)
	if dst.Kind() != reflect.Pointer || dst.IsNil() {
		return fmt.Errorf("%w: pickle needs a non-nil pointer, got %T", ErrUnsupportedType, v)
	}
	obj, err := ogorek.NewDecoder(r).Decode()
	if err != nil {
		return err
	}
	return assign(dst.Elem(), obj)
}

// assign stores obj into dst if its dynamic type fits.
func assign(dst reflect.Value, obj any) error {
	if obj == nil {
		dst.SetZero()
		return nil
	}
	src := reflect.ValueOf(obj)
	if !src.Type().AssignableTo(dst.Type()) {
		return fmt.Errorf("%w: cannot store decoded %T in %s", ErrUnsupportedType, obj, dst.Type())
	}
	dst.Set(src)
	return nil
}
