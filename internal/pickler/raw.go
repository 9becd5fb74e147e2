package pickler

import (
	"fmt"
	"io"
)

// rawPickler is a byte passthrough, not an object serializer. Encode copies
// a []byte, string or io.Reader unchanged and Decode hands the bytes back
// to a *[]byte, *string, *any or io.Writer. There is no framing, so the
// CLI uses it to recompress files without knowing their pickler.
type rawPickler struct{}

var _ Pickler = rawPickler{}

func (rawPickler) Encode(w io.Writer, v any) error {
	var err error
	switch x := v.(type) {
	case []byte:
		_, err = w.Write(x)
	case string:
		_, err = io.WriteString(w, x)
	case *[]byte:
		_, err = w.Write(*x)
	case *string:
		_, err = io.WriteString(w, *x)
	case io.Reader:
		_, err = io.Copy(w, x)
	default:
		return fmt.Errorf("%w: raw cannot encode %T", ErrUnsupportedType, v)
	}
	return err
}

func (rawPickler) Decode(r io.Reader, v any) error {
	if w, ok := v.(io.Writer); ok {
		_, err := io.Copy(w, r)
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	switch x := v.(type) {
	case *[]byte:
		*x = data
	case *string:
		*x = string(data)
	case *any:
		*x = data
	default:
		return fmt.Errorf("%w: raw cannot decode into %T", ErrUnsupportedType, v)
	}
	return nil
}
