//go:build !picklejar_noproto

package pickler

import (
	"fmt"
	"io"

	"google.golang.org/protobuf/proto"
)

// protoPickler writes the binary wire form of a single proto.Message.
// The stream holds exactly one message, so Decode consumes r to EOF.
type protoPickler struct {
	mo proto.MarshalOptions
	uo proto.UnmarshalOptions
}

var _ Pickler = (*protoPickler)(nil)

func newProto() (Pickler, error) {
	return &protoPickler{
		mo: proto.MarshalOptions{Deterministic: true},
	}, nil
}

func (p *protoPickler) Encode(w io.Writer, v any) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return fmt.Errorf("%w: proto cannot encode %T", ErrUnsupportedType, v)
	}
	data, err := p.mo.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (p *protoPickler) Decode(r io.Reader, v any) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return fmt.Errorf("%w: proto cannot decode into %T", ErrUnsupportedType, v)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return p.uo.Unmarshal(data, msg)
}
