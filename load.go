package picklejar

import (
	"bytes"
	"fmt"
	"sync/atomic"

	"github.com/discochess/picklejar/internal/stats"
	"github.com/discochess/picklejar/internal/target"
)

// Load reads t, decompresses it and unpickles the result into v, which must
// be a non-nil pointer.
//
// Archive compressions need random access; a stream target that is not an
// io.ReaderAt and io.Seeker fails with ErrUnsupportedMode before anything
// is read. A path target is always closed; a stream target is left open.
func (j *Jar) Load(t Target, v any, opts ...CallOption) error {
	done := j.begin(stats.OpLoad)
	co := j.callOptions(opts)

	r, err := j.resolve(t, co)
	if err != nil {
		done(r, t.String(), 0, err)
		return err
	}

	h, err := target.Normalize(t, target.Read)
	if err != nil {
		done(r, t.String(), 0, err)
		return err
	}
	if r.compression.RandomAccessRead && !h.RandomAccess() {
		err := fmt.Errorf("%w: %s needs a seekable handle, got %v",
			ErrUnsupportedMode, r.compression.Name, t)
		done(r, t.String(), 0, err)
		return err
	}

	var read atomic.Int64
	err = j.load(h, v, r, co, &read)
	done(r, t.String(), read.Load(), err)
	return err
}

func (j *Jar) load(h *target.Handle, v any, r resolved, co callOptions, read *atomic.Int64) (err error) {
	p, c, err := j.instantiate(r, co.compressOptions(h))
	if err != nil {
		return err
	}

	if err := h.Open(); err != nil {
		return fmt.Errorf("opening %s for reading: %w", h.Path(), err)
	}
	defer j.closeInto(&err, "closing target", h.Close)

	rc, err := c.Reader(newCountingReader(h.Reader(), read))
	if err != nil {
		return fmt.Errorf("opening %s stream: %w", r.compression.Name, err)
	}
	defer j.closeInto(&err, "closing "+r.compression.Name+" stream", rc.Close)

	if err := p.Decode(rc, v); err != nil {
		return fmt.Errorf("decoding with %s: %w", r.pickler.Name, err)
	}
	return nil
}

// LoadBytes decompresses and unpickles data into v. The compression must
// be named.
func (j *Jar) LoadBytes(data []byte, v any, opts ...CallOption) error {
	return j.Load(Stream(bytes.NewReader(data)), v, opts...)
}
