package picklejar

import (
	"bytes"
	"fmt"
	"sync/atomic"

	"github.com/discochess/picklejar/internal/stats"
	"github.com/discochess/picklejar/internal/target"
)

// Dump pickles v, compresses it and writes the result to t.
//
// Backends are resolved before anything is opened. When the jar or the
// call enables default extensions and t is a path whose compression was
// given rather than inferred, the canonical extension is appended first.
// An inferred compression leaves the path as given, so "data.xz" is never
// rewritten to "data.xz.lzma".
// A path target is created or truncated and always closed; a stream target
// is written to and left open. A failed Dump may leave an incomplete file.
func (j *Jar) Dump(v any, t Target, opts ...CallOption) error {
	done := j.begin(stats.OpDump)
	co := j.callOptions(opts)

	r, err := j.resolve(t, co)
	if err != nil {
		done(r, t.String(), 0, err)
		return err
	}

	if t, err = j.writeTarget(t, r, co); err != nil {
		done(r, t.String(), 0, err)
		return err
	}

	h, err := target.Normalize(t, target.Write)
	if err != nil {
		done(r, t.String(), 0, err)
		return err
	}

	var written atomic.Int64
	err = j.dump(v, h, r, co, &written)
	done(r, t.String(), written.Load(), err)
	return err
}

func (j *Jar) dump(v any, h *target.Handle, r resolved, co callOptions, written *atomic.Int64) (err error) {
	p, c, err := j.instantiate(r, co.compressOptions(h))
	if err != nil {
		return err
	}

	if err := h.Open(); err != nil {
		return fmt.Errorf("opening %s for writing: %w", h.Path(), err)
	}
	defer j.closeInto(&err, "closing target", h.Close)

	w, err := c.Writer(newCountingWriter(h.Writer(), written))
	if err != nil {
		return fmt.Errorf("starting %s stream: %w", r.compression.Name, err)
	}
	defer j.closeInto(&err, "finishing "+r.compression.Name+" stream", w.Close)

	if err := p.Encode(w, v); err != nil {
		return fmt.Errorf("encoding with %s: %w", r.pickler.Name, err)
	}
	return nil
}

// DumpBytes pickles and compresses v into memory. The compression must be
// named, since a buffer has no extension to infer it from.
func (j *Jar) DumpBytes(v any, opts ...CallOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := j.Dump(v, Stream(&buf), opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
