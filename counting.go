package picklejar

import (
	"io"
	"sync/atomic"
)

// countingWriter wraps an io.Writer to track bytes written.
type countingWriter struct {
	w       io.Writer
	written *atomic.Int64
}

func newCountingWriter(w io.Writer, counter *atomic.Int64) *countingWriter {
	return &countingWriter{w: w, written: counter}
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.written.Add(int64(n))
	return n, err
}

// countingReader wraps an io.Reader to track bytes read.
type countingReader struct {
	r    io.Reader
	read *atomic.Int64
}

// countingReaderAt keeps random access visible through the wrapper so
// archive codecs still accept the handle.
type countingReaderAt struct {
	*countingReader
	ra io.ReaderAt
	s  io.Seeker
}

func newCountingReader(r io.Reader, counter *atomic.Int64) io.Reader {
	cr := &countingReader{r: r, read: counter}
	ra, okRA := r.(io.ReaderAt)
	s, okS := r.(io.Seeker)
	if okRA && okS {
		return &countingReaderAt{countingReader: cr, ra: ra, s: s}
	}
	return cr
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.read.Add(int64(n))
	return n, err
}

func (cr *countingReaderAt) ReadAt(p []byte, off int64) (int, error) {
	n, err := cr.ra.ReadAt(p, off)
	cr.read.Add(int64(n))
	return n, err
}

func (cr *countingReaderAt) Seek(offset int64, whence int) (int64, error) {
	return cr.s.Seek(offset, whence)
}
