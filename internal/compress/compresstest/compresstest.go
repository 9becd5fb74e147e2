// Package compresstest provides helpers for testing compress.Compressor
// implementations.
package compresstest

import (
	"bytes"
	"io"
	"testing"

	"github.com/discochess/picklejar/internal/compress"
)

// Payloads returns inputs every codec must round-trip.
func Payloads() map[string][]byte {
	return map[string][]byte{
		"empty":      {},
		"short":      []byte("Hello, World!"),
		"repetitive": bytes.Repeat([]byte("ABCDEFGHIJ"), 10000),
		"binary":     {0x00, 0xff, 0x10, 0x80, 0x7f, 0x00, 0x00, 0x01},
	}
}

// Compress writes data through c and returns the compressed bytes.
func Compress(t testing.TB, c compress.Compressor, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := c.Writer(&buf)
	if err != nil {
		t.Fatalf("Writer() error = %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return buf.Bytes()
}

// Decompress reads compressed through c. The reader is a bytes.Reader so
// archive codecs can seek.
func Decompress(t testing.TB, c compress.Compressor, compressed []byte) []byte {
	t.Helper()
	r, err := c.Reader(bytes.NewReader(compressed))
	if err != nil {
		t.Fatalf("Reader() error = %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return data
}

// RoundTrip checks that every payload survives compression and
// decompression, and that repetitive data actually shrinks.
func RoundTrip(t *testing.T, c compress.Compressor) {
	t.Helper()
	for name, original := range Payloads() {
		t.Run(name, func(t *testing.T) {
			compressed := Compress(t, c, original)
			if name == "repetitive" && len(compressed) >= len(original) {
				t.Errorf("expected compression, got %d bytes from %d bytes", len(compressed), len(original))
			}
			got := Decompress(t, c, compressed)
			if !bytes.Equal(got, original) {
				t.Errorf("round-trip mismatch: got %d bytes, want %d", len(got), len(original))
			}
		})
	}
}

// CloseTracker is a buffer that records Close calls.
type CloseTracker struct {
	bytes.Buffer
	Closed bool
}

// Close marks the tracker closed.
func (c *CloseTracker) Close() error {
	c.Closed = true
	return nil
}

// LeavesUnderlyingOpen checks that closing the codec's writer does not close
// the wrapped stream.
func LeavesUnderlyingOpen(t *testing.T, c compress.Compressor) {
	t.Helper()
	var dst CloseTracker
	w, err := c.Writer(&dst)
	if err != nil {
		t.Fatalf("Writer() error = %v", err)
	}
	if _, err := w.Write([]byte("data")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if dst.Closed {
		t.Error("closing the compressor closed the wrapped stream")
	}
}
