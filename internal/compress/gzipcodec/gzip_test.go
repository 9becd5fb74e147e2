package gzipcodec

import (
	"bytes"
	"testing"

	"github.com/discochess/picklejar/internal/compress"
	"github.com/discochess/picklejar/internal/compress/compresstest"
)

func TestCodec_RoundTrip(t *testing.T) {
	c, err := New(compress.Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	compresstest.RoundTrip(t, c)
	compresstest.LeavesUnderlyingOpen(t, c)
}

func TestCodec_Levels(t *testing.T) {
	data := bytes.Repeat([]byte("gzip level test "), 1000)
	for _, level := range []int{1, 5, 9} {
		c, err := New(compress.Options{Level: level})
		if err != nil {
			t.Fatalf("New(level %d) error = %v", level, err)
		}
		got := compresstest.Decompress(t, c, compresstest.Compress(t, c, data))
		if !bytes.Equal(got, data) {
			t.Errorf("level %d: round-trip failed", level)
		}
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(compress.Options{Level: 42}); err == nil {
		t.Error("New() expected error for level 42, got nil")
	}
}

func TestCodec_Reader_InvalidData(t *testing.T) {
	c, _ := New(compress.Options{})
	if _, err := c.Reader(bytes.NewReader([]byte("not gzip data"))); err == nil {
		t.Error("Reader() expected error for invalid gzip data, got nil")
	}
}
