package zipcodec

import (
	"bufio"
	"bytes"
	"errors"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/discochess/picklejar/internal/compress"
	"github.com/discochess/picklejar/internal/compress/compresstest"
	"github.com/discochess/picklejar/internal/jarerr"
)

func TestCodec_RoundTrip(t *testing.T) {
	c, err := New(compress.Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	compresstest.RoundTrip(t, c)
	compresstest.LeavesUnderlyingOpen(t, c)
}

func TestCodec_MemberName(t *testing.T) {
	c, _ := New(compress.Options{ArchiveName: "model.pkl"})
	compressed := compresstest.Compress(t, c, []byte("payload"))

	zr, err := zip.NewReader(bytes.NewReader(compressed), int64(len(compressed)))
	if err != nil {
		t.Fatalf("zip.NewReader() error = %v", err)
	}
	if len(zr.File) != 1 || zr.File[0].Name != "model.pkl" {
		t.Fatalf("archive members = %v, want [model.pkl]", zr.File)
	}

	if got := compresstest.Decompress(t, c, compressed); string(got) != "payload" {
		t.Errorf("got %q, want payload", got)
	}

	// Without a name, the first regular member is read.
	anon, _ := New(compress.Options{})
	if got := compresstest.Decompress(t, anon, compressed); string(got) != "payload" {
		t.Errorf("got %q, want payload", got)
	}

	missing, _ := New(compress.Options{ArchiveName: "other"})
	if _, err := missing.Reader(bytes.NewReader(compressed)); err == nil {
		t.Error("Reader() expected error for missing member, got nil")
	}
}

func TestCodec_Level(t *testing.T) {
	c, err := New(compress.Options{Level: 9})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	data := bytes.Repeat([]byte("zip"), 5000)
	if got := compresstest.Decompress(t, c, compresstest.Compress(t, c, data)); !bytes.Equal(got, data) {
		t.Error("round-trip failed at level 9")
	}
	if _, err := New(compress.Options{Level: 11}); err == nil {
		t.Error("New(level 11) expected error, got nil")
	}
}

func TestCodec_Reader_NonSeekable(t *testing.T) {
	c, _ := New(compress.Options{})
	compressed := compresstest.Compress(t, c, []byte("payload"))

	_, err := c.Reader(bufio.NewReader(bytes.NewReader(compressed)))
	if !errors.Is(err, jarerr.ErrUnsupportedMode) {
		t.Errorf("Reader() error = %v, want ErrUnsupportedMode", err)
	}
}

func TestCodec_Reader_InvalidData(t *testing.T) {
	c, _ := New(compress.Options{})
	_, err := c.Reader(bytes.NewReader([]byte("not a zip archive")))
	if err == nil {
		t.Error("Reader() expected error for invalid data, got nil")
	}
}
