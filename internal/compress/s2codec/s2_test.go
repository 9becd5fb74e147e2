package s2codec

import (
	"testing"

	"github.com/discochess/picklejar/internal/compress"
	"github.com/discochess/picklejar/internal/compress/compresstest"
)

func TestCodec_RoundTrip(t *testing.T) {
	for _, level := range []int{0, 2, 3} {
		c, err := New(compress.Options{Level: level})
		if err != nil {
			t.Fatalf("New(level %d) error = %v", level, err)
		}
		compresstest.RoundTrip(t, c)
		compresstest.LeavesUnderlyingOpen(t, c)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(compress.Options{Level: 4}); err == nil {
		t.Error("New(level 4) expected error, got nil")
	}
}
