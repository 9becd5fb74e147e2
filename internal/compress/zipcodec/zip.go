// Package zipcodec provides a single-member zip archive codec.
package zipcodec

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"github.com/discochess/picklejar/internal/compress"
	"github.com/discochess/picklejar/internal/jarerr"
)

// DefaultMember is the member name used when none is given.
const DefaultMember = "default"

// Compile-time check that Codec implements compress.Compressor.
var _ compress.Compressor = (*Codec)(nil)

// RandomAccess is what the zip reader needs from its input: the central
// directory sits at the end of the archive.
type RandomAccess interface {
	io.ReaderAt
	io.Seeker
}

// Codec reads and writes a zip archive holding one member.
type Codec struct {
	member string
	level  int
}

// New returns a zip codec. opts.ArchiveName names the member written, and
// selects the member read; when empty, DefaultMember is written and the
// first regular file is read. A non-zero level sets the deflate level.
func New(opts compress.Options) (*Codec, error) {
	if opts.Level != 0 && (opts.Level < flate.HuffmanOnly || opts.Level > flate.BestCompression) {
		return nil, fmt.Errorf("zip: invalid compression level %d", opts.Level)
	}
	return &Codec{member: opts.ArchiveName, level: opts.Level}, nil
}

// Reader opens the selected member of the archive held in r. r must
// implement RandomAccess, otherwise ErrUnsupportedMode is returned.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	ra, ok := r.(RandomAccess)
	if !ok {
		return nil, fmt.Errorf("%w: zip archives cannot be read from a non-seekable stream", jarerr.ErrUnsupportedMode)
	}
	size, err := ra.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("sizing archive: %w", err)
	}
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, err
	}

	for _, f := range zr.File {
		if c.member == "" && !f.Mode().IsRegular() {
			continue
		}
		if c.member == "" || f.Name == c.member {
			return f.Open()
		}
	}
	if c.member == "" {
		return nil, fmt.Errorf("zip: archive has no regular file")
	}
	return nil, fmt.Errorf("zip: archive has no member %q", c.member)
}

// Writer starts an archive on w with a single member.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	zw := zip.NewWriter(w)
	if c.level != 0 {
		level := c.level
		zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(out, level)
		})
	}
	name := c.member
	if name == "" {
		name = DefaultMember
	}
	mw, err := zw.Create(name)
	if err != nil {
		return nil, err
	}
	return &archiveWriter{zw: zw, member: mw}, nil
}

// archiveWriter writes into the open member and finishes the archive on Close.
type archiveWriter struct {
	zw     *zip.Writer
	member io.Writer
}

func (a *archiveWriter) Write(p []byte) (int, error) {
	return a.member.Write(p)
}

// Close writes the central directory. The underlying writer stays open.
func (a *archiveWriter) Close() error {
	return a.zw.Close()
}
