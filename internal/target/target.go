// Package target normalizes dump/load destinations into handles with an
// explicit ownership contract: paths are opened and closed by picklejar,
// streams belong to the caller and are never closed.
package target

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/discochess/picklejar/internal/jarerr"
)

// Mode is the direction of a call.
type Mode int

const (
	// Read loads from the target.
	Read Mode = iota
	// Write dumps to the target.
	Write
)

func (m Mode) String() string {
	switch m {
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

type kind uint8

const (
	kindInvalid kind = iota
	kindPath
	kindBytesPath
	kindStream
)

// Target is either an owned filesystem path or a borrowed stream.
// The zero Target is invalid.
type Target struct {
	kind   kind
	path   string
	raw    []byte
	stream any
}

// Path returns a target for a filesystem path.
func Path(p string) Target {
	return Target{kind: kindPath, path: p}
}

// PathBytes returns a target for a UTF-8 encoded filesystem path.
func PathBytes(p []byte) Target {
	return Target{kind: kindBytesPath, raw: append([]byte(nil), p...)}
}

// PathOf returns a target for the path built by joining elem.
func PathOf(elem ...string) Target {
	return Path(filepath.Join(elem...))
}

// Stream returns a target for an already-open stream. s must implement
// io.Reader to be loaded from and io.Writer to be dumped to. Picklejar never
// closes it.
func Stream(s any) Target {
	return Target{kind: kindStream, stream: s}
}

// From converts v into a Target: strings and byte slices are paths,
// []string is a structured path, readers and writers are streams.
func From(v any) (Target, error) {
	switch x := v.(type) {
	case Target:
		return x, nil
	case string:
		return Path(x), nil
	case []byte:
		return PathBytes(x), nil
	case []string:
		return PathOf(x...), nil
	case io.Reader, io.Writer:
		return Stream(x), nil
	case fmt.Stringer:
		return Path(x.String()), nil
	default:
		return Target{}, fmt.Errorf("%w: unsupported target type %T", jarerr.ErrInvalidTarget, v)
	}
}

// IsPath reports whether t names a filesystem path.
func (t Target) IsPath() bool {
	return t.kind == kindPath || t.kind == kindBytesPath
}

// PathString returns the path of a path target, decoding byte paths as UTF-8.
func (t Target) PathString() (string, error) {
	switch t.kind {
	case kindPath:
		if t.path == "" {
			return "", fmt.Errorf("%w: empty path", jarerr.ErrInvalidTarget)
		}
		return t.path, nil
	case kindBytesPath:
		if len(t.raw) == 0 {
			return "", fmt.Errorf("%w: empty path", jarerr.ErrInvalidTarget)
		}
		if !utf8.Valid(t.raw) {
			return "", fmt.Errorf("%w: path is not valid UTF-8", jarerr.ErrInvalidTarget)
		}
		return string(t.raw), nil
	default:
		return "", fmt.Errorf("%w: not a path target", jarerr.ErrInvalidTarget)
	}
}

func (t Target) String() string {
	switch t.kind {
	case kindPath:
		return t.path
	case kindBytesPath:
		return string(t.raw)
	case kindStream:
		return fmt.Sprintf("stream(%T)", t.stream)
	default:
		return "invalid target"
	}
}

// Handle is a normalized target. For owned paths it holds the open file
// between Open and Close.
type Handle struct {
	mode   Mode
	path   string
	owned  bool
	stream any
	file   *os.File
	closed bool
}

// Normalize validates t for mode without opening anything. Path targets are
// canonicalized and must end in a file name; stream targets must support
// mode or ErrMode is returned. Files passed as streams are checked against
// the access mode they were opened with.
func Normalize(t Target, mode Mode) (*Handle, error) {
	if mode != Read && mode != Write {
		return nil, fmt.Errorf("%w: %v", jarerr.ErrMode, mode)
	}
	if t.IsPath() {
		p, err := t.PathString()
		if err != nil {
			return nil, err
		}
		if !hasName(p) {
			return nil, fmt.Errorf("%w: %q does not name a file", jarerr.ErrInvalidTarget, p)
		}
		return &Handle{mode: mode, path: filepath.Clean(p), owned: true}, nil
	}
	if t.kind != kindStream || t.stream == nil {
		return nil, fmt.Errorf("%w: %v", jarerr.ErrInvalidTarget, t)
	}

	switch mode {
	case Read:
		if _, ok := t.stream.(io.Reader); !ok {
			return nil, fmt.Errorf("%w: %T is not readable", jarerr.ErrMode, t.stream)
		}
	case Write:
		if _, ok := t.stream.(io.Writer); !ok {
			return nil, fmt.Errorf("%w: %T is not writable", jarerr.ErrMode, t.stream)
		}
	}
	// *os.File implements both directions whatever it was opened for.
	if f, ok := t.stream.(*os.File); ok {
		if read, write, known := fileAccess(f); known {
			if mode == Read && !read {
				return nil, fmt.Errorf("%w: %s is opened write-only", jarerr.ErrMode, f.Name())
			}
			if mode == Write && !write {
				return nil, fmt.Errorf("%w: %s is opened read-only", jarerr.ErrMode, f.Name())
			}
		}
	}
	return &Handle{mode: mode, stream: t.stream}, nil
}

// hasName reports whether the final element of p names a file rather than
// a directory or nothing.
func hasName(p string) bool {
	if p == "" || os.IsPathSeparator(p[len(p)-1]) {
		return false
	}
	base := filepath.Base(p)
	return strings.Trim(base, ".") != "" && base != string(filepath.Separator)
}

// Mode returns the direction the handle was normalized for.
func (h *Handle) Mode() Mode { return h.mode }

// Owned reports whether picklejar owns the underlying resource.
func (h *Handle) Owned() bool { return h.owned }

// Path returns the canonical path, or "" for streams.
func (h *Handle) Path() string { return h.path }

// Open opens the file behind an owned handle. It is a no-op for streams.
func (h *Handle) Open() error {
	if !h.owned {
		return nil
	}
	if h.closed {
		return fmt.Errorf("opening %s: handle already closed", h.path)
	}
	if h.file != nil {
		return nil
	}
	var (
		f   *os.File
		err error
	)
	if h.mode == Write {
		f, err = os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	} else {
		f, err = os.Open(h.path)
	}
	if err != nil {
		return err
	}
	h.file = f
	return nil
}

// Reader returns the stream to read from. Valid after Open in Read mode.
func (h *Handle) Reader() io.Reader {
	if h.owned {
		return h.file
	}
	return h.stream.(io.Reader)
}

// Writer returns the stream to write to. Valid after Open in Write mode.
func (h *Handle) Writer() io.Writer {
	if h.owned {
		return h.file
	}
	return h.stream.(io.Writer)
}

// RandomAccess reports whether the read side supports io.ReaderAt and
// io.Seeker. Owned files always do.
func (h *Handle) RandomAccess() bool {
	if h.owned {
		return true
	}
	_, ra := h.stream.(io.ReaderAt)
	_, sk := h.stream.(io.Seeker)
	return ra && sk
}

// Close releases an owned file exactly once. Streams are left open.
func (h *Handle) Close() error {
	if !h.owned || h.closed {
		return nil
	}
	h.closed = true
	if h.file == nil {
		return nil
	}
	return h.file.Close()
}
