package picklejar

import (
	"path/filepath"
	"strings"

	"github.com/discochess/picklejar/internal/compress"
	"github.com/discochess/picklejar/internal/target"
)

// CallOption configures a single Dump or Load call.
type CallOption interface {
	applyCall(*callOptions)
}

type callOptions struct {
	compression   string
	pickler       string
	setDefaultExt bool
	unhandledExt  ExtensionPolicy
	level         int
	archiveName   string
}

type callOptionFunc func(*callOptions)

// Compile-time check that callOptionFunc implements CallOption.
var _ CallOption = callOptionFunc(nil)

func (f callOptionFunc) applyCall(o *callOptions) { f(o) }

// WithCompression selects the compression backend by name, or one of
// CompressionInfer and CompressionNone.
func WithCompression(name string) CallOption {
	return callOptionFunc(func(o *callOptions) {
		o.compression = name
	})
}

// WithPickler selects the pickler backend by name.
func WithPickler(name string) CallOption {
	return callOptionFunc(func(o *callOptions) {
		o.pickler = name
	})
}

// WithDefaultExtension overrides the jar's set-default-extension setting
// for one call.
func WithDefaultExtension(on bool) CallOption {
	return callOptionFunc(func(o *callOptions) {
		o.setDefaultExt = on
	})
}

// WithLevel sets the compression level. Zero selects the backend default.
func WithLevel(level int) CallOption {
	return callOptionFunc(func(o *callOptions) {
		o.level = level
	})
}

// WithArchiveName names the member of archive formats. On write it
// defaults to the target file name without its ".zip" suffix. On read the
// first regular member is used when no name is given.
func WithArchiveName(name string) CallOption {
	return callOptionFunc(func(o *callOptions) {
		o.archiveName = name
	})
}

func (j *Jar) callOptions(opts []CallOption) callOptions {
	co := callOptions{
		compression:   j.defaultCompression,
		pickler:       j.defaultPickler,
		setDefaultExt: j.setDefaultExt,
		unhandledExt:  j.unhandledExt,
	}
	for _, opt := range opts {
		opt.applyCall(&co)
	}
	return co
}

// compressOptions derives the codec options for a call on h.
func (co callOptions) compressOptions(h *target.Handle) compress.Options {
	opts := compress.Options{Level: co.level, ArchiveName: co.archiveName}
	if opts.ArchiveName == "" && h.Mode() == target.Write && h.Owned() {
		name := filepath.Base(h.Path())
		if strings.HasSuffix(strings.ToLower(name), ".zip") {
			name = name[:len(name)-len(".zip")]
		}
		opts.ArchiveName = name
	}
	return opts
}
