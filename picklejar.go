// Package picklejar dumps Go values to files and streams and loads them
// back, layering a pluggable serialization backend (a pickler) on top of a
// pluggable compression backend. The compression is named explicitly or
// inferred from the file extension of the target.
//
// Example usage:
//
//	jar, err := picklejar.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Written as gzip-compressed gob, inferred from ".gz".
//	if err := jar.Dump(record, picklejar.Path("record.gz")); err != nil {
//	    log.Fatal(err)
//	}
//
//	var out Record
//	if err := jar.Load(picklejar.Path("record.gz"), &out); err != nil {
//	    log.Fatal(err)
//	}
package picklejar

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/picklejar/internal/backend"
	"github.com/discochess/picklejar/internal/compress"
	"github.com/discochess/picklejar/internal/compress/builtin"
	"github.com/discochess/picklejar/internal/extension"
	"github.com/discochess/picklejar/internal/pickler"
	"github.com/discochess/picklejar/internal/stats"
	"github.com/discochess/picklejar/internal/target"
)

// Reserved compression names and the default pickler.
const (
	// CompressionInfer derives the compression from the target's extension.
	CompressionInfer = "infer"
	// CompressionNone writes the pickled bytes unchanged.
	CompressionNone = builtin.None
	// DefaultPickler is the pickler used when none is configured.
	DefaultPickler = pickler.Gob
)

// BackendInfo is a diagnostic snapshot of one registered backend.
type BackendInfo = backend.Entry

// Formats is the outcome of resolving the backends of a call.
type Formats struct {
	// Compression is the canonical name of the compression backend.
	Compression string
	// Pickler is the canonical name of the pickler backend.
	Pickler string
	// Extension is the canonical extension of the compression backend.
	Extension string
	// Inferred is set when the compression came from the target's extension.
	Inferred bool
	// Path is the file a Dump with the same options writes, after any
	// default extension is applied. It is empty for stream targets.
	Path string
}

// Jar dumps and loads values through its backend registries.
// A Jar is safe for concurrent use by multiple goroutines. Concurrent calls
// on the same path are not coordinated.
type Jar struct {
	compressions       *compress.Registry
	picklers           *pickler.Registry
	defaultPickler     string
	defaultCompression string
	setDefaultExt      bool
	unhandledExt       ExtensionPolicy
	stats              stats.Collector
	logger             *zap.Logger
	inflight           atomic.Int64
}

// New creates a new Jar with the given options.
// If no options are provided, the shipped backends are used with gob as
// the pickler and compression inferred from the path.
func New(opts ...Option) (*Jar, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	cfg.fill()

	j := &Jar{
		compressions:       cfg.compressions,
		picklers:           cfg.picklers,
		defaultPickler:     cfg.defaultPickler,
		defaultCompression: cfg.defaultCompression,
		setDefaultExt:      cfg.setDefaultExt,
		unhandledExt:       cfg.unhandledExt,
		stats:              cfg.stats,
		logger:             cfg.logger,
	}

	if _, err := j.picklers.Lookup(j.defaultPickler); err != nil {
		return nil, fmt.Errorf("default pickler: %w", err)
	}
	if j.defaultCompression != CompressionInfer && j.defaultCompression != CompressionNone {
		if _, err := j.compressions.Lookup(j.defaultCompression); err != nil {
			return nil, fmt.Errorf("default compression: %w", err)
		}
	}

	if err := j.unhandledExt.validate(); err != nil {
		return nil, err
	}

	j.logger.Debug("jar initialized",
		zap.String("defaultPickler", j.defaultPickler),
		zap.String("defaultCompression", j.defaultCompression),
		zap.Bool("setDefaultExtension", j.setDefaultExt),
		zap.String("unhandledExtension", string(j.unhandledExt)),
		zap.Strings("compressions", j.compressions.Names()),
		zap.Strings("picklers", j.picklers.Names()),
	)

	return j, nil
}

var defaultJar = sync.OnceValue(func() *Jar {
	j, err := New()
	if err != nil {
		panic(err)
	}
	return j
})

// Default returns a process-wide Jar with the default configuration.
func Default() *Jar {
	return defaultJar()
}

// Dump writes v to t using the default Jar.
func Dump(v any, t Target, opts ...CallOption) error {
	return Default().Dump(v, t, opts...)
}

// Load reads t into v using the default Jar.
func Load(t Target, v any, opts ...CallOption) error {
	return Default().Load(t, v, opts...)
}

// CompressionRegistry returns the compression backend table. Toggling
// availability on it affects later calls.
func (j *Jar) CompressionRegistry() *compress.Registry {
	return j.compressions
}

// PicklerRegistry returns the pickler backend table.
func (j *Jar) PicklerRegistry() *pickler.Registry {
	return j.picklers
}

// Compressions lists the compression backends in registration order.
func (j *Jar) Compressions() []BackendInfo {
	return j.compressions.Entries()
}

// Picklers lists the pickler backends in registration order.
func (j *Jar) Picklers() []BackendInfo {
	return j.picklers.Entries()
}

// Resolve reports which backends a call on t with opts would use, without
// touching t.
func (j *Jar) Resolve(t Target, opts ...CallOption) (Formats, error) {
	co := j.callOptions(opts)
	r, err := j.resolve(t, co)
	if err != nil {
		return Formats{}, err
	}
	f := r.formats()
	if t.IsPath() {
		wt, err := j.writeTarget(t, r, co)
		if err != nil {
			return Formats{}, err
		}
		f.Path = wt.String()
	}
	return f, nil
}

// writeTarget applies the default extension to path targets when the
// compression was chosen rather than inferred.
func (j *Jar) writeTarget(t Target, r resolved, co callOptions) (Target, error) {
	if !co.setDefaultExt || !t.IsPath() || r.inferred {
		return t, nil
	}
	p, err := t.PathString()
	if err != nil {
		return t, err
	}
	return target.Path(extension.Apply(p, r.compression)), nil
}

// resolved holds the backends chosen for one call.
type resolved struct {
	compression *compress.Backend
	pickler     *pickler.Backend
	inferred    bool
}

func (r resolved) formats() Formats {
	return Formats{
		Compression: r.compression.Name,
		Pickler:     r.pickler.Name,
		Extension:   extension.Default(r.compression),
		Inferred:    r.inferred,
	}
}

func (r resolved) labels(op string) stats.Labels {
	l := stats.Labels{Op: op}
	if r.compression != nil {
		l.Compression = r.compression.Name
	}
	if r.pickler != nil {
		l.Pickler = r.pickler.Name
	}
	return l
}

func (j *Jar) resolve(t Target, co callOptions) (resolved, error) {
	var r resolved

	pb, err := j.picklers.Resolve(co.pickler)
	if err != nil {
		return r, fmt.Errorf("resolving pickler: %w", err)
	}
	r.pickler = pb

	switch co.compression {
	case CompressionInfer:
		if !t.IsPath() {
			return r, fmt.Errorf("%w: %v has no file extension", ErrInference, t)
		}
		p, err := t.PathString()
		if err != nil {
			return r, err
		}
		cb, err := extension.Infer(j.compressions, p)
		if err != nil {
			ext := extension.Of(p)
			if ext == "" || co.unhandledExt == ExtensionRaise {
				return r, err
			}
			if err := co.unhandledExt.validate(); err != nil {
				return r, err
			}
			if co.unhandledExt == ExtensionWarn {
				j.logger.Warn("unhandled extension, using no compression",
					zap.String("path", p),
					zap.String("extension", ext),
				)
			}
			r.compression, r.inferred = j.noneBackend(), true
			return r, nil
		}
		// Inference may land on a backend that is currently unusable.
		if cb, err = j.compressions.Resolve(cb.Name); err != nil {
			return r, fmt.Errorf("resolving compression: %w", err)
		}
		r.compression, r.inferred = cb, true
	case CompressionNone:
		r.compression = j.noneBackend()
	default:
		cb, err := j.compressions.Resolve(co.compression)
		if err != nil {
			return r, fmt.Errorf("resolving compression: %w", err)
		}
		r.compression = cb
	}
	return r, nil
}

// noneBackend returns the registered passthrough, or the built-in one when
// the registry lacks a usable "none".
func (j *Jar) noneBackend() *compress.Backend {
	cb, err := j.compressions.Resolve(CompressionNone)
	if err != nil {
		return builtin.NoneBackend
	}
	return cb
}

// instantiate builds the pickler and compressor before any resource opens.
func (j *Jar) instantiate(r resolved, copts compress.Options) (pickler.Pickler, compress.Compressor, error) {
	p, err := r.pickler.New()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: pickler %q: %v", ErrBackendUnavailable, r.pickler.Name, err)
	}
	c, err := r.compression.New(copts)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s compressor: %w", r.compression.Name, err)
	}
	return p, c, nil
}

// closeInto runs closeFn and merges its error into *errp. The first error
// wins; later ones are kept as suppressed errors and logged.
func (j *Jar) closeInto(errp *error, what string, closeFn func() error) {
	cerr := closeFn()
	if cerr == nil {
		return
	}
	cerr = fmt.Errorf("%s: %w", what, cerr)
	if *errp == nil {
		*errp = cerr
		return
	}
	j.logger.Warn("suppressed error while closing",
		zap.Error(cerr),
		zap.NamedError("cause", *errp),
	)
	*errp = withSuppressed(*errp, cerr)
}

// begin marks a call in flight and returns the function that records its
// outcome.
func (j *Jar) begin(op string) func(r resolved, path string, n int64, err error) {
	start := time.Now()
	j.stats.SetGauge(stats.MetricInflight, j.inflight.Add(1), stats.Labels{})

	return func(r resolved, path string, n int64, err error) {
		elapsed := time.Since(start)
		j.stats.SetGauge(stats.MetricInflight, j.inflight.Add(-1), stats.Labels{})

		labels := r.labels(op)
		j.stats.IncCounter(stats.MetricCalls, 1, labels)
		j.stats.ObserveHistogram(stats.MetricDuration, elapsed.Seconds(), labels)
		if n > 0 {
			j.stats.IncCounter(stats.MetricBytes, n, labels)
		}

		fields := []zap.Field{
			zap.String("op", op),
			zap.String("compression", labels.Compression),
			zap.String("pickler", labels.Pickler),
			zap.String("path", path),
			zap.Int64("bytes", n),
			zap.Duration("duration", elapsed),
		}
		if err != nil {
			j.stats.IncCounter(stats.MetricFailures, 1, labels)
			j.logger.Debug("call failed", append(fields, zap.Error(err))...)
			return
		}
		j.logger.Debug("call completed", fields...)
	}
}
