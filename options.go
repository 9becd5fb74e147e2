package picklejar

import (
	"go.uber.org/zap"

	"github.com/discochess/picklejar/internal/compress"
	"github.com/discochess/picklejar/internal/compress/builtin"
	"github.com/discochess/picklejar/internal/pickler"
	"github.com/discochess/picklejar/internal/stats"
)

// Option configures a Jar.
type Option interface {
	apply(*options)
}

// options holds the jar configuration.
type options struct {
	compressions       *compress.Registry
	picklers           *pickler.Registry
	defaultPickler     string
	defaultCompression string
	setDefaultExt      bool
	unhandledExt       ExtensionPolicy
	stats              stats.Collector
	logger             *zap.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		defaultPickler:     DefaultPickler,
		defaultCompression: CompressionInfer,
		setDefaultExt:      true,
		unhandledExt:       ExtensionRaise,
		stats:              stats.NewNoop(),
		logger:             zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithCompressionRegistry sets the compression backend table.
// If not set, a fresh registry with every shipped backend is used.
func WithCompressionRegistry(r *compress.Registry) Option {
	return optionFunc(func(o *options) {
		o.compressions = r
	})
}

// WithPicklerRegistry sets the pickler backend table.
// If not set, a fresh registry with every shipped pickler is used.
func WithPicklerRegistry(r *pickler.Registry) Option {
	return optionFunc(func(o *options) {
		o.picklers = r
	})
}

// WithDefaultPickler sets the pickler used when a call does not name one.
// Default is "gob".
func WithDefaultPickler(name string) Option {
	return optionFunc(func(o *options) {
		o.defaultPickler = name
	})
}

// WithDefaultCompression sets the compression used when a call does not
// name one. Default is "infer".
func WithDefaultCompression(name string) Option {
	return optionFunc(func(o *options) {
		o.defaultCompression = name
	})
}

// WithSetDefaultExtension sets whether Dump appends the canonical extension
// of the chosen compression to path targets. Default is true.
func WithSetDefaultExtension(on bool) Option {
	return optionFunc(func(o *options) {
		o.setDefaultExt = on
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

func (o *options) fill() {
	if o.compressions == nil {
		o.compressions = builtin.NewRegistry()
	}
	if o.picklers == nil {
		o.picklers = pickler.NewRegistry()
	}
	if o.stats == nil {
		o.stats = stats.NewNoop()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
}
