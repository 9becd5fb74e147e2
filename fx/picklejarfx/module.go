// Package picklejarfx provides an fx module for a picklejar Jar.
package picklejarfx

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/picklejar"
	"github.com/discochess/picklejar/internal/stats"
	"github.com/discochess/picklejar/internal/stats/logger"
	promstats "github.com/discochess/picklejar/internal/stats/prometheus"
)

// Config holds the jar defaults. The zero Config keeps the library
// defaults.
type Config struct {
	// Pickler is the default pickler. Empty means gob.
	Pickler string

	// Compression is the default compression: a backend name, "infer" or
	// "none". Empty means infer.
	Compression string

	// DisableDefaultExtension stops Dump from appending the canonical
	// extension to paths whose compression was chosen explicitly.
	DisableDefaultExtension bool

	// UnhandledExtension is the inference policy for unknown extensions.
	// Empty means raise.
	UnhandledExtension picklejar.ExtensionPolicy
}

// Module provides a *picklejar.Jar.
// Requires a *zap.Logger. Metrics go to Prometheus when a
// prometheus.Registerer is provided, otherwise to the logger.
var Module = fx.Module("picklejar",
	fx.Provide(
		newStatsCollector,
		newJar,
	),
)

// StatsParams holds dependencies for the stats collector.
type StatsParams struct {
	fx.In

	Logger     *zap.Logger
	Registerer prometheus.Registerer `optional:"true"`
}

func newStatsCollector(p StatsParams) stats.Collector {
	if p.Registerer != nil {
		return promstats.New(p.Registerer)
	}
	return logger.New(p.Logger.Named("picklejar.stats"))
}

// Params holds dependencies for creating the jar.
type Params struct {
	fx.In

	Config    Config `optional:"true"`
	Logger    *zap.Logger
	Collector stats.Collector
}

// Result holds the provided jar.
type Result struct {
	fx.Out

	Jar *picklejar.Jar
}

func newJar(p Params) (Result, error) {
	opts := []picklejar.Option{
		picklejar.WithStats(p.Collector),
		picklejar.WithLogger(p.Logger.Named("picklejar")),
		picklejar.WithSetDefaultExtension(!p.Config.DisableDefaultExtension),
	}
	if p.Config.Pickler != "" {
		opts = append(opts, picklejar.WithDefaultPickler(p.Config.Pickler))
	}
	if p.Config.Compression != "" {
		opts = append(opts, picklejar.WithDefaultCompression(p.Config.Compression))
	}

	if p.Config.UnhandledExtension != "" {
		opts = append(opts, picklejar.WithUnhandledExtension(p.Config.UnhandledExtension))
	}

	jar, err := picklejar.New(opts...)
	if err != nil {
		return Result{}, err
	}
	return Result{Jar: jar}, nil
}
