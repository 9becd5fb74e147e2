package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/discochess/picklejar"
	"github.com/discochess/picklejar/internal/config"
	"github.com/discochess/picklejar/internal/observability"
	statslogger "github.com/discochess/picklejar/internal/stats/logger"
)

var (
	// Global flags.
	configPath string
	verbose    bool

	// Set up by PersistentPreRunE.
	cfg    *config.Config
	logger = zap.NewNop()
	jar    *picklejar.Jar
)

var rootCmd = &cobra.Command{
	Use:   "picklejar",
	Short: "Inspect and convert pickled, compressed files",
	Long: `Picklejar reads and writes serialized values wrapped in a compression
layer chosen by name or inferred from the file extension.

Examples:
  # List the compression and pickler backends
  picklejar backends

  # Show which compression a path resolves to
  picklejar infer games.pkl.gz positions.zst

  # Re-compress a file from gzip to zstd
  picklejar convert games.gz games.zst

  # Convert a remote object into a local file
  picklejar convert s3://bucket/evals.bz2 evals.zst

  # Print a msgpack file as YAML
  picklejar cat --pickler msgpack record.msgpack.gz`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "path to a YAML config file (env: PICKLEJAR_CONFIG)")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	pf.String("log-format", "console", "log format: console or json")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.String("pickler", picklejar.DefaultPickler, "pickler backend")
	pf.String("compression", picklejar.CompressionInfer, "compression backend, infer or none")
	pf.Int("level", 0, "compression level (0 = backend default)")
	pf.String("unhandled-extension", string(picklejar.ExtensionRaise), "unknown extensions under inference: raise, ignore or warn")
	pf.String("s3-region", "", "AWS region for s3:// URLs")
	pf.String("s3-endpoint", "", "custom S3 endpoint for s3:// URLs")
}

func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}
	if verbose {
		c.Log.Level = "debug"
	}

	l, err := observability.SetupLogger(c.Log)
	if err != nil {
		return fmt.Errorf("setting up logger: %w", err)
	}

	j, err := picklejar.New(
		picklejar.WithDefaultPickler(c.Pickler),
		picklejar.WithDefaultCompression(c.Compression),
		picklejar.WithSetDefaultExtension(c.SetDefaultExtension),
		picklejar.WithUnhandledExtension(picklejar.ExtensionPolicy(c.UnhandledExtension)),
		picklejar.WithLogger(l),
		picklejar.WithStats(statslogger.New(l)),
	)
	if err != nil {
		return err
	}

	cfg, logger, jar = c, l, j
	return nil
}

func teardown(*cobra.Command, []string) error {
	// Sync fails on terminals; nothing useful to report.
	_ = logger.Sync()
	return nil
}

// callOpts prepends the configured level to extra.
func callOpts(extra ...picklejar.CallOption) []picklejar.CallOption {
	return append([]picklejar.CallOption{picklejar.WithLevel(cfg.Level)}, extra...)
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
