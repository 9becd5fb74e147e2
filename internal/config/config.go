// Package config loads the picklejar CLI configuration from flags,
// PICKLEJAR_* environment variables and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the root CLI configuration.
type Config struct {
	// Pickler is the pickler used when a command does not name one.
	Pickler string `mapstructure:"pickler"`
	// Compression is the default compression: a backend name, "infer" or "none".
	Compression string `mapstructure:"compression"`
	// Level is the compression level; 0 selects the backend default.
	Level int `mapstructure:"level"`
	// Workers bounds parallel conversions.
	Workers int `mapstructure:"workers"`
	// SetDefaultExtension appends canonical extensions to written paths.
	SetDefaultExtension bool `mapstructure:"set_default_extension"`
	// UnhandledExtension is raise, ignore or warn for extensions no
	// compression claims.
	UnhandledExtension string `mapstructure:"unhandled_extension"`

	Log LogConfig `mapstructure:"log"`
	S3  S3Config  `mapstructure:"s3"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
	// Outputs: stdout, stderr, or file paths
	Outputs []string `mapstructure:"outputs"`

	Rotation    RotationConfig `mapstructure:"rotation"`
	Development bool           `mapstructure:"development"`
}

// RotationConfig controls log file rotation for file outputs.
type RotationConfig struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// S3Config overrides the AWS defaults for s3:// URLs.
type S3Config struct {
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Pickler:             "gob",
		Compression:         "infer",
		Workers:             4,
		SetDefaultExtension: true,
		UnhandledExtension:  "raise",
		Log: LogConfig{
			Level:   "warn",
			Format:  "console",
			Outputs: []string{"stderr"},
			Rotation: RotationConfig{
				Filename:   "logs/picklejar.log",
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
	}
}

// FlagKeys maps CLI flag names to configuration keys.
var FlagKeys = map[string]string{
	"pickler":             "pickler",
	"compression":         "compression",
	"level":               "level",
	"workers":             "workers",
	"unhandled-extension": "unhandled_extension",
	"log-level":           "log.level",
	"log-format":          "log.format",
	"s3-region":           "s3.region",
	"s3-endpoint":         "s3.endpoint",
}

// Load reads configuration from path (if non-empty, or from the
// PICKLEJAR_CONFIG environment variable), then applies environment
// overrides and finally any flag in flags that was set explicitly.
// Environment variables use the prefix PICKLEJAR and `.`/`-` become `_`.
// Example: PICKLEJAR_LOG_LEVEL=debug
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PICKLEJAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// seed defaults for viper so env-only configs work
	v.SetDefault("pickler", cfg.Pickler)
	v.SetDefault("compression", cfg.Compression)
	v.SetDefault("level", cfg.Level)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("set_default_extension", cfg.SetDefaultExtension)
	v.SetDefault("unhandled_extension", cfg.UnhandledExtension)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.outputs", cfg.Log.Outputs)
	v.SetDefault("log.development", cfg.Log.Development)
	v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
	v.SetDefault("log.rotation.filename", cfg.Log.Rotation.Filename)
	v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)
	v.SetDefault("s3.region", cfg.S3.Region)
	v.SetDefault("s3.endpoint", cfg.S3.Endpoint)

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	if path == "" {
		path = os.Getenv("PICKLEJAR_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "":
		c.Log.Format = "console"
	case "console", "json":
	default:
		return fmt.Errorf("invalid log.format: %q", c.Log.Format)
	}
	if len(c.Log.Outputs) == 0 {
		c.Log.Outputs = []string{"stderr"}
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid workers: %d", c.Workers)
	}
	if c.Pickler == "" {
		return errors.New("pickler must not be empty")
	}
	c.UnhandledExtension = strings.ToLower(strings.TrimSpace(c.UnhandledExtension))
	switch c.UnhandledExtension {
	case "":
		c.UnhandledExtension = "raise"
	case "raise", "ignore", "warn":
	default:
		return fmt.Errorf("invalid unhandled_extension: %q", c.UnhandledExtension)
	}
	if c.Compression == "" {
		c.Compression = "infer"
	}
	return nil
}
