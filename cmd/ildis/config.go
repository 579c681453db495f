package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the ildis.toml configuration.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Scan   ScanConfig   `toml:"scan"`
	Output OutputConfig `toml:"output"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// ScanConfig configures usage scanning.
type ScanConfig struct {
	Parallelism int  `toml:"parallelism"`
	FailFast    bool `toml:"fail-fast"`
}

// OutputConfig configures command output.
type OutputConfig struct {
	Format string `toml:"format"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Log:    LogConfig{Level: "warn"},
		Scan:   ScanConfig{Parallelism: 4},
		Output: OutputConfig{Format: "text"},
	}
}

// LoadConfig reads a TOML file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	}
	return cfg, cfg.Validate()
}

// Validate checks the values a file or flags may have set.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Scan.Parallelism < 1 {
		return fmt.Errorf("scan.parallelism must be at least 1, got %d", c.Scan.Parallelism)
	}
	if !isValidFormat(c.Output.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", c.Output.Format, validFormats)
	}
	return nil
}

// NewLogger builds the logger described by the log section. verbose forces
// the debug level.
func (c LogConfig) NewLogger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
