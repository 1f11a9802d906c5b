package config

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrMissingDirectory reports a required directory that was not supplied by
// either the config file or the command line.
var ErrMissingDirectory = errors.New("required directory not set")

// Validate ensures the configuration is usable. Missing in/out directories
// are not checked here; see RequireDirectories.
func (c *Config) Validate() error {
	re, err := regexp.Compile(c.Discovery.PartitionPattern)
	if err != nil {
		return fmt.Errorf("discovery.partition_pattern: %w", err)
	}
	c.partitions = re

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// RequireDirectories checks that both the input and output roots are set.
func (c *Config) RequireDirectories() error {
	if c.Organize.InDir == "" {
		return fmt.Errorf("--inDir: %w", ErrMissingDirectory)
	}
	if c.Organize.OutDir == "" {
		return fmt.Errorf("--outDir: %w", ErrMissingDirectory)
	}
	if c.Organize.InDir == c.Organize.OutDir {
		return fmt.Errorf("--outDir must differ from --inDir (%s)", c.Organize.InDir)
	}
	return nil
}
