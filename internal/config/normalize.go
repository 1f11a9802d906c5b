package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeOrganize(); err != nil {
		return err
	}
	c.normalizeDiscovery()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeOrganize() error {
	var err error
	if c.Organize.InDir, err = expandPath(strings.TrimSpace(c.Organize.InDir)); err != nil {
		return fmt.Errorf("organize.in_dir: %w", err)
	}
	if c.Organize.OutDir, err = expandPath(strings.TrimSpace(c.Organize.OutDir)); err != nil {
		return fmt.Errorf("organize.out_dir: %w", err)
	}
	if c.Organize.ReportPath, err = expandPath(strings.TrimSpace(c.Organize.ReportPath)); err != nil {
		return fmt.Errorf("organize.report_path: %w", err)
	}
	c.Organize.Workers = ClampWorkers(c.Organize.Workers)
	return nil
}

func (c *Config) normalizeDiscovery() {
	c.Discovery.PartitionPattern = strings.TrimSpace(c.Discovery.PartitionPattern)
	if c.Discovery.PartitionPattern == "" {
		c.Discovery.PartitionPattern = defaultPartitionPattern
	}

	seen := make(map[string]struct{}, len(c.Discovery.Extensions))
	exts := make([]string, 0, len(c.Discovery.Extensions))
	for _, ext := range c.Discovery.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, dup := seen[ext]; dup {
			continue
		}
		seen[ext] = struct{}{}
		exts = append(exts, ext)
	}
	if len(exts) == 0 {
		exts = append(exts, defaultExtensions...)
	}
	c.Discovery.Extensions = exts
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// ClampWorkers bounds n to [MinWorkers, MaxWorkers]. Zero and negative
// values select the minimum.
func ClampWorkers(n int) int {
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}
