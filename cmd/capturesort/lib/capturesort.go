// Package capturesort runs one organize pass: preflight, discovery, the copy
// pool and the closing summary.
package capturesort

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/user/capturesort/internal/config"
	"github.com/user/capturesort/internal/logging"
	"github.com/user/capturesort/internal/preflight"
	"github.com/user/capturesort/internal/runlock"
	"github.com/user/capturesort/pkg"
)

// Run organizes cfg.Organize.InDir into cfg.Organize.OutDir. The log stream
// goes to stdout; recovered job panics go to stderr. A missing or empty input
// tree is reported and returns a zero summary without error.
func Run(cfg *config.Config, stdout, stderr io.Writer) (pkg.Summary, error) {
	runID := uuid.NewString()
	org := cfg.Organize

	logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: stdout})
	if err != nil {
		return pkg.Summary{}, err
	}
	errLogger, err := logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: stderr})
	if err != nil {
		return pkg.Summary{}, err
	}

	logger.Info("starting",
		"run_id", runID,
		"in_dir", org.InDir,
		"out_dir", org.OutDir,
		"workers", org.Workers,
		"dry_run", org.DryRun,
	)

	if err := preflight.CheckInput(org.InDir); err != nil {
		logger.Warn("input directory unavailable, nothing to do", "error", err)
		return pkg.Summary{RunID: runID, DryRun: org.DryRun}, nil
	}
	if !org.DryRun {
		if err := preflight.CheckOutput(org.OutDir); err != nil {
			return pkg.Summary{}, err
		}
		lock, err := runlock.Acquire(org.OutDir)
		if err != nil {
			return pkg.Summary{}, err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("failed to release run lock", "error", err)
			}
		}()
		logger.Debug("run lock acquired", "lock", lock.Path())
	}

	jobs, err := pkg.DiscoverJobs(org.InDir, pkg.DiscoveryOptions{
		Partitions: cfg.Partitions(),
		Extensions: pkg.NewExtensionSet(cfg.Discovery.Extensions...),
		Logger:     logger,
	})
	if err != nil {
		if errors.Is(err, pkg.ErrSourceNotFound) || errors.Is(err, pkg.ErrSourceNotDir) {
			logger.Warn("input directory unavailable, nothing to do", "error", err)
			return pkg.Summary{RunID: runID, DryRun: org.DryRun}, nil
		}
		return pkg.Summary{}, fmt.Errorf("discover jobs: %w", err)
	}
	if len(jobs) == 0 {
		logger.Info("no matching image files found", "in_dir", org.InDir, "partition_pattern", cfg.Discovery.PartitionPattern)
		return pkg.Summary{RunID: runID, DryRun: org.DryRun}, nil
	}

	totalBytes := pkg.TotalSize(jobs)
	logger.Info("discovered images", "count", len(jobs), "bytes", totalBytes)
	if !org.DryRun {
		if r := preflight.CheckCapacity(org.OutDir, totalBytes); !r.Passed {
			logger.Warn("output filesystem may run out of space", "detail", r.Detail)
		}
	}

	executor := pkg.NewExecutor(pkg.NewResolver(), pkg.NewNamer(org.OutDir, org.DryRun), pkg.ExecutorOptions{
		Workers:     org.Workers,
		DryRun:      org.DryRun,
		Verify:      org.Verify,
		Logger:      logger,
		ErrorLogger: errLogger,
	})
	result := executor.Run(jobs)

	logger.Info("done",
		"total_time_spent", pkg.FormatElapsed(result.Elapsed),
		"copied", result.Count(pkg.StatusCopied),
		"planned", result.Count(pkg.StatusPlanned),
		"skipped", result.Count(pkg.StatusSkipped),
		"failed", result.Count(pkg.StatusFailed),
	)

	summary := pkg.Summarize(runID, result)
	if cfg.Logging.Format != "json" {
		fmt.Fprint(stdout, pkg.RenderSummary(summary, isTerminal(stdout)))
	}

	if org.ReportPath != "" {
		if err := pkg.GenerateReport(org.ReportPath, summary); err != nil {
			return summary, err
		}
		logger.Info("report written", "path", org.ReportPath)
	}

	return summary, nil
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
