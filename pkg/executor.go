package pkg

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/user/capturesort/internal/config"
	"github.com/user/capturesort/internal/logging"
)

// Status is the terminal state of one job.
type Status int

const (
	StatusCopied Status = iota
	StatusPlanned
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusCopied:
		return "copied"
	case StatusPlanned:
		return "planned"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome records what happened to a single job.
type Outcome struct {
	Job         Job
	Status      Status
	Resolved    ResolvedDate
	Destination string
	Err         error
	Duration    time.Duration
}

// DateResolver produces the capture date for a file.
type DateResolver interface {
	Resolve(path string) (ResolvedDate, error)
}

// ExecutorOptions configures a run.
type ExecutorOptions struct {
	Workers int
	DryRun  bool
	Verify  bool
	// Logger receives the per-job log stream. ErrorLogger receives panics
	// recovered from a job; it defaults to Logger.
	Logger      *slog.Logger
	ErrorLogger *slog.Logger
}

// Executor copies jobs into their dated destinations with a bounded pool of
// workers.
type Executor struct {
	resolver DateResolver
	namer    *Namer
	opts     ExecutorOptions
}

// NewExecutor builds an executor. Workers is clamped to the supported range.
func NewExecutor(resolver DateResolver, namer *Namer, opts ExecutorOptions) *Executor {
	opts.Workers = config.ClampWorkers(opts.Workers)
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.ErrorLogger == nil {
		opts.ErrorLogger = opts.Logger
	}
	return &Executor{resolver: resolver, namer: namer, opts: opts}
}

// RunResult aggregates a finished run. Outcomes are in job order.
type RunResult struct {
	Outcomes []Outcome
	Progress ProgressSnapshot
	Elapsed  time.Duration
	DryRun   bool
}

// Count returns the number of outcomes with the given status.
func (r RunResult) Count(status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Run processes every job exactly once and returns when all are finished.
// Per-job failures are recorded in the result and never stop the run.
func (e *Executor) Run(jobs []Job) RunResult {
	progress := NewProgress(len(jobs))
	outcomes := make([]Outcome, len(jobs))

	queue := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < e.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				outcomes[idx] = e.runJob(jobs[idx])
				progress.AdvanceAndReport(func(snap ProgressSnapshot) {
					e.opts.Logger.Info("progress", "count", snap.String())
				})
			}
		}()
	}
	for idx := range jobs {
		queue <- idx
	}
	close(queue)
	wg.Wait()

	return RunResult{
		Outcomes: outcomes,
		Progress: progress.Snapshot(),
		Elapsed:  progress.Elapsed(),
		DryRun:   e.opts.DryRun,
	}
}

func (e *Executor) runJob(job Job) (out Outcome) {
	start := time.Now()
	out = Outcome{Job: job}
	defer func() {
		if r := recover(); r != nil {
			out.Status = StatusFailed
			out.Err = fmt.Errorf("panic: %v", r)
			e.opts.ErrorLogger.Error("job panicked",
				"source", job.SourcePath,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
		}
		out.Duration = time.Since(start)
	}()

	log := e.opts.Logger
	log.Info("found", "source", job.SourcePath, "partition", job.Partition)

	resolved, err := e.resolver.Resolve(job.SourcePath)
	if err != nil {
		log.Warn("could not extract date, skipping", "source", job.SourcePath, "error", err)
		out.Status = StatusSkipped
		out.Err = err
		return out
	}
	out.Resolved = resolved
	log.Info("metadata", "source", job.SourcePath, "date", resolved.String(), "provenance", resolved.Source)

	canonical := e.namer.Plan(job.Partition, resolved, filepath.Base(job.SourcePath))
	claim, err := e.namer.Claim(canonical)
	if err != nil {
		log.Error("copy failed", "source", job.SourcePath, "destination", canonical, "error", err)
		out.Status = StatusFailed
		out.Destination = canonical
		out.Err = err
		return out
	}
	out.Destination = claim.Path
	log.Info("copying to", "source", job.SourcePath, "destination", claim.Path)

	if e.opts.DryRun {
		out.Status = StatusPlanned
		return out
	}

	if err := CopyFile(job.SourcePath, claim, e.opts.Verify); err != nil {
		log.Error("copy failed", "source", job.SourcePath, "destination", claim.Path, "error", err)
		out.Status = StatusFailed
		out.Err = err
		return out
	}
	out.Status = StatusCopied
	return out
}
