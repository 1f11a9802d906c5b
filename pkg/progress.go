package pkg

import (
	"fmt"
	"sync"
	"time"
)

// Progress is a completion counter shared by the executor's workers.
type Progress struct {
	mu    sync.Mutex
	total int
	done  int
	start time.Time
}

// ProgressSnapshot is the counter state right after one increment.
type ProgressSnapshot struct {
	Done    int
	Total   int
	Percent int
}

func (s ProgressSnapshot) String() string {
	return fmt.Sprintf("%d/%d (%d%%)", s.Done, s.Total, s.Percent)
}

// NewProgress starts the clock for a run of total jobs.
func NewProgress(total int) *Progress {
	return &Progress{total: total, start: time.Now()}
}

// Advance records one finished job and returns the new state.
func (p *Progress) Advance() ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	return p.snapshotLocked()
}

// AdvanceAndReport records one finished job and calls report with the new
// state before any other worker can advance, so reported counts are monotonic.
func (p *Progress) AdvanceAndReport(report func(ProgressSnapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	report(p.snapshotLocked())
}

// Snapshot returns the current state without changing it.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Progress) snapshotLocked() ProgressSnapshot {
	pct := 100
	if p.total > 0 {
		pct = 100 * p.done / p.total
	}
	return ProgressSnapshot{Done: p.done, Total: p.total, Percent: pct}
}

// Elapsed is the wall-clock time since NewProgress.
func (p *Progress) Elapsed() time.Duration {
	return time.Since(p.start)
}

// FormatElapsed renders d as HH:MM:SS.
func FormatElapsed(d time.Duration) string {
	secs := int64(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
