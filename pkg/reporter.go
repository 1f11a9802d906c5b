package pkg

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Problem is a job that was skipped or failed.
type Problem struct {
	Source      string
	Destination string
	Status      Status
	Reason      string
}

// Summary condenses a RunResult for display and for the text report.
type Summary struct {
	RunID       string
	DryRun      bool
	Total       int
	Elapsed     time.Duration
	ByStatus    map[Status]int
	ByPartition map[string]int
	BySource    map[string]int
	Problems    []Problem
}

// Summarize tallies outcomes by status, partition and date provenance.
func Summarize(runID string, result RunResult) Summary {
	s := Summary{
		RunID:       runID,
		DryRun:      result.DryRun,
		Total:       len(result.Outcomes),
		Elapsed:     result.Elapsed,
		ByStatus:    make(map[Status]int),
		ByPartition: make(map[string]int),
		BySource:    make(map[string]int),
	}
	for _, o := range result.Outcomes {
		s.ByStatus[o.Status]++
		s.ByPartition[o.Job.Partition]++
		if o.Resolved.Source != "" {
			s.BySource[o.Resolved.Source]++
		}
		if o.Status == StatusSkipped || o.Status == StatusFailed {
			reason := ""
			if o.Err != nil {
				reason = o.Err.Error()
			}
			s.Problems = append(s.Problems, Problem{
				Source:      o.Job.SourcePath,
				Destination: o.Destination,
				Status:      o.Status,
				Reason:      reason,
			})
		}
	}
	return s
}

var (
	counts = message.NewPrinter(language.English)
	title  = cases.Title(language.English)
)

// RenderSummary draws the summary tables. fancy selects rounded box drawing
// for terminals; otherwise plain ASCII is used.
func RenderSummary(s Summary, fancy bool) string {
	style := table.StyleDefault
	if fancy {
		style = table.StyleRounded
	}

	heading := "Run " + s.RunID
	if s.DryRun {
		heading += " (dry run)"
	}

	statusRows := make([][]string, 0, 4)
	for _, st := range []Status{StatusCopied, StatusPlanned, StatusSkipped, StatusFailed} {
		if st == StatusPlanned && !s.DryRun && s.ByStatus[st] == 0 {
			continue
		}
		if st == StatusCopied && s.DryRun {
			continue
		}
		statusRows = append(statusRows, []string{title.String(st.String()), counts.Sprintf("%d", s.ByStatus[st])})
	}
	statusRows = append(statusRows, []string{"Total", counts.Sprintf("%d", s.Total)})

	var b strings.Builder
	b.WriteString(heading + "\n")
	b.WriteString(renderTable(style, []string{"Outcome", "Files"}, statusRows))
	b.WriteString("\n")
	b.WriteString(renderTable(style, []string{"Partition", "Files"}, countRows(s.ByPartition)))
	b.WriteString("\n")
	b.WriteString(renderTable(style, []string{"Date source", "Files"}, countRows(s.BySource)))
	b.WriteString("\n")
	return b.String()
}

func countRows(m map[string]int) [][]string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, counts.Sprintf("%d", m[k])})
	}
	return rows
}

func renderTable(style table.Style, headers []string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(style)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// GenerateReport writes a plain-text report of the run to reportPath.
func GenerateReport(reportPath string, s Summary) error {
	reportDir := filepath.Dir(reportPath)
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory for report '%s': %w", reportDir, err)
	}

	file, err := os.Create(reportPath)
	if err != nil {
		return fmt.Errorf("failed to create report file '%s': %w", reportPath, err)
	}
	defer file.Close()

	var b strings.Builder
	b.WriteString("Capture Sort Report\n")
	b.WriteString("===================\n\n")
	fmt.Fprintf(&b, "Run: %s\n", s.RunID)
	if s.DryRun {
		b.WriteString("Mode: dry run (no files written)\n")
	}
	fmt.Fprintf(&b, "Elapsed: %s\n\n", FormatElapsed(s.Elapsed))

	b.WriteString("Summary:\n")
	fmt.Fprintf(&b, "  - Total files processed: %d\n", s.Total)
	fmt.Fprintf(&b, "  - Files copied: %d\n", s.ByStatus[StatusCopied])
	if s.DryRun {
		fmt.Fprintf(&b, "  - Files planned: %d\n", s.ByStatus[StatusPlanned])
	}
	fmt.Fprintf(&b, "  - Files skipped: %d\n", s.ByStatus[StatusSkipped])
	fmt.Fprintf(&b, "  - Files failed: %d\n", s.ByStatus[StatusFailed])

	if len(s.BySource) > 0 {
		b.WriteString("\nDate sources:\n")
		for _, row := range countRows(s.BySource) {
			fmt.Fprintf(&b, "  - %s: %s\n", row[0], row[1])
		}
	}

	if len(s.Problems) > 0 {
		b.WriteString("\nProblems:\n")
		for _, p := range s.Problems {
			fmt.Fprintf(&b, "  - %s: %s\n", p.Status, p.Source)
			if p.Destination != "" {
				fmt.Fprintf(&b, "    Destination: %s\n", p.Destination)
			}
			fmt.Fprintf(&b, "    Reason: %s\n\n", p.Reason)
		}
	}

	if _, err := file.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to write report file '%s': %w", reportPath, err)
	}
	return file.Close()
}
