// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/hostprep/pkg/orchestrator"
	"github.com/arthur-debert/hostprep/pkg/style"
	"github.com/arthur-debert/hostprep/pkg/ui/converter"
)

// Renderer provides plain text output, one fact per line
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) *Renderer {
	return &Renderer{output: output}
}

func (r *Renderer) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(r.output, format, args...)
	return err
}

// RenderPlan lists each task with = for up-to-date and + for pending items
func (r *Renderer) RenderPlan(report *orchestrator.Report) error {
	var b strings.Builder
	for _, ts := range converter.PlanStatuses(report) {
		fmt.Fprintf(&b, "%s:\n", ts.Name)
		if len(ts.Items) == 0 && len(ts.Warnings) == 0 {
			b.WriteString("  (nothing to do)\n")
		}
		for _, item := range ts.Items {
			marker := "="
			if item.Status == style.StatusPending {
				marker = "+"
			}
			fmt.Fprintf(&b, "  %s %s\n", marker, item.Name)
		}
		for _, w := range ts.Warnings {
			fmt.Fprintf(&b, "  ! %s\n", w)
		}
	}
	upToDate, pending := converter.Counts(report)
	fmt.Fprintf(&b, "%d up to date, %d pending\n", upToDate, pending)
	return r.printf("%s", b.String())
}

// RenderSummary prints one line per executed task and the totals
func (r *Renderer) RenderSummary(report *orchestrator.Report) error {
	if report == nil {
		return nil
	}
	if report.Aborted {
		return r.printf("Aborted at %s: %s\n", report.Stage, report.Reason)
	}

	var b strings.Builder
	for _, res := range report.Results {
		fmt.Fprintf(&b, "%-9s %s (%s)", converter.ResultStatus(res), res.Name, res.Duration.Round(1e6))
		if res.Error != "" {
			fmt.Fprintf(&b, ": %s", res.Error)
		}
		b.WriteString("\n")
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(&b, "warning: %s\n", w)
	}
	fmt.Fprintf(&b, "%d completed, %d failed", report.Completed, report.Failed)
	if report.Skipped > 0 {
		fmt.Fprintf(&b, ", %d skipped", report.Skipped)
	}
	b.WriteString("\n")
	return r.printf("%s", b.String())
}

// RenderTasks prints the registered tasks in run order
func (r *Renderer) RenderTasks(rows []converter.TaskRow) error {
	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "%-10s %s - %s\n", row.ID, row.Name, row.Description)
	}
	return r.printf("%s", b.String())
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	return r.printf("Error: %v\n", err)
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	return r.printf("%s\n", msg)
}
