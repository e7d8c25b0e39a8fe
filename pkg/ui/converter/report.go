// Package converter turns orchestrator reports into the display shapes
// used by the text and terminal renderers.
package converter

import (
	"github.com/arthur-debert/hostprep/pkg/orchestrator"
	"github.com/arthur-debert/hostprep/pkg/style"
	"github.com/arthur-debert/hostprep/pkg/types"
)

// TaskRow describes a registered task
type TaskRow struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// PlanStatuses lists every planned task with its items, up-to-date
// items first, in report order
func PlanStatuses(report *orchestrator.Report) []style.TaskStatus {
	if report == nil {
		return nil
	}
	out := make([]style.TaskStatus, 0, len(report.Plans))
	for _, p := range report.Plans {
		ts := style.TaskStatus{Name: p.Name, Warnings: p.Result.Warnings}
		for _, item := range p.Result.UpToDate {
			ts.Items = append(ts.Items, style.ItemStatus{Name: item, Status: style.StatusUpToDate})
		}
		for _, item := range p.Result.ToInstall {
			ts.Items = append(ts.Items, style.ItemStatus{Name: item, Status: style.StatusPending})
		}
		out = append(out, ts)
	}
	return out
}

// ResultStatus maps an execution result to its display status
func ResultStatus(r types.TaskExecutionResult) style.Status {
	switch {
	case r.Failed():
		return style.StatusFailed
	case r.Skipped():
		return style.StatusSkipped
	}
	return style.StatusCompleted
}

// Counts summarises a plan as up-to-date and pending totals
func Counts(report *orchestrator.Report) (upToDate, pending int) {
	if report == nil {
		return 0, 0
	}
	for _, p := range report.Plans {
		upToDate += len(p.Result.UpToDate)
		pending += len(p.Result.ToInstall)
	}
	return upToDate, pending
}
