package style

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// Status is the display state of a task or one of its items
type Status string

const (
	StatusUpToDate  Status = "up-to-date" // Nothing to do
	StatusPending   Status = "pending"    // Will be installed or applied
	StatusCompleted Status = "completed"  // Executed successfully
	StatusFailed    Status = "failed"     // Execution failed
	StatusWarning   Status = "warning"    // Task reported warnings only
	StatusSkipped   Status = "skipped"    // Not selected by the user
)

// StatusVerbs phrases an item line for each status
var StatusVerbs = map[Status]string{
	StatusUpToDate:  "already in place",
	StatusPending:   "will be applied",
	StatusCompleted: "applied",
	StatusFailed:    "failed",
	StatusSkipped:   "skipped",
}

// StatusStyle returns the pterm style used for a status badge
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusCompleted, StatusUpToDate:
		return pterm.NewStyle(pterm.FgGreen)
	case StatusFailed:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	case StatusPending:
		return pterm.NewStyle(pterm.FgYellow)
	case StatusWarning:
		return pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// ItemStatus is one line of a task listing
type ItemStatus struct {
	Name   string
	Status Status
}

// TaskStatus groups a task's items under its header
type TaskStatus struct {
	Name     string
	Items    []ItemStatus
	Warnings []string
}

// RenderItemStatus renders a single item line
func RenderItemStatus(item ItemStatus) string {
	badge := StatusStyle(item.Status).Sprint(fmt.Sprintf("%-10s", item.Status))
	return fmt.Sprintf("    %s : %s", badge, fmt.Sprintf("%s %s", item.Name, StatusVerbs[item.Status]))
}

// RenderTaskStatus renders a task header followed by its items and warnings
func RenderTaskStatus(ts TaskStatus) string {
	var b strings.Builder

	header := ts.Name + ":"
	switch AggregateStatus(ts.Items) {
	case StatusFailed:
		header = StatusStyle(StatusFailed).Sprint(header)
	case StatusUpToDate:
		header = SuccessStyle.Render(header)
	}
	if len(ts.Warnings) > 0 {
		header += " " + WarningIndicator()
	}
	b.WriteString(header + "\n")

	if len(ts.Items) == 0 && len(ts.Warnings) == 0 {
		b.WriteString(MutedStyle.Render("    nothing to do") + "\n")
	}
	for _, item := range ts.Items {
		b.WriteString(RenderItemStatus(item) + "\n")
	}
	for _, w := range ts.Warnings {
		b.WriteString(fmt.Sprintf("    %s %s\n", WarningIndicator(), w))
	}

	return strings.TrimRight(b.String(), "\n")
}

// AggregateStatus reduces item states to one task state: any failure
// wins, then pending, otherwise up to date
func AggregateStatus(items []ItemStatus) Status {
	result := StatusUpToDate
	for _, it := range items {
		switch it.Status {
		case StatusFailed:
			return StatusFailed
		case StatusPending:
			result = StatusPending
		}
	}
	return result
}
