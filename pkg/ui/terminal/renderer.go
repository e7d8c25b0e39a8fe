// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/hostprep/pkg/orchestrator"
	"github.com/arthur-debert/hostprep/pkg/style"
	"github.com/arthur-debert/hostprep/pkg/ui/converter"
)

// Renderer provides styled terminal output
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) *Renderer {
	return &Renderer{output: w}
}

func (r *Renderer) write(s string) error {
	_, err := fmt.Fprintln(r.output, s)
	return err
}

// RenderPlan shows each task's items grouped under the task name
func (r *Renderer) RenderPlan(report *orchestrator.Report) error {
	var b strings.Builder
	b.WriteString(style.TitleStyle.Render("Plan") + "\n")
	for _, ts := range converter.PlanStatuses(report) {
		b.WriteString(style.RenderTaskStatus(ts) + "\n\n")
	}

	upToDate, pending := converter.Counts(report)
	b.WriteString(style.RenderTemplate(
		"[success]{{done}}[/success] up to date, [pending]{{pending}}[/pending] pending",
		map[string]string{"done": strconv.Itoa(upToDate), "pending": strconv.Itoa(pending)},
	))
	return r.write(b.String())
}

// RenderSummary shows the outcome of each executed task in a box
func (r *Renderer) RenderSummary(report *orchestrator.Report) error {
	if report == nil {
		return nil
	}
	if report.Aborted {
		return r.write(fmt.Sprintf("%s %s",
			style.WarningIndicator(),
			style.RenderTemplate("Aborted at [bold]{{stage}}[/bold]: {{reason}}", map[string]string{
				"stage":  string(report.Stage),
				"reason": report.Reason,
			})))
	}

	var lines []string
	for _, res := range report.Results {
		indicator := style.SuccessIndicator()
		detail := res.Duration.Round(1e6).String()
		switch {
		case res.Failed():
			indicator = style.ErrorIndicator()
		case res.Skipped():
			indicator = style.WarningIndicator()
			detail = "skipped"
		}
		line := fmt.Sprintf("%s %s %s", indicator, style.Bold(res.Name), style.MutedStyle.Render(detail))
		if res.Error != "" {
			line += "\n    " + style.ErrorStyle.Render(res.Error)
		}
		lines = append(lines, line)
	}
	for _, w := range report.Warnings {
		lines = append(lines, fmt.Sprintf("%s %s", style.WarningIndicator(), w))
	}

	totals := style.RenderTemplate("[success]{{completed}} completed[/success]", map[string]string{
		"completed": strconv.Itoa(report.Completed),
	})
	if report.Failed > 0 {
		totals += ", " + style.RenderTemplate("[error]{{failed}} failed[/error]", map[string]string{
			"failed": strconv.Itoa(report.Failed),
		})
	}
	if report.Skipped > 0 {
		totals += ", " + style.RenderTemplate("[warning]{{skipped}} skipped[/warning]", map[string]string{
			"skipped": strconv.Itoa(report.Skipped),
		})
	}
	lines = append(lines, "", totals)

	return r.write(style.BoxStyle.Render(strings.Join(lines, "\n")))
}

// RenderTasks shows the registered tasks as a table
func (r *Renderer) RenderTasks(rows []converter.TaskRow) error {
	data := pterm.TableData{{"ID", "Name", "Description"}}
	for _, row := range rows {
		data = append(data, []string{row.ID, row.Name, row.Description})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	return r.write(table)
}

// RenderError renders an error with the pterm error prefix
func (r *Renderer) RenderError(err error) error {
	if err == nil {
		return nil
	}
	return r.write(fmt.Sprintf("%s %s", pterm.Error.Prefix.Text, pterm.Error.MessageStyle.Sprint(err.Error())))
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	return r.write(style.Render(msg))
}
