// Package ui renders hostprep output in different formats. Terminal output
// is styled with lipgloss and pterm, text output is plain, and JSON and
// YAML are meant for other programs.
package ui

import (
	"io"
	"os"

	"github.com/arthur-debert/hostprep/pkg/errors"
	"github.com/arthur-debert/hostprep/pkg/orchestrator"
	"github.com/arthur-debert/hostprep/pkg/ui/converter"
	"github.com/arthur-debert/hostprep/pkg/ui/json"
	"github.com/arthur-debert/hostprep/pkg/ui/terminal"
	"github.com/arthur-debert/hostprep/pkg/ui/text"
	"github.com/arthur-debert/hostprep/pkg/ui/yaml"
)

// Renderer is implemented by every output format
type Renderer interface {
	// RenderPlan shows what a run would do
	RenderPlan(report *orchestrator.Report) error

	// RenderSummary shows how a run ended
	RenderSummary(report *orchestrator.Report) error

	// RenderTasks lists the registered tasks
	RenderTasks(rows []converter.TaskRow) error

	RenderMessage(msg string) error
	RenderError(err error) error
}

// NewRenderer creates a renderer for format. FormatAuto picks terminal or
// text depending on output.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return terminal.New(output), nil
	case FormatText:
		return text.New(output), nil
	case FormatJSON:
		return json.New(output), nil
	case FormatYAML:
		return yaml.New(output), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}
