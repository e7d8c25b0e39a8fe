// Package json provides machine-readable JSON output
package json

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/hostprep/pkg/orchestrator"
	"github.com/arthur-debert/hostprep/pkg/ui/converter"
)

// Renderer writes one indented JSON document per call
type Renderer struct {
	encoder *json.Encoder
}

// New creates a new JSON renderer
func New(output io.Writer) *Renderer {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return &Renderer{encoder: encoder}
}

// RenderPlan encodes the whole report
func (r *Renderer) RenderPlan(report *orchestrator.Report) error {
	return r.encoder.Encode(report)
}

// RenderSummary encodes the whole report
func (r *Renderer) RenderSummary(report *orchestrator.Report) error {
	return r.encoder.Encode(report)
}

// RenderTasks encodes the task list
func (r *Renderer) RenderTasks(rows []converter.TaskRow) error {
	if rows == nil {
		rows = []converter.TaskRow{}
	}
	return r.encoder.Encode(rows)
}

// RenderError renders an error as JSON
func (r *Renderer) RenderError(err error) error {
	return r.encoder.Encode(map[string]string{"error": err.Error()})
}

// RenderMessage renders a simple message as JSON
func (r *Renderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}
