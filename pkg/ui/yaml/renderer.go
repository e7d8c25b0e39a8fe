// Package yaml provides machine-readable YAML output
package yaml

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/hostprep/pkg/orchestrator"
	"github.com/arthur-debert/hostprep/pkg/ui/converter"
)

// Renderer writes one YAML document per call
type Renderer struct {
	output io.Writer
}

// New creates a new YAML renderer
func New(output io.Writer) *Renderer {
	return &Renderer{output: output}
}

func (r *Renderer) encode(v interface{}) error {
	enc := yaml.NewEncoder(r.output)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// RenderPlan encodes the whole report
func (r *Renderer) RenderPlan(report *orchestrator.Report) error {
	return r.encode(report)
}

// RenderSummary encodes the whole report
func (r *Renderer) RenderSummary(report *orchestrator.Report) error {
	return r.encode(report)
}

// RenderTasks encodes the task list
func (r *Renderer) RenderTasks(rows []converter.TaskRow) error {
	return r.encode(rows)
}

// RenderError renders an error as YAML
func (r *Renderer) RenderError(err error) error {
	return r.encode(map[string]string{"error": err.Error()})
}

// RenderMessage renders a simple message as YAML
func (r *Renderer) RenderMessage(msg string) error {
	return r.encode(map[string]string{"message": msg})
}
