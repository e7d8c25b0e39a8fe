package ui_test

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/hostprep/pkg/orchestrator"
	"github.com/arthur-debert/hostprep/pkg/style"
	"github.com/arthur-debert/hostprep/pkg/types"
	"github.com/arthur-debert/hostprep/pkg/ui"
	"github.com/arthur-debert/hostprep/pkg/ui/converter"
)

func planReport() *orchestrator.Report {
	return &orchestrator.Report{
		Stage: orchestrator.StagePlanSelect,
		Plans: []orchestrator.PlannedTask{
			{
				ID:         "packages",
				Name:       "System packages",
				Selectable: true,
				Result: types.TaskCheckResult{
					UpToDate:  []string{"git"},
					ToInstall: []string{"vim"},
				},
			},
			{
				ID:     "repos",
				Name:   "GitHub repositories",
				Result: types.TaskCheckResult{Warnings: []string{"no GitHub token provided"}},
			},
		},
		Warnings: []string{"GitHub repositories: no GitHub token provided"},
	}
}

func summaryReport() *orchestrator.Report {
	r := planReport()
	r.Stage = orchestrator.StageSummary
	r.Results = []types.TaskExecutionResult{
		{ID: "packages", Name: "System packages", Status: types.TaskStatusCompleted, Duration: 1500 * time.Millisecond},
		{ID: "repos", Name: "GitHub repositories", Status: types.TaskStatusFailed, Error: "all 2 repositories failed"},
	}
	r.Completed, r.Failed = 1, 1
	return r
}

func TestNewRenderer(t *testing.T) {
	tests := []struct {
		name    string
		format  ui.Format
		wantErr bool
	}{
		{name: "terminal", format: ui.FormatTerminal},
		{name: "text", format: ui.FormatText},
		{name: "json", format: ui.FormatJSON},
		{name: "yaml", format: ui.FormatYAML},
		{name: "auto with buffer", format: ui.FormatAuto},
		{name: "invalid", format: ui.Format(999), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer, err := ui.NewRenderer(tt.format, &bytes.Buffer{})
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, renderer)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, renderer)
		})
	}
}

func TestTextRenderer_Plan(t *testing.T) {
	var buf bytes.Buffer
	r, err := ui.NewRenderer(ui.FormatText, &buf)
	require.NoError(t, err)

	require.NoError(t, r.RenderPlan(planReport()))

	assert.Equal(t, "System packages:\n"+
		"  = git\n"+
		"  + vim\n"+
		"GitHub repositories:\n"+
		"  ! no GitHub token provided\n"+
		"1 up to date, 1 pending\n", buf.String())
}

func TestTextRenderer_Summary(t *testing.T) {
	var buf bytes.Buffer
	r, err := ui.NewRenderer(ui.FormatText, &buf)
	require.NoError(t, err)

	require.NoError(t, r.RenderSummary(summaryReport()))

	out := buf.String()
	assert.Contains(t, out, "completed System packages (1.5s)")
	assert.Contains(t, out, "failed    GitHub repositories (0s): all 2 repositories failed")
	assert.Contains(t, out, "warning: GitHub repositories: no GitHub token provided")
	assert.Contains(t, out, "1 completed, 1 failed")
}

func TestTextRenderer_Aborted(t *testing.T) {
	var buf bytes.Buffer
	r, err := ui.NewRenderer(ui.FormatText, &buf)
	require.NoError(t, err)

	report := &orchestrator.Report{Aborted: true, Stage: orchestrator.StageConfirm, Reason: "declined at confirmation"}
	require.NoError(t, r.RenderSummary(report))
	assert.Equal(t, "Aborted at confirm: declined at confirmation\n", buf.String())
}

func TestTerminalRenderer(t *testing.T) {
	var buf bytes.Buffer
	style.Setup(&buf, true)
	r, err := ui.NewRenderer(ui.FormatTerminal, &buf)
	require.NoError(t, err)

	require.NoError(t, r.RenderPlan(planReport()))
	require.NoError(t, r.RenderSummary(summaryReport()))
	require.NoError(t, r.RenderTasks([]converter.TaskRow{{ID: "packages", Name: "System packages", Description: "apt"}}))

	out := buf.String()
	assert.Contains(t, out, "vim will be applied")
	assert.Contains(t, out, "1 up to date, 1 pending")
	assert.Contains(t, out, "1 completed, 1 failed")
	assert.Contains(t, out, "all 2 repositories failed")
	assert.Contains(t, out, "System packages")
}

func TestJSONRenderer_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	r, err := ui.NewRenderer(ui.FormatJSON, &buf)
	require.NoError(t, err)

	require.NoError(t, r.RenderPlan(planReport()))

	var decoded orchestrator.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, orchestrator.StagePlanSelect, decoded.Stage)
	require.Len(t, decoded.Plans, 2)
	assert.Equal(t, []string{"vim"}, decoded.Plans[0].Result.ToInstall)
}

func TestYAMLRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, err := ui.NewRenderer(ui.FormatYAML, &buf)
	require.NoError(t, err)

	require.NoError(t, r.RenderPlan(planReport()))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "plan-select", decoded["stage"])
	assert.Contains(t, buf.String(), "to_install:\n")
}

func TestMachineRenderers_Errors(t *testing.T) {
	for _, format := range []ui.Format{ui.FormatJSON, ui.FormatYAML} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			r, err := ui.NewRenderer(format, &buf)
			require.NoError(t, err)

			require.NoError(t, r.RenderError(stderrors.New("boom")))
			assert.Contains(t, buf.String(), "boom")
		})
	}
}
