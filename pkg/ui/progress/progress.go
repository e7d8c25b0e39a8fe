// Package progress runs task jobs behind an animated bubbletea view: one
// spinner line for the job in flight and a result line for each finished
// job.
package progress

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/hostprep/pkg/logging"
	"github.com/arthur-debert/hostprep/pkg/orchestrator"
	"github.com/arthur-debert/hostprep/pkg/style"
	"github.com/arthur-debert/hostprep/pkg/types"
)

// Runner implements orchestrator.Runner with a spinner view
type Runner struct {
	logger zerolog.Logger
	input  io.Reader
	output io.Writer
}

// New creates a Runner drawing on output
func New(logger zerolog.Logger, input io.Reader, output io.Writer) *Runner {
	return &Runner{logger: logging.Component(logger, "progress"), input: input, output: output}
}

// Run executes jobs one at a time on the calling goroutine while the
// view animates. Ctrl+C or a done ctx stops jobs that have not started
// yet; the one in flight always finishes. A view that cannot start only loses the
// animation.
func (r *Runner) Run(ctx context.Context, jobs []orchestrator.Job) []types.TaskExecutionResult {
	m := newModel(jobs)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(r.input), tea.WithOutput(r.output))

	viewDone := make(chan struct{})
	go func() {
		defer close(viewDone)
		if _, err := p.Run(); err != nil {
			r.logger.Warn().Err(err).Msg("Progress view stopped, continuing without it")
		}
	}()

	results := make([]types.TaskExecutionResult, 0, len(jobs))
	for i, job := range jobs {
		if m.stopRequested() || ctx.Err() != nil {
			r.logger.Warn().Int("skipped", len(jobs)-i).Msg("Interrupted, remaining tasks skipped")
			break
		}
		p.Send(jobStartedMsg{index: i})
		res := orchestrator.RunJob(ctx, job)
		results = append(results, res)
		p.Send(jobDoneMsg{index: i, result: res})
	}

	p.Send(allDoneMsg{})
	<-viewDone
	return results
}

type jobStartedMsg struct {
	index int
}

type jobDoneMsg struct {
	index  int
	result types.TaskExecutionResult
}

type allDoneMsg struct{}

type model struct {
	jobs    []orchestrator.Job
	results []*types.TaskExecutionResult
	current int
	spinner spinner.Model

	// stop is closed on ctrl+c and read by the job loop
	stop     chan struct{}
	stopOnce sync.Once
	finished bool
}

func newModel(jobs []orchestrator.Job) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = style.InfoStyle

	return &model{
		jobs:    jobs,
		results: make([]*types.TaskExecutionResult, len(jobs)),
		current: -1,
		spinner: s,
		stop:    make(chan struct{}),
	}
}

func (m *model) stopRequested() bool {
	select {
	case <-m.stop:
		return true
	default:
		return false
	}
}

func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.stopOnce.Do(func() { close(m.stop) })
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case jobStartedMsg:
		m.current = msg.index
		return m, nil

	case jobDoneMsg:
		res := msg.result
		m.results[msg.index] = &res
		m.current = -1
		return m, nil

	case allDoneMsg:
		m.finished = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *model) View() string {
	var b strings.Builder
	for i, job := range m.jobs {
		res := m.results[i]
		switch {
		case res != nil && res.Failed():
			fmt.Fprintf(&b, "%s %s %s\n", style.ErrorIndicator(), job.Name, style.ErrorStyle.Render(res.Error))
		case res != nil:
			fmt.Fprintf(&b, "%s %s %s\n", style.SuccessIndicator(), job.Name,
				style.MutedStyle.Render(res.Duration.Round(1e6).String()))
		case i == m.current:
			fmt.Fprintf(&b, "%s %s\n", m.spinner.View(), job.Name)
		case m.finished || m.stopRequested():
			fmt.Fprintf(&b, "%s %s %s\n", style.WarningIndicator(), job.Name, style.MutedStyle.Render("skipped"))
		default:
			fmt.Fprintf(&b, "%s %s\n", style.PendingIndicator(), job.Name)
		}
	}
	return b.String()
}

var _ orchestrator.Runner = (*Runner)(nil)
