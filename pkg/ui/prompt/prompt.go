// Package prompt collects the interactive decisions of a run with huh
// forms: which tasks to run, secrets a task needs, which pending items to
// act on, and the final go-ahead.
package prompt

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/arthur-debert/hostprep/pkg/errors"
	"github.com/arthur-debert/hostprep/pkg/orchestrator"
)

// Options configures a Prompter
type Options struct {
	// Accessible switches huh to its line based mode, used when stdin
	// is not a terminal
	Accessible bool

	Input  io.Reader
	Output io.Writer
}

// Prompter implements orchestrator.Selector and execution.ConfirmFunc
type Prompter struct {
	opts Options

	// run executes a built form. Tests replace it.
	run func(ctx context.Context, form *huh.Form) error
}

// New creates a Prompter
func New(opts Options) *Prompter {
	p := &Prompter{opts: opts}
	p.run = p.runForm
	return p
}

func (p *Prompter) runForm(ctx context.Context, form *huh.Form) error {
	form = form.WithTheme(huh.ThemeCharm()).WithAccessible(p.opts.Accessible)
	if p.opts.Input != nil {
		form = form.WithInput(p.opts.Input)
	}
	if p.opts.Output != nil {
		form = form.WithOutput(p.opts.Output)
	}
	return form.RunWithContext(ctx)
}

// SelectTasks offers every task, all preselected
func (p *Prompter) SelectTasks(ctx context.Context, choices []orchestrator.TaskChoice) (orchestrator.TaskSelection, error) {
	selected := make([]string, 0, len(choices))
	for _, c := range choices {
		selected = append(selected, c.ID)
	}

	field := huh.NewMultiSelect[string]().
		Title("Which tasks should run?").
		Description("space toggles, enter confirms").
		Options(TaskOptions(choices)...).
		Value(&selected)

	ok, err := p.submit(ctx, huh.NewForm(huh.NewGroup(field)))
	if err != nil || !ok {
		return orchestrator.TaskSelection{}, err
	}
	return orchestrator.TaskSelection{Confirmed: true, SelectedTaskIDs: selected}, nil
}

// PromptToken asks for a secret without echoing it
func (p *Prompter) PromptToken(ctx context.Context, taskName, prompt string) (orchestrator.TokenEntry, error) {
	var token string

	field := huh.NewInput().
		Title(taskName).
		Description(prompt).
		EchoMode(huh.EchoModePassword).
		Value(&token)

	ok, err := p.submit(ctx, huh.NewForm(huh.NewGroup(field)))
	if err != nil || !ok {
		return orchestrator.TokenEntry{}, err
	}
	return orchestrator.TokenEntry{Confirmed: true, Token: strings.TrimSpace(token)}, nil
}

// SelectItems shows one page per category with every pending item
// preselected
func (p *Prompter) SelectItems(ctx context.Context, categories []orchestrator.Category) (orchestrator.ItemSelection, error) {
	values := make(map[string]*[]string, len(categories))
	groups := make([]*huh.Group, 0, len(categories))

	for _, cat := range categories {
		picked := append([]string(nil), cat.Pending...)
		values[cat.TaskID] = &picked

		groups = append(groups, huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(cat.Name).
				Description(CategoryDescription(cat)).
				Options(ItemOptions(cat.Pending)...).
				Value(&picked),
		))
	}

	ok, err := p.submit(ctx, huh.NewForm(groups...))
	if err != nil || !ok {
		return orchestrator.ItemSelection{}, err
	}

	sel := orchestrator.ItemSelection{
		Confirmed:          true,
		SelectedByCategory: make(map[string][]string, len(values)),
	}
	for id, v := range values {
		sel.SelectedByCategory[id] = *v
	}
	return sel, nil
}

// Confirm asks a yes/no question, defaulting to yes
func (p *Prompter) Confirm(question string) (bool, error) {
	answer := true

	field := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&answer)

	ok, err := p.submit(context.Background(), huh.NewForm(huh.NewGroup(field)))
	if err != nil || !ok {
		return false, err
	}
	return answer, nil
}

// submit runs the form. A user abort is reported as ok=false with no error.
func (p *Prompter) submit(ctx context.Context, form *huh.Form) (bool, error) {
	err := p.run(ctx, form)
	switch {
	case err == nil:
		return true, nil
	case stderrors.Is(err, huh.ErrUserAborted):
		return false, nil
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return false, nil
	default:
		return false, errors.Wrap(err, errors.ErrInternal, "prompt failed")
	}
}

// TaskOptions turns task choices into preselected multi-select options
func TaskOptions(choices []orchestrator.TaskChoice) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(choices))
	for _, c := range choices {
		label := c.Name
		if c.Description != "" {
			label = fmt.Sprintf("%s - %s", c.Name, c.Description)
		}
		opts = append(opts, huh.NewOption(label, c.ID).Selected(true))
	}
	return opts
}

// ItemOptions turns pending item names into preselected options
func ItemOptions(items []string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(items))
	for _, item := range items {
		opts = append(opts, huh.NewOption(item, item).Selected(true))
	}
	return opts
}

// CategoryDescription summarises a category for its page header
func CategoryDescription(cat orchestrator.Category) string {
	if len(cat.UpToDate) == 0 {
		return fmt.Sprintf("%d pending", len(cat.Pending))
	}
	return fmt.Sprintf("%d pending, %d already up to date", len(cat.Pending), len(cat.UpToDate))
}

var _ orchestrator.Selector = (*Prompter)(nil)
