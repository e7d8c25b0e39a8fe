package orchestrator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/hostprep/pkg/errors"
	"github.com/arthur-debert/hostprep/pkg/execution"
	"github.com/arthur-debert/hostprep/pkg/logging"
	"github.com/arthur-debert/hostprep/pkg/tasks"
	"github.com/arthur-debert/hostprep/pkg/types"
)

// Options tunes a pipeline run
type Options struct {
	// AssumeYes skips token entry, item selection and confirmation
	AssumeYes bool

	// TaskIDs preselects tasks and skips TaskSelect
	TaskIDs []string

	// StopAfterPlan ends the run once the plan is known (dry run)
	StopAfterPlan bool

	// ExecutionLogger replaces the context logger while tasks execute
	ExecutionLogger *zerolog.Logger

	// OnPlan sees the final plan before confirmation, or before the run
	// ends when StopAfterPlan is set
	OnPlan func(report *Report)
}

// Orchestrator runs a fixed, ordered set of tasks through the pipeline
type Orchestrator struct {
	tasks    []tasks.Task
	selector Selector
	runner   Runner
	opts     Options
}

// New creates an orchestrator. Tasks keep the order given.
func New(ts []tasks.Task, selector Selector, runner Runner, opts Options) *Orchestrator {
	return &Orchestrator{tasks: ts, selector: selector, runner: runner, opts: opts}
}

type checked struct {
	task tasks.Task
	plan tasks.Plan
}

// Run executes the pipeline. A declined prompt ends the run with an
// aborted report and no error; an error means a prompt itself failed.
func (o *Orchestrator) Run(ctx context.Context, ec *execution.Context) (*Report, error) {
	logger := logging.Component(ec.Logger, "orchestrator")
	report := &Report{Stage: StageInit}

	// TaskSelect
	report.Stage = StageTaskSelect
	if cancelled(ctx, report) {
		return report, nil
	}
	selected, err := o.selectTasks(ctx)
	if err != nil {
		return report, err
	}
	if len(selected) == 0 {
		return abort(report, "no tasks selected"), nil
	}
	logger.Info().Strs("tasks", taskIDs(selected)).Msg("Tasks selected")

	// Tokens are collected before any Check runs
	report.Stage = StageTokenEntry
	if !o.opts.AssumeYes {
		for _, t := range selected {
			receiver, ok := t.(tasks.TokenReceiver)
			if !ok {
				continue
			}
			if cancelled(ctx, report) {
				return report, nil
			}
			entry, err := o.selector.PromptToken(ctx, t.Name(), receiver.TokenPrompt())
			if err != nil {
				return report, errors.Wrapf(err, errors.ErrInternal, "token prompt for %s failed", t.ID())
			}
			if !entry.Confirmed {
				return abort(report, "token entry cancelled"), nil
			}
			receiver.SetToken(entry.Token)
		}
	}

	// PreCheck
	report.Stage = StagePreCheck
	if cancelled(ctx, report) {
		return report, nil
	}
	checks := o.preCheck(ctx, ec, logger, selected)
	o.recordPlans(report, checks)

	// PlanSelect
	report.Stage = StagePlanSelect
	if cancelled(ctx, report) {
		return report, nil
	}
	categories := selectableCategories(checks)
	if len(categories) > 0 && !o.opts.AssumeYes {
		sel, err := o.selector.SelectItems(ctx, categories)
		if err != nil {
			return report, errors.Wrap(err, errors.ErrInternal, "item selection failed")
		}
		if !sel.Confirmed {
			return abort(report, "plan selection cancelled"), nil
		}
		applySelection(checks, types.Selection(sel.SelectedByCategory))
		o.recordPlans(report, checks)
	}
	if o.opts.OnPlan != nil {
		o.opts.OnPlan(report)
	}
	if o.opts.StopAfterPlan {
		return report, nil
	}

	// Confirm
	report.Stage = StageConfirm
	if cancelled(ctx, report) {
		return report, nil
	}
	if !o.opts.AssumeYes {
		ok, err := ec.Confirm(confirmQuestion(report))
		if err != nil {
			return report, errors.Wrap(err, errors.ErrInternal, "confirmation failed")
		}
		if !ok {
			return abort(report, "declined at confirmation"), nil
		}
	}

	// Execute
	report.Stage = StageExecute
	execCtx := ec
	if o.opts.ExecutionLogger != nil {
		execCtx = ec.WithLogger(*o.opts.ExecutionLogger)
	}
	jobs := make([]Job, 0, len(checks))
	for _, c := range checks {
		plan := c.plan
		jobs = append(jobs, Job{
			ID:   c.task.ID(),
			Name: c.task.Name(),
			Run: func(ctx context.Context) error {
				return plan.Execute(ctx, execCtx)
			},
		})
	}
	results := o.runner.Run(ctx, jobs)
	report.Results = completeResults(jobs, results, ctx.Err() != nil)

	// Summary
	report.Stage = StageSummary
	for _, r := range report.Results {
		switch {
		case r.Failed():
			report.Failed++
		case r.Skipped():
			report.Skipped++
		default:
			report.Completed++
		}
	}
	logger.Info().
		Int("completed", report.Completed).
		Int("failed", report.Failed).
		Int("skipped", report.Skipped).
		Msg("Run finished")
	return report, nil
}

func (o *Orchestrator) selectTasks(ctx context.Context) ([]tasks.Task, error) {
	if len(o.opts.TaskIDs) > 0 {
		return o.pick(o.opts.TaskIDs)
	}
	if o.opts.AssumeYes {
		return o.tasks, nil
	}

	choices := make([]TaskChoice, 0, len(o.tasks))
	for _, t := range o.tasks {
		choices = append(choices, TaskChoice{ID: t.ID(), Name: t.Name(), Description: t.Description()})
	}
	sel, err := o.selector.SelectTasks(ctx, choices)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "task selection failed")
	}
	if !sel.Confirmed {
		return nil, nil
	}
	return o.pick(sel.SelectedTaskIDs)
}

// pick returns the named tasks in the order given. Repeats are dropped.
func (o *Orchestrator) pick(ids []string) ([]tasks.Task, error) {
	byID := make(map[string]tasks.Task, len(o.tasks))
	for _, t := range o.tasks {
		byID[t.ID()] = t
	}
	seen := make(map[string]bool, len(ids))
	var out []tasks.Task
	var unknown []string
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		t, ok := byID[id]
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		out = append(out, t)
	}
	if len(unknown) > 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown tasks: %v", unknown)
	}
	return out, nil
}

func (o *Orchestrator) preCheck(ctx context.Context, ec *execution.Context, logger zerolog.Logger, selected []tasks.Task) []checked {
	checks := make([]checked, 0, len(selected))
	for _, t := range selected {
		checks = append(checks, checked{task: t, plan: safeCheck(ctx, ec, logger, t)})
	}
	return checks
}

// safeCheck runs Check, turning errors and panics into an empty plan
// carrying a warning.
func safeCheck(ctx context.Context, ec *execution.Context, logger zerolog.Logger, t tasks.Task) (plan tasks.Plan) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str("task", t.ID()).Interface("panic", r).Msg("Check panicked")
			plan = tasks.NewEmptyPlan(fmt.Sprintf("pre-check failed: panic: %v", r))
		}
	}()

	done := logging.LogOperationStart(logger, "check "+t.ID())
	defer done()

	p, err := t.Check(ctx, ec)
	if err != nil {
		logger.Error().Err(err).Str("task", t.ID()).Msg("Check failed")
		return tasks.NewEmptyPlan("pre-check failed: " + err.Error())
	}
	if p == nil {
		return tasks.NewEmptyPlan()
	}
	return p
}

func (o *Orchestrator) recordPlans(report *Report, checks []checked) {
	report.Plans = report.Plans[:0]
	report.Warnings = report.Warnings[:0]
	for _, c := range checks {
		res := c.plan.Result()
		_, selectable := c.plan.(tasks.Selectable)
		if sp, ok := c.plan.(interface{ Selected() []string }); ok && selectable {
			res.ToInstall = sp.Selected()
		}
		report.Plans = append(report.Plans, PlannedTask{
			ID:         c.task.ID(),
			Name:       c.task.Name(),
			Selectable: selectable,
			Result:     res,
		})
		for _, w := range res.Warnings {
			report.Warnings = append(report.Warnings, c.task.Name()+": "+w)
		}
	}
}

func selectableCategories(checks []checked) []Category {
	var cats []Category
	for _, c := range checks {
		if _, ok := c.plan.(tasks.Selectable); !ok {
			continue
		}
		res := c.plan.Result()
		if !res.HasPending() {
			continue
		}
		cats = append(cats, Category{
			TaskID:   c.task.ID(),
			Name:     c.task.Name(),
			UpToDate: res.UpToDate,
			Pending:  res.ToInstall,
		})
	}
	return cats
}

// applySelection narrows every selectable plan present in sel. Plans
// without an entry keep their full selection.
func applySelection(checks []checked, sel types.Selection) {
	for _, c := range checks {
		s, ok := c.plan.(tasks.Selectable)
		if !ok {
			continue
		}
		if ids, present := sel.For(c.task.ID()); present {
			s.ApplySelection(ids)
		}
	}
}

// completeResults pairs every job with a result. Jobs a runner did not
// report were skipped when the run was interrupted, and failed otherwise.
func completeResults(jobs []Job, results []types.TaskExecutionResult, interrupted bool) []types.TaskExecutionResult {
	byID := make(map[string]types.TaskExecutionResult, len(results))
	for _, r := range results {
		byID[r.ID] = r
	}
	out := make([]types.TaskExecutionResult, 0, len(jobs))
	for _, j := range jobs {
		r, ok := byID[j.ID]
		switch {
		case ok:
		case interrupted:
			r = types.TaskExecutionResult{ID: j.ID, Name: j.Name, Status: types.TaskStatusSkipped}
		default:
			r = types.TaskExecutionResult{ID: j.ID, Name: j.Name, Status: types.TaskStatusFailed, Error: "task did not run"}
		}
		out = append(out, r)
	}
	return out
}

func confirmQuestion(report *Report) string {
	items, taskCount := 0, 0
	for _, p := range report.Plans {
		if n := len(p.Result.ToInstall); n > 0 {
			items += n
			taskCount++
		}
	}
	if items == 0 {
		return "Nothing is pending. Run the selected tasks anyway?"
	}
	return fmt.Sprintf("Apply %d change(s) across %d task(s)?", items, taskCount)
}

func abort(report *Report, reason string) *Report {
	report.Aborted = true
	report.Reason = reason
	return report
}

func cancelled(ctx context.Context, report *Report) bool {
	if err := ctx.Err(); err != nil {
		abort(report, "cancelled: "+err.Error())
		return true
	}
	return false
}

func taskIDs(ts []tasks.Task) []string {
	ids := make([]string, 0, len(ts))
	for _, t := range ts {
		ids = append(ids, t.ID())
	}
	return ids
}
