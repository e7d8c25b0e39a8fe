package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/hostprep/pkg/execution"
	"github.com/arthur-debert/hostprep/pkg/logging"
	"github.com/arthur-debert/hostprep/pkg/tasks"
	"github.com/arthur-debert/hostprep/pkg/testutil"
	"github.com/arthur-debert/hostprep/pkg/types"
)

// fakeTask is a configurable tasks.Task
type fakeTask struct {
	tasks.Info
	pending  []string
	upToDate []string
	checkErr error
	panicOn  string
	execErr  error
	onExec   func()
	plan     *fakePlan
	log      *[]string
}

func newFakeTask(id string, log *[]string, pending ...string) *fakeTask {
	return &fakeTask{Info: tasks.Info{TaskID: id, TaskName: strings.ToUpper(id[:1]) + id[1:]}, pending: pending, log: log}
}

func (f *fakeTask) Check(ctx context.Context, ec *execution.Context) (tasks.Plan, error) {
	*f.log = append(*f.log, "check "+f.TaskID)
	if f.panicOn == "check" {
		panic("boom in check")
	}
	if f.checkErr != nil {
		return nil, f.checkErr
	}
	f.plan = &fakePlan{
		Pending: tasks.NewPending(f.pending),
		result:  types.TaskCheckResult{UpToDate: f.upToDate, ToInstall: f.pending},
		task:    f,
	}
	return f.plan, nil
}

type fakePlan struct {
	tasks.Pending
	result   types.TaskCheckResult
	task     *fakeTask
	executed []string
	logger   zerolog.Logger
}

func (p *fakePlan) Result() types.TaskCheckResult { return p.result }

func (p *fakePlan) Execute(ctx context.Context, ec *execution.Context) error {
	if !p.Begin() {
		*p.task.log = append(*p.task.log, "noop "+p.task.TaskID)
		return nil
	}
	*p.task.log = append(*p.task.log, "execute "+p.task.TaskID)
	p.logger = ec.Logger
	if p.task.onExec != nil {
		p.task.onExec()
	}
	if p.task.panicOn == "execute" {
		panic("boom in execute")
	}
	p.executed = p.Selected()
	return p.task.execErr
}

// tokenTask records the token it held when Check ran
type tokenTask struct {
	*fakeTask
	token     string
	seenToken string
}

func (t *tokenTask) TokenPrompt() string {
	return "token please"
}

func (t *tokenTask) SetToken(token string) {
	t.token = token
}

func (t *tokenTask) Check(ctx context.Context, ec *execution.Context) (tasks.Plan, error) {
	t.seenToken = t.token
	return t.fakeTask.Check(ctx, ec)
}

// fakeSelector answers prompts from function fields; unset fields accept
// everything.
type fakeSelector struct {
	selectTasks func([]TaskChoice) TaskSelection
	promptToken func(name, prompt string) TokenEntry
	selectItems func([]Category) ItemSelection
	err         error

	categories []Category
	calls      []string
}

func (s *fakeSelector) SelectTasks(_ context.Context, choices []TaskChoice) (TaskSelection, error) {
	s.calls = append(s.calls, "SelectTasks")
	if s.err != nil {
		return TaskSelection{}, s.err
	}
	if s.selectTasks != nil {
		return s.selectTasks(choices), nil
	}
	sel := TaskSelection{Confirmed: true}
	for _, c := range choices {
		sel.SelectedTaskIDs = append(sel.SelectedTaskIDs, c.ID)
	}
	return sel, nil
}

func (s *fakeSelector) PromptToken(_ context.Context, name, prompt string) (TokenEntry, error) {
	s.calls = append(s.calls, "PromptToken")
	if s.promptToken != nil {
		return s.promptToken(name, prompt), nil
	}
	return TokenEntry{Confirmed: true}, nil
}

func (s *fakeSelector) SelectItems(_ context.Context, categories []Category) (ItemSelection, error) {
	s.calls = append(s.calls, "SelectItems")
	s.categories = categories
	if s.selectItems != nil {
		return s.selectItems(categories), nil
	}
	sel := ItemSelection{Confirmed: true, SelectedByCategory: map[string][]string{}}
	for _, c := range categories {
		sel.SelectedByCategory[c.TaskID] = c.Pending
	}
	return sel, nil
}

func newContext(t *testing.T, answer bool) (*execution.Context, *testutil.RecordingConfirm) {
	confirm := &testutil.RecordingConfirm{Answer: answer}
	return testutil.NewContext(t, testutil.ContextOptions{Confirm: confirm.Confirm}), confirm
}

func runner() Runner {
	return NewSequentialRunner(logging.Nop())
}

func TestRunHappyPath(t *testing.T) {
	var log []string
	a := newFakeTask("alpha", &log, "a1", "a2")
	b := newFakeTask("beta", &log)
	ec, confirm := newContext(t, true)
	sel := &fakeSelector{}

	report, err := New([]tasks.Task{a, b}, sel, runner(), Options{}).Run(context.Background(), ec)
	require.NoError(t, err)

	assert.False(t, report.Aborted)
	assert.Equal(t, StageSummary, report.Stage)
	assert.Equal(t, []string{"check alpha", "check beta", "execute alpha", "noop beta"}, log)
	assert.Equal(t, []string{"SelectTasks", "SelectItems"}, sel.calls)
	require.Len(t, sel.categories, 1, "only plans with pending items are offered")
	assert.Equal(t, "alpha", sel.categories[0].TaskID)
	assert.Len(t, confirm.Questions, 1)
	assert.Equal(t, []string{"a1", "a2"}, a.plan.executed)
	assert.Equal(t, 2, report.Completed)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, "alpha", report.Results[0].ID)
	assert.Equal(t, "beta", report.Results[1].ID)
}

func TestRunCheckFailureIsIsolated(t *testing.T) {
	var log []string
	one := newFakeTask("packages", &log, "git")
	two := newFakeTask("snaps", &log, "code")
	two.checkErr = errors.New("snap list: permission denied")
	three := newFakeTask("gnome", &log, "clock")
	ec, _ := newContext(t, true)
	sel := &fakeSelector{}

	report, err := New([]tasks.Task{one, two, three}, sel, runner(), Options{}).Run(context.Background(), ec)
	require.NoError(t, err)

	assert.Equal(t, []string{"Snaps: pre-check failed: snap list: permission denied"}, report.Warnings)
	require.Len(t, sel.categories, 2)
	assert.Equal(t, "packages", sel.categories[0].TaskID)
	assert.Equal(t, "gnome", sel.categories[1].TaskID)

	assert.Equal(t, []string{
		"check packages", "check snaps", "check gnome",
		"execute packages", "execute gnome",
	}, log)
	require.Len(t, report.Results, 3)
	for _, r := range report.Results {
		assert.Equal(t, types.TaskStatusCompleted, r.Status, r.ID)
	}
	assert.Equal(t, 3, report.Completed)
	assert.Empty(t, report.Plans[1].Result.ToInstall)
}

func TestRunPanicsAreContained(t *testing.T) {
	var log []string
	checkPanics := newFakeTask("alpha", &log, "x")
	checkPanics.panicOn = "check"
	execPanics := newFakeTask("beta", &log, "y")
	execPanics.panicOn = "execute"
	execFails := newFakeTask("gamma", &log, "z")
	execFails.execErr = errors.New("install failed")
	fine := newFakeTask("delta", &log, "w")
	ec, _ := newContext(t, true)

	report, err := New([]tasks.Task{checkPanics, execPanics, execFails, fine}, &fakeSelector{}, runner(), Options{}).
		Run(context.Background(), ec)
	require.NoError(t, err)

	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "Alpha: pre-check failed: panic: boom in check")

	require.Len(t, report.Results, 4)
	assert.Equal(t, types.TaskStatusCompleted, report.Results[0].Status)
	assert.Equal(t, types.TaskStatusFailed, report.Results[1].Status)
	assert.Contains(t, report.Results[1].Error, "boom in execute")
	assert.Equal(t, types.TaskStatusFailed, report.Results[2].Status)
	assert.Equal(t, "install failed", report.Results[2].Error)
	assert.Equal(t, types.TaskStatusCompleted, report.Results[3].Status)
	assert.Equal(t, 2, report.Completed)
	assert.Equal(t, 2, report.Failed)
	assert.True(t, report.HasFailures())
}

func TestRunAborts(t *testing.T) {
	tests := []struct {
		name      string
		selector  *fakeSelector
		confirm   bool
		wantStage Stage
	}{
		{
			name: "task selection declined",
			selector: &fakeSelector{selectTasks: func([]TaskChoice) TaskSelection {
				return TaskSelection{Confirmed: false}
			}},
			confirm:   true,
			wantStage: StageTaskSelect,
		},
		{
			name: "zero tasks selected",
			selector: &fakeSelector{selectTasks: func([]TaskChoice) TaskSelection {
				return TaskSelection{Confirmed: true}
			}},
			confirm:   true,
			wantStage: StageTaskSelect,
		},
		{
			name: "plan selection cancelled",
			selector: &fakeSelector{selectItems: func([]Category) ItemSelection {
				return ItemSelection{Confirmed: false}
			}},
			confirm:   true,
			wantStage: StagePlanSelect,
		},
		{
			name:      "confirmation declined",
			selector:  &fakeSelector{},
			confirm:   false,
			wantStage: StageConfirm,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var log []string
			task := newFakeTask("alpha", &log, "a1")
			ec, _ := newContext(t, tt.confirm)

			report, err := New([]tasks.Task{task}, tt.selector, runner(), Options{}).Run(context.Background(), ec)
			require.NoError(t, err)
			assert.True(t, report.Aborted)
			assert.Equal(t, tt.wantStage, report.Stage)
			assert.NotContains(t, log, "execute alpha")
			assert.Empty(t, report.Results)
		})
	}
}

func TestRunSelectorError(t *testing.T) {
	var log []string
	ec, _ := newContext(t, true)
	sel := &fakeSelector{err: errors.New("no tty")}

	_, err := New([]tasks.Task{newFakeTask("alpha", &log)}, sel, runner(), Options{}).Run(context.Background(), ec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tty")
	assert.Empty(t, log)
}

func TestRunAppliesItemSelection(t *testing.T) {
	var log []string
	a := newFakeTask("alpha", &log, "a1", "a2", "a3")
	b := newFakeTask("beta", &log, "b1")
	ec, _ := newContext(t, true)
	sel := &fakeSelector{selectItems: func([]Category) ItemSelection {
		return ItemSelection{Confirmed: true, SelectedByCategory: map[string][]string{
			"alpha": {"a3", "a1", "bogus"},
			"beta":  {},
		}}
	}}

	report, err := New([]tasks.Task{a, b}, sel, runner(), Options{}).Run(context.Background(), ec)
	require.NoError(t, err)

	assert.Equal(t, []string{"a1", "a3"}, a.plan.executed)
	assert.Nil(t, b.plan.executed)
	assert.Contains(t, log, "noop beta")
	assert.Equal(t, []string{"a1", "a3"}, report.Plans[0].Result.ToInstall)
}

func TestRunTokenCollectedBeforeCheck(t *testing.T) {
	var log []string
	task := &tokenTask{fakeTask: newFakeTask("repos", &log, "ada/x")}
	ec, _ := newContext(t, true)
	var asked []string
	sel := &fakeSelector{promptToken: func(name, prompt string) TokenEntry {
		asked = append(asked, name+"|"+prompt)
		return TokenEntry{Confirmed: true, Token: "ghp_abc"}
	}}

	_, err := New([]tasks.Task{task}, sel, runner(), Options{}).Run(context.Background(), ec)
	require.NoError(t, err)
	assert.Equal(t, "ghp_abc", task.seenToken)
	assert.Equal(t, []string{"Repos|token please"}, asked)
	assert.Equal(t, []string{"SelectTasks", "PromptToken", "SelectItems"}, sel.calls)
}

func TestRunTokenCancelled(t *testing.T) {
	var log []string
	task := &tokenTask{fakeTask: newFakeTask("repos", &log, "ada/x")}
	ec, _ := newContext(t, true)
	sel := &fakeSelector{promptToken: func(string, string) TokenEntry { return TokenEntry{} }}

	report, err := New([]tasks.Task{task}, sel, runner(), Options{}).Run(context.Background(), ec)
	require.NoError(t, err)
	assert.True(t, report.Aborted)
	assert.Equal(t, StageTokenEntry, report.Stage)
	assert.Empty(t, log, "no check may run without the token")
}

func TestRunAssumeYes(t *testing.T) {
	var log []string
	a := newFakeTask("alpha", &log, "a1")
	tok := &tokenTask{fakeTask: newFakeTask("repos", &log, "ada/x"), token: "configured"}
	ec, confirm := newContext(t, false)
	sel := &fakeSelector{}

	report, err := New([]tasks.Task{a, tok}, sel, runner(), Options{AssumeYes: true}).Run(context.Background(), ec)
	require.NoError(t, err)
	assert.Empty(t, sel.calls, "no prompt is shown")
	assert.Empty(t, confirm.Questions)
	assert.Equal(t, "configured", tok.seenToken)
	assert.Equal(t, 2, report.Completed)
}

func TestRunPreselectedTasks(t *testing.T) {
	var log []string
	a := newFakeTask("alpha", &log, "a1")
	b := newFakeTask("beta", &log, "b1")
	ec, _ := newContext(t, true)
	sel := &fakeSelector{}

	report, err := New([]tasks.Task{a, b}, sel, runner(), Options{TaskIDs: []string{"beta"}}).Run(context.Background(), ec)
	require.NoError(t, err)
	assert.NotContains(t, sel.calls, "SelectTasks")
	assert.Equal(t, []string{"check beta", "execute beta"}, log)
	require.Len(t, report.Results, 1)

	_, err = New([]tasks.Task{a, b}, sel, runner(), Options{TaskIDs: []string{"gamma"}}).Run(context.Background(), ec)
	assert.Error(t, err)
}

func TestRunPreselectedTasksKeepGivenOrder(t *testing.T) {
	var log []string
	a := newFakeTask("alpha", &log, "a1")
	b := newFakeTask("beta", &log, "b1")
	ec, _ := newContext(t, true)

	report, err := New([]tasks.Task{a, b}, &fakeSelector{}, runner(), Options{TaskIDs: []string{"beta", "alpha", "beta"}}).
		Run(context.Background(), ec)
	require.NoError(t, err)
	assert.Equal(t, []string{"check beta", "check alpha", "execute beta", "execute alpha"}, log)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "beta", report.Results[0].ID)
	assert.Equal(t, "alpha", report.Results[1].ID)
}

func TestRunStopAfterPlan(t *testing.T) {
	var log []string
	a := newFakeTask("alpha", &log, "a1")
	a.upToDate = []string{"a0"}
	ec, confirm := newContext(t, true)

	report, err := New([]tasks.Task{a}, &fakeSelector{}, runner(), Options{StopAfterPlan: true, AssumeYes: true}).
		Run(context.Background(), ec)
	require.NoError(t, err)
	assert.False(t, report.Aborted)
	assert.Equal(t, StagePlanSelect, report.Stage)
	assert.Equal(t, []string{"check alpha"}, log)
	assert.Empty(t, confirm.Questions)
	require.Len(t, report.Plans, 1)
	assert.Equal(t, []string{"a0"}, report.Plans[0].Result.UpToDate)
	assert.True(t, report.HasPending())
}

func TestRunOnPlanBeforeConfirm(t *testing.T) {
	var log []string
	a := newFakeTask("alpha", &log, "a1")
	ec, confirm := newContext(t, false)

	var seen []string
	opts := Options{OnPlan: func(r *Report) {
		seen = append(seen, string(r.Stage))
		assert.Empty(t, confirm.Questions, "plan is shown before the confirmation prompt")
	}}
	report, err := New([]tasks.Task{a}, &fakeSelector{}, runner(), opts).Run(context.Background(), ec)
	require.NoError(t, err)
	assert.True(t, report.Aborted, "the recording prompt declines")
	assert.Equal(t, []string{"plan-select"}, seen)
}

func TestRunCancelledContext(t *testing.T) {
	var log []string
	ec, _ := newContext(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New([]tasks.Task{newFakeTask("alpha", &log, "a")}, &fakeSelector{}, runner(), Options{}).Run(ctx, ec)
	require.NoError(t, err)
	assert.True(t, report.Aborted)
	assert.Contains(t, report.Reason, "cancelled")
	assert.Empty(t, log)
}

func TestRunInterruptedDuringExecute(t *testing.T) {
	var log []string
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a := newFakeTask("alpha", &log, "a1")
	a.onExec = cancel
	b := newFakeTask("beta", &log, "b1")
	ec, _ := newContext(t, true)

	report, err := New([]tasks.Task{a, b}, &fakeSelector{}, runner(), Options{AssumeYes: true}).Run(ctx, ec)
	require.NoError(t, err)
	assert.Equal(t, []string{"check alpha", "check beta", "execute alpha"}, log)
	require.Len(t, report.Results, 2)
	assert.Equal(t, types.TaskStatusCompleted, report.Results[0].Status, "the task in flight finishes")
	assert.Equal(t, types.TaskStatusSkipped, report.Results[1].Status)
	assert.Equal(t, 1, report.Completed)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 1, report.Skipped)
	assert.False(t, report.HasFailures())
}

func TestRunExecutionLogger(t *testing.T) {
	var log []string
	a := newFakeTask("alpha", &log, "a1")
	ec, _ := newContext(t, true)
	var buf bytes.Buffer
	quiet := zerolog.New(&buf)

	_, err := New([]tasks.Task{a}, &fakeSelector{}, runner(), Options{ExecutionLogger: &quiet}).Run(context.Background(), ec)
	require.NoError(t, err)

	a.plan.logger.Info().Msg("from execute")
	assert.Contains(t, buf.String(), "from execute")
}

type shortRunner struct{}

func (shortRunner) Run(context.Context, []Job) []types.TaskExecutionResult { return nil }

func TestRunFillsMissingResults(t *testing.T) {
	var log []string
	ec, _ := newContext(t, true)

	report, err := New([]tasks.Task{newFakeTask("alpha", &log, "a")}, &fakeSelector{}, shortRunner{}, Options{}).
		Run(context.Background(), ec)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.True(t, report.Results[0].Failed())
}
