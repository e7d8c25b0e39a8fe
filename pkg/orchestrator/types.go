package orchestrator

import (
	"context"

	"github.com/arthur-debert/hostprep/pkg/types"
)

// Stage names a pipeline state
type Stage string

const (
	StageInit       Stage = "init"
	StageTaskSelect Stage = "task-select"
	StageTokenEntry Stage = "token-entry"
	StagePreCheck   Stage = "pre-check"
	StagePlanSelect Stage = "plan-select"
	StageConfirm    Stage = "confirm"
	StageExecute    Stage = "execute"
	StageSummary    Stage = "summary"
)

// TaskChoice describes a task offered for selection
type TaskChoice struct {
	ID          string
	Name        string
	Description string
}

// TaskSelection is the answer to SelectTasks
type TaskSelection struct {
	Confirmed       bool
	SelectedTaskIDs []string
}

// TokenEntry is the answer to PromptToken
type TokenEntry struct {
	Confirmed bool
	Token     string
}

// Category is one task's selectable pending items
type Category struct {
	TaskID   string
	Name     string
	UpToDate []string
	Pending  []string
}

// ItemSelection is the answer to SelectItems, keyed by task id
type ItemSelection struct {
	Confirmed          bool
	SelectedByCategory map[string][]string
}

// Selector collects user decisions. Implementations report a user
// cancellation as Confirmed=false, not as an error.
type Selector interface {
	SelectTasks(ctx context.Context, choices []TaskChoice) (TaskSelection, error)
	PromptToken(ctx context.Context, taskName, prompt string) (TokenEntry, error)
	SelectItems(ctx context.Context, categories []Category) (ItemSelection, error)
}

// Job is one task execution handed to a Runner
type Job struct {
	ID   string
	Name string
	Run  func(ctx context.Context) error
}

// Runner executes jobs one after another and returns a result per job,
// in job order, even when some of them fail.
type Runner interface {
	Run(ctx context.Context, jobs []Job) []types.TaskExecutionResult
}

// PlannedTask is a task's Check outcome as shown to the user
type PlannedTask struct {
	ID         string                `json:"id" yaml:"id"`
	Name       string                `json:"name" yaml:"name"`
	Selectable bool                  `json:"selectable" yaml:"selectable"`
	Result     types.TaskCheckResult `json:"result" yaml:"result"`
}

// Report is the outcome of one pipeline run
type Report struct {
	Aborted   bool                        `json:"aborted" yaml:"aborted"`
	Stage     Stage                       `json:"stage" yaml:"stage"`
	Reason    string                      `json:"reason,omitempty" yaml:"reason,omitempty"`
	Plans     []PlannedTask               `json:"plans,omitempty" yaml:"plans,omitempty"`
	Warnings  []string                    `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Results   []types.TaskExecutionResult `json:"results,omitempty" yaml:"results,omitempty"`
	Completed int                         `json:"completed" yaml:"completed"`
	Failed    int                         `json:"failed" yaml:"failed"`
	Skipped   int                         `json:"skipped" yaml:"skipped"`
}

// HasFailures reports whether any executed task failed
func (r *Report) HasFailures() bool {
	return r != nil && r.Failed > 0
}

// HasPending reports whether any plan has items left to act on
func (r *Report) HasPending() bool {
	if r == nil {
		return false
	}
	for _, p := range r.Plans {
		if p.Result.HasPending() {
			return true
		}
	}
	return false
}
