package types

import "time"

// TaskStatus is the terminal status of a task execution.
type TaskStatus string

const (
	// TaskStatusCompleted means Execute returned without error
	TaskStatusCompleted TaskStatus = "completed"

	// TaskStatusFailed means Execute returned an error or panicked
	TaskStatusFailed TaskStatus = "failed"

	// TaskStatusSkipped means the run was interrupted before the task started
	TaskStatusSkipped TaskStatus = "skipped"
)

// TaskCheckResult is the read-only plan a task reports from Check.
// An item name appears in at most one of UpToDate and ToInstall.
type TaskCheckResult struct {
	// UpToDate lists items already satisfied on this host
	UpToDate []string `json:"up_to_date" yaml:"up_to_date"`

	// ToInstall lists items that need action
	ToInstall []string `json:"to_install" yaml:"to_install"`

	// Warnings are advisory; they do not imply failure
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// HasPending reports whether any item needs action.
func (r TaskCheckResult) HasPending() bool {
	return len(r.ToInstall) > 0
}

// AddWarning appends an advisory message.
func (r *TaskCheckResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// TaskExecutionResult records the outcome of one executed task.
type TaskExecutionResult struct {
	ID       string        `json:"id" yaml:"id"`
	Name     string        `json:"name" yaml:"name"`
	Status   TaskStatus    `json:"status" yaml:"status"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Failed reports whether the task ended in failure.
func (r TaskExecutionResult) Failed() bool {
	return r.Status == TaskStatusFailed
}

// Skipped reports whether the task never started.
func (r TaskExecutionResult) Skipped() bool {
	return r.Status == TaskStatusSkipped
}

// Selection maps a task ID to the subset of its pending items the user
// approved. A missing key means item-level selection does not apply.
type Selection map[string][]string

// For returns the approved items for a task and whether the task has an entry.
func (s Selection) For(taskID string) ([]string, bool) {
	items, ok := s[taskID]
	return items, ok
}
