package tasks

import (
	"context"

	"github.com/arthur-debert/hostprep/pkg/execution"
	"github.com/arthur-debert/hostprep/pkg/types"
)

// Task is one independent unit of host provisioning
type Task interface {
	ID() string
	Name() string
	Description() string

	// Check inspects the host without changing it. Missing optional tools
	// or list files become warnings on an empty plan. An error means an
	// unexpected fault.
	Check(ctx context.Context, ec *execution.Context) (Plan, error)
}

// Plan is the outcome of Check and the handle used to execute it
type Plan interface {
	Result() types.TaskCheckResult
	Execute(ctx context.Context, ec *execution.Context) error
}

// Selectable plans can be narrowed to a subset of their pending items
type Selectable interface {
	// ApplySelection keeps the pending items that are also in ids.
	// Calling it again with the same ids changes nothing.
	ApplySelection(ids []string)
}

// TokenReceiver tasks need a credential collected before Check
type TokenReceiver interface {
	TokenPrompt() string
	SetToken(token string)
}

// Info carries the descriptive half of Task for embedding
type Info struct {
	TaskID          string
	TaskName        string
	TaskDescription string
}

// ID returns the stable identifier used in config and selections
func (i Info) ID() string { return i.TaskID }

// Name returns the human readable name
func (i Info) Name() string { return i.TaskName }

// Description returns a one line summary
func (i Info) Description() string { return i.TaskDescription }
