package tasks

import (
	"context"

	"github.com/arthur-debert/hostprep/pkg/execution"
	"github.com/arthur-debert/hostprep/pkg/types"
)

// EmptyPlan has nothing to do. It is returned when a task cannot inspect
// the host and is substituted for plans whose Check failed.
type EmptyPlan struct {
	result types.TaskCheckResult
}

// NewEmptyPlan returns a plan carrying only warnings
func NewEmptyPlan(warnings ...string) *EmptyPlan {
	p := &EmptyPlan{}
	for _, w := range warnings {
		p.result.AddWarning(w)
	}
	return p
}

// Result returns the warnings and no items
func (p *EmptyPlan) Result() types.TaskCheckResult {
	if p == nil {
		return types.TaskCheckResult{}
	}
	return p.result
}

// Execute does nothing
func (p *EmptyPlan) Execute(context.Context, *execution.Context) error {
	return nil
}

// Pending tracks the items a plan will act on. The zero value has nothing
// pending. Embed it in a plan to make the plan Selectable.
type Pending struct {
	planned  []string
	selected []string
	executed bool
}

// NewPending starts with every planned item selected
func NewPending(planned []string) Pending {
	return Pending{
		planned:  append([]string(nil), planned...),
		selected: append([]string(nil), planned...),
	}
}

// ApplySelection narrows the selection to planned ∩ ids
func (p *Pending) ApplySelection(ids []string) {
	p.selected = Narrow(p.planned, ids)
}

// Selected returns the items that will be acted on
func (p *Pending) Selected() []string {
	return append([]string(nil), p.selected...)
}

// IsSelected reports whether id will be acted on
func (p *Pending) IsSelected(id string) bool {
	for _, s := range p.selected {
		if s == id {
			return true
		}
	}
	return false
}

// Begin marks the plan executed. It returns false when the plan already
// ran or has nothing selected, in which case Execute must return nil.
func (p *Pending) Begin() bool {
	if p.executed || len(p.selected) == 0 {
		p.executed = true
		return false
	}
	p.executed = true
	return true
}

// Narrow returns the items of planned that appear in ids, in planned order
func Narrow(planned, ids []string) []string {
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}
	var out []string
	for _, item := range planned {
		if keep[item] {
			out = append(out, item)
		}
	}
	return out
}

var _ Plan = (*EmptyPlan)(nil)
var _ Selectable = (*Pending)(nil)
