// Package gnome applies the GNOME settings listed in the gsettings list.
package gnome

import (
	"context"
	"strings"

	"github.com/arthur-debert/hostprep/pkg/config"
	"github.com/arthur-debert/hostprep/pkg/errors"
	"github.com/arthur-debert/hostprep/pkg/execution"
	"github.com/arthur-debert/hostprep/pkg/listfile"
	"github.com/arthur-debert/hostprep/pkg/logging"
	"github.com/arthur-debert/hostprep/pkg/paths"
	"github.com/arthur-debert/hostprep/pkg/tasks"
	"github.com/arthur-debert/hostprep/pkg/types"
)

// ID identifies the task in config and selections
const ID = "gnome"

// WarnNoGsettings is reported when the gsettings tool is missing
const WarnNoGsettings = "gsettings is not available; skipping GNOME settings"

func init() {
	tasks.Register(ID, func(cfg *config.Config) tasks.Task {
		return New(cfg.Lists.Gnome)
	})
}

// Task compares desired GNOME settings with current values
type Task struct {
	tasks.Info
	listPath string
}

// New creates the task reading its list from listPath
func New(listPath string) *Task {
	return &Task{
		Info: tasks.Info{
			TaskID:          ID,
			TaskName:        "GNOME settings",
			TaskDescription: "Apply desktop preferences with gsettings",
		},
		listPath: listPath,
	}
}

// Check reads each listed key and compares it with the desired value
func (t *Task) Check(ctx context.Context, ec *execution.Context) (tasks.Plan, error) {
	logger := logging.Component(ec.Logger, ID)
	path := paths.ResolveAgainst(ec.RootDir, t.listPath)

	lines, err := listfile.ReadSettingLines(ec.FS, path)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrNotFound) {
			return tasks.NewEmptyPlan("gnome settings list " + path + " not found"), nil
		}
		return nil, errors.Wrap(err, errors.ErrTaskCheck, "failed to read gnome settings list")
	}

	if _, err := ec.Runner.LookPath("gsettings"); err != nil {
		return tasks.NewEmptyPlan(WarnNoGsettings), nil
	}

	plan := &Plan{settings: make(map[string]listfile.GSetting)}
	var pending []string
	for _, line := range lines {
		setting, err := listfile.ParseGSetting(line)
		if err != nil {
			plan.result.AddWarning(err.Error())
			continue
		}
		id := setting.ID()
		if _, dup := plan.settings[id]; dup {
			plan.result.AddWarning("duplicate setting " + id + " ignored")
			continue
		}

		current, err := ec.Runner.Capture(ctx, types.NewCommand("gsettings", "get", setting.Schema, setting.Key))
		if err != nil {
			logger.Debug().Err(err).Str("setting", id).Msg("Cannot read current value")
			plan.result.AddWarning("cannot read " + id + ": " + firstLine(err.Error()))
			continue
		}

		plan.settings[id] = setting
		if listfile.NormalizeValue(current) == listfile.NormalizeValue(setting.Value) {
			plan.result.UpToDate = append(plan.result.UpToDate, id)
		} else {
			pending = append(pending, id)
		}
	}
	plan.result.ToInstall = pending
	plan.Pending = tasks.NewPending(pending)

	return plan, nil
}

// Plan writes the selected settings
type Plan struct {
	tasks.Pending
	result   types.TaskCheckResult
	settings map[string]listfile.GSetting
}

// Result returns what Check found
func (p *Plan) Result() types.TaskCheckResult {
	return p.result
}

// Execute runs gsettings set for each selected key
func (p *Plan) Execute(ctx context.Context, ec *execution.Context) error {
	if !p.Begin() {
		return nil
	}
	logger := logging.Component(ec.Logger, ID)

	selected := p.Selected()
	var failed []string
	for _, id := range selected {
		s := p.settings[id]
		code, err := ec.Runner.Stream(ctx, types.NewCommand("gsettings", "set", s.Schema, s.Key, s.Value))
		if err != nil || code != 0 {
			logger.Error().Err(err).Int("exit_code", code).Str("setting", id).Msg("Setting could not be applied")
			failed = append(failed, id)
			continue
		}
		logger.Info().Str("setting", id).Str("value", s.Value).Msg("Setting applied")
	}

	if len(failed) == len(selected) {
		return errors.Newf(errors.ErrTaskExecute, "failed to apply: %s", strings.Join(failed, ", "))
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

var (
	_ tasks.Task       = (*Task)(nil)
	_ tasks.Plan       = (*Plan)(nil)
	_ tasks.Selectable = (*Plan)(nil)
)
