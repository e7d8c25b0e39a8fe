// Package snap installs the applications named in the snap list,
// bootstrapping snapd first when the host does not have it.
package snap

import (
	"context"
	"strings"

	"github.com/arthur-debert/hostprep/pkg/config"
	"github.com/arthur-debert/hostprep/pkg/errors"
	"github.com/arthur-debert/hostprep/pkg/execution"
	"github.com/arthur-debert/hostprep/pkg/listfile"
	"github.com/arthur-debert/hostprep/pkg/logging"
	"github.com/arthur-debert/hostprep/pkg/paths"
	"github.com/arthur-debert/hostprep/pkg/pkgmgr"
	"github.com/arthur-debert/hostprep/pkg/tasks"
	"github.com/arthur-debert/hostprep/pkg/types"
)

// ID identifies the task in config and selections
const ID = "snaps"

// WarnSnapdMissing is reported when snapd has to be installed first
const WarnSnapdMissing = "snapd is not installed; it will be installed first"

func init() {
	tasks.Register(ID, func(cfg *config.Config) tasks.Task {
		return New(cfg.Lists.Snaps)
	})
}

// Task diffs the snap list against installed snaps
type Task struct {
	tasks.Info
	listPath string
}

// New creates the task reading its list from listPath
func New(listPath string) *Task {
	return &Task{
		Info: tasks.Info{
			TaskID:          ID,
			TaskName:        "Snap packages",
			TaskDescription: "Install snap applications, installing snapd when missing",
		},
		listPath: listPath,
	}
}

// Check reads the list and, when snap is available, the installed snaps
func (t *Task) Check(ctx context.Context, ec *execution.Context) (tasks.Plan, error) {
	logger := logging.Component(ec.Logger, ID)
	path := paths.ResolveAgainst(ec.RootDir, t.listPath)

	lines, err := listfile.ReadLines(ec.FS, path)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrNotFound) {
			logger.Info().Str("path", path).Msg("Snap list not found")
			return tasks.NewEmptyPlan("snap list " + path + " not found"), nil
		}
		return nil, errors.Wrap(err, errors.ErrTaskCheck, "failed to read snap list")
	}
	entries := listfile.ParseSnaps(lines)

	plan := &Plan{flags: make(map[string][]string, len(entries))}
	for _, e := range entries {
		plan.flags[e.Name] = e.Flags
	}

	installed := map[string]bool{}
	if _, err := ec.Runner.LookPath("snap"); err != nil {
		logger.Info().Msg("snap command not found")
		plan.needSnapd = true
		plan.result.AddWarning(WarnSnapdMissing)
	} else {
		out, err := ec.Runner.Capture(ctx, types.NewCommand("snap", "list"))
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrTaskCheck, "failed to list installed snaps")
		}
		installed = ParseList(out)
	}

	var pending []string
	for _, e := range entries {
		if installed[e.Name] {
			plan.result.UpToDate = append(plan.result.UpToDate, e.Name)
		} else {
			pending = append(pending, e.Name)
		}
	}
	plan.result.ToInstall = pending
	plan.Pending = tasks.NewPending(pending)

	return plan, nil
}

// ParseList reads `snap list` output: a header line, then one snap per
// line with the name in the first column.
func ParseList(output string) map[string]bool {
	installed := make(map[string]bool)
	for i, line := range strings.Split(output, "\n") {
		if i == 0 {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		installed[fields[0]] = true
	}
	return installed
}

// Plan installs the selected snaps
type Plan struct {
	tasks.Pending
	result    types.TaskCheckResult
	flags     map[string][]string
	needSnapd bool
}

// Result returns what Check found
func (p *Plan) Result() types.TaskCheckResult {
	return p.result
}

// Execute installs snapd when required, then each selected snap
func (p *Plan) Execute(ctx context.Context, ec *execution.Context) error {
	if !p.Begin() {
		return nil
	}
	logger := logging.Component(ec.Logger, ID)

	if p.needSnapd {
		if err := installSnapd(ctx, ec); err != nil {
			return err
		}
		logger.Info().Msg("snapd installed and enabled")
	}

	selected := p.Selected()
	var failed []string
	for _, name := range selected {
		args := append([]string{"install", name}, p.flags[name]...)
		code, err := ec.Runner.Stream(ctx, ec.Sudo(types.NewCommand("snap", args...)))
		if err != nil || code != 0 {
			logger.Error().Err(err).Int("exit_code", code).Str("snap", name).Msg("Snap install failed")
			failed = append(failed, name)
			continue
		}
		logger.Info().Str("snap", name).Msg("Snap installed")
	}

	if len(failed) == len(selected) {
		return errors.Newf(errors.ErrTaskExecute, "failed to install snaps: %s", strings.Join(failed, ", "))
	}
	if len(failed) > 0 {
		logger.Warn().Int("failed", len(failed)).Strs("snaps", failed).Msg("Some snaps could not be installed")
	}
	return nil
}

func installSnapd(ctx context.Context, ec *execution.Context) error {
	steps := []types.Command{
		pkgmgr.Install(ec.PackageManager, "snapd"),
		types.NewCommand("systemctl", "enable", "--now", "snapd.socket"),
	}
	for _, step := range steps {
		code, err := ec.Runner.Stream(ctx, ec.Sudo(step))
		if err != nil {
			return errors.Wrapf(err, errors.ErrTaskExecute, "failed to start %s", step.Name)
		}
		if code != 0 {
			return errors.Newf(errors.ErrTaskExecute, "snapd bootstrap failed: %s exited with %d", step.String(), code)
		}
	}
	return nil
}

var (
	_ tasks.Task       = (*Task)(nil)
	_ tasks.Plan       = (*Plan)(nil)
	_ tasks.Selectable = (*Plan)(nil)
)
