// Package syspkg installs the packages named in the package list with the
// host's package manager.
package syspkg

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
const ID = "packages"

func init() {
	tasks.Register(ID, func(cfg *config.Config) tasks.Task {
		return New(cfg.Lists.Packages)
	})
}

// Task diffs the package list against installed packages
type Task struct {
	tasks.Info
	listPath string
}

// New creates the task reading its list from listPath
func New(listPath string) *Task {
	return &Task{
		Info: tasks.Info{
			TaskID:          ID,
			TaskName:        "System packages",
			TaskDescription: "Install packages from the package list with the system package manager",
		},
		listPath: listPath,
	}
}

// Check reads the list and the installed set
func (t *Task) Check(ctx context.Context, ec *execution.Context) (tasks.Plan, error) {
	logger := logging.Component(ec.Logger, ID)
	path := paths.ResolveAgainst(ec.RootDir, t.listPath)

	lines, err := listfile.ReadLines(ec.FS, path)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrNotFound) {
			logger.Info().Str("path", path).Msg("Package list not found")
			return tasks.NewEmptyPlan("package list " + path + " not found"), nil
		}
		return nil, errors.Wrap(err, errors.ErrTaskCheck, "failed to read package list")
	}
	desired := listfile.Names(lines)

	out, err := ec.Runner.Capture(ctx, pkgmgr.QueryInstalled(ec.PackageManager))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTaskCheck, "failed to query installed %s packages", ec.PackageManager)
	}
	installed := pkgmgr.ParseInstalled(out)

	var result types.TaskCheckResult
	var pending []string
	for _, name := range desired {
		if installed[name] {
			result.UpToDate = append(result.UpToDate, name)
		} else {
			pending = append(pending, name)
		}
	}
	result.ToInstall = pending

	logger.Debug().
		Int("desired", len(desired)).
		Int("installed", len(result.UpToDate)).
		Int("pending", len(pending)).
		Msg("Package check complete")

	return &Plan{Pending: tasks.NewPending(pending), result: result}, nil
}

// Plan installs the selected packages
type Plan struct {
	tasks.Pending
	result types.TaskCheckResult
}

// Result returns what Check found
func (p *Plan) Result() types.TaskCheckResult {
	return p.result
}

// Execute refreshes metadata and installs the selection in one batch. When
// the batch fails each package is retried alone, in list order.
func (p *Plan) Execute(ctx context.Context, ec *execution.Context) error {
	if !p.Begin() {
		return nil
	}
	logger := logging.Component(ec.Logger, ID)
	pkgs := p.Selected()
	pm := ec.PackageManager

	code, err := ec.Runner.Stream(ctx, ec.Sudo(pkgmgr.Refresh(pm)))
	if err != nil {
		return errors.Wrap(err, errors.ErrTaskExecute, "failed to refresh package metadata")
	}
	if code != 0 {
		logger.Warn().Int("exit_code", code).Msg("Package metadata refresh failed, continuing")
	}

	code, err = ec.Runner.Stream(ctx, ec.Sudo(pkgmgr.Install(pm, pkgs...)))
	if err != nil {
		return errors.Wrap(err, errors.ErrTaskExecute, "failed to start package install")
	}
	if code == 0 {
		logger.Info().Int("count", len(pkgs)).Msg("Packages installed")
		return nil
	}

	logger.Warn().Int("exit_code", code).Msg("Batch install failed, installing packages one at a time")

	var failed []string
	for _, pkg := range pkgs {
		code, err := ec.Runner.Stream(ctx, ec.Sudo(pkgmgr.Install(pm, pkg)))
		if err != nil || code != 0 {
			logger.Error().Err(err).Int("exit_code", code).Str("package", pkg).Msg("Package install failed")
			failed = append(failed, pkg)
			continue
		}
		logger.Info().Str("package", pkg).Msg("Package installed")
	}

	if len(failed) == len(pkgs) {
		return errors.Newf(errors.ErrTaskExecute, "failed to install: %s", strings.Join(failed, ", "))
	}
	if len(failed) > 0 {
		logger.Warn().
			Int("failed", len(failed)).
			Int("installed", len(pkgs)-len(failed)).
			Strs("packages", failed).
			Msg("Some packages could not be installed")
	}
	return nil
}

var (
	_ tasks.Task       = (*Task)(nil)
	_ tasks.Plan       = (*Plan)(nil)
	_ tasks.Selectable = (*Plan)(nil)
)
