// Package dotfiles links the top-level entries of a dotfiles directory into
// the home directory.
package dotfiles

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/hostprep/pkg/config"
	"github.com/arthur-debert/hostprep/pkg/errors"
	"github.com/arthur-debert/hostprep/pkg/execution"
	"github.com/arthur-debert/hostprep/pkg/logging"
	"github.com/arthur-debert/hostprep/pkg/paths"
	"github.com/arthur-debert/hostprep/pkg/tasks"
	"github.com/arthur-debert/hostprep/pkg/types"
)

// ID identifies the task in config and selections
const ID = "dotfiles"

// BackupSuffix is appended to files moved out of the way of a link
const BackupSuffix = ".hostprep-backup"

func init() {
	tasks.Register(ID, func(cfg *config.Config) tasks.Task {
		return New(cfg.Dotfiles)
	})
}

// Task maps source/<name> to target/<name> as symlinks
type Task struct {
	tasks.Info
	source string
	target string
	ignore map[string]bool
}

// New creates the task from the dotfiles configuration section
func New(cfg config.Dotfiles) *Task {
	ignore := map[string]bool{".git": true}
	for _, name := range cfg.Ignore {
		ignore[name] = true
	}
	return &Task{
		Info: tasks.Info{
			TaskID:          ID,
			TaskName:        "Dotfiles",
			TaskDescription: "Symlink dotfiles into your home directory",
		},
		source: cfg.Source,
		target: cfg.Target,
		ignore: ignore,
	}
}

type link struct {
	source string
	target string
	backup bool
}

// Check compares each source entry with what is at its target path
func (t *Task) Check(ctx context.Context, ec *execution.Context) (tasks.Plan, error) {
	logger := logging.Component(ec.Logger, ID)
	sourceDir := paths.ResolveAgainst(ec.RootDir, paths.ExpandHomeDir(t.source, ec.HomeDir))
	targetDir := ec.HomeDir
	if t.target != "" {
		targetDir = paths.ResolveAgainst(ec.HomeDir, paths.ExpandHomeDir(t.target, ec.HomeDir))
	}

	entries, err := ec.FS.ReadDir(sourceDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return tasks.NewEmptyPlan("dotfiles directory " + sourceDir + " not found"), nil
		}
		return nil, errors.Wrapf(err, errors.ErrTaskCheck, "failed to read dotfiles directory %s", sourceDir)
	}

	plan := &Plan{targetDir: targetDir, links: make(map[string]link)}
	var pending []string
	for _, entry := range entries {
		name := entry.Name()
		if t.ignore[name] {
			continue
		}
		l := link{
			source: filepath.Join(sourceDir, name),
			target: filepath.Join(targetDir, name),
		}

		info, err := ec.FS.Lstat(l.target)
		switch {
		case err != nil && errors.Is(err, fs.ErrNotExist):
			pending = append(pending, name)
		case err != nil:
			return nil, errors.Wrapf(err, errors.ErrTaskCheck, "cannot inspect %s", l.target)
		case info.Mode()&fs.ModeSymlink != 0:
			current, err := ec.FS.Readlink(l.target)
			if err == nil && current == l.source {
				plan.result.UpToDate = append(plan.result.UpToDate, name)
				continue
			}
			pending = append(pending, name)
		default:
			l.backup = true
			plan.result.AddWarning(l.target + " exists and will be moved to " + l.target + BackupSuffix)
			pending = append(pending, name)
		}
		plan.links[name] = l
	}
	plan.result.ToInstall = pending
	plan.Pending = tasks.NewPending(pending)

	logger.Debug().
		Str("source", sourceDir).
		Str("target", targetDir).
		Int("pending", len(pending)).
		Msg("Dotfile check complete")

	return plan, nil
}

// Plan creates the selected links
type Plan struct {
	tasks.Pending
	result    types.TaskCheckResult
	targetDir string
	links     map[string]link
}

// Result returns what Check found
func (p *Plan) Result() types.TaskCheckResult {
	return p.result
}

// Execute links each selected entry, moving real files aside and
// replacing stale links.
func (p *Plan) Execute(ctx context.Context, ec *execution.Context) error {
	if !p.Begin() {
		return nil
	}
	logger := logging.Component(ec.Logger, ID)

	if err := ec.FS.MkdirAll(p.targetDir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", p.targetDir)
	}

	selected := p.Selected()
	var failed []string
	for _, name := range selected {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrTaskExecute, "dotfile linking interrupted")
		}
		if err := p.apply(ec, p.links[name]); err != nil {
			logger.Error().Err(err).Str("entry", name).Msg("Link failed")
			failed = append(failed, name)
			continue
		}
		logger.Info().Str("entry", name).Msg("Linked")
	}

	if len(failed) == len(selected) {
		return errors.Newf(errors.ErrTaskExecute, "failed to link: %s", strings.Join(failed, ", "))
	}
	return nil
}

func (p *Plan) apply(ec *execution.Context, l link) error {
	info, err := ec.FS.Lstat(l.target)
	switch {
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", l.target)
	case err != nil:
		// nothing in the way
	case info.Mode()&fs.ModeSymlink != 0:
		if err := ec.FS.Remove(l.target); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot remove stale link %s", l.target)
		}
	default:
		backup := l.target + BackupSuffix
		if _, err := ec.FS.Lstat(backup); err == nil {
			return errors.Newf(errors.ErrAlreadyExists, "backup %s already exists", backup)
		}
		if err := ec.FS.Rename(l.target, backup); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot move %s aside", l.target)
		}
		ec.Logger.Warn().Str("path", l.target).Str("backup", backup).Msg("Existing file moved aside")
	}

	if err := ec.FS.Symlink(l.source, l.target); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot link %s", l.target)
	}
	return nil
}

var (
	_ tasks.Task       = (*Task)(nil)
	_ tasks.Plan       = (*Plan)(nil)
	_ tasks.Selectable = (*Plan)(nil)
)
