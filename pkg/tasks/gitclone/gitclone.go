// Package gitclone clones every repository the authenticated GitHub user
// owns into a local root, skipping ones already cloned.
package gitclone

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/hostprep/pkg/config"
	"github.com/arthur-debert/hostprep/pkg/errors"
	"github.com/arthur-debert/hostprep/pkg/execution"
	"github.com/arthur-debert/hostprep/pkg/github"
	"github.com/arthur-debert/hostprep/pkg/logging"
	"github.com/arthur-debert/hostprep/pkg/paths"
	"github.com/arthur-debert/hostprep/pkg/tasks"
	"github.com/arthur-debert/hostprep/pkg/types"
)

// ID identifies the task in config and selections
const ID = "repos"

// Warnings reported by Check
const (
	WarnNoToken    = "no GitHub token provided; skipping repository discovery"
	WarnGitMissing = "git is not installed; cannot clone repositories"
)

func init() {
	tasks.Register(ID, func(cfg *config.Config) tasks.Task {
		return New(cfg.GitHub)
	})
}

// Task discovers owned repositories and clones the missing ones
type Task struct {
	tasks.Info
	token          string
	apiURL         string
	configuredRoot string
}

// New creates the task from the github configuration section
func New(cfg config.GitHub) *Task {
	return &Task{
		Info: tasks.Info{
			TaskID:          ID,
			TaskName:        "GitHub repositories",
			TaskDescription: "Clone every repository you own on GitHub",
		},
		token:          strings.TrimSpace(cfg.Token),
		apiURL:         cfg.APIURL,
		configuredRoot: cfg.CloneRoot,
	}
}

// TokenPrompt is shown when asking for the token
func (t *Task) TokenPrompt() string {
	if t.token != "" {
		return "GitHub token (leave empty to use the configured one)"
	}
	return "GitHub personal access token"
}

// SetToken replaces the configured token. Blank input keeps it.
func (t *Task) SetToken(token string) {
	if token = strings.TrimSpace(token); token != "" {
		t.token = token
	}
}

// Check lists the owned repositories and looks for existing clones.
// Repositories already cloned under the clone root are reported up to
// date instead of pending, so only missing clones are offered; Execute
// still skips any target that appeared in the meantime.
func (t *Task) Check(ctx context.Context, ec *execution.Context) (tasks.Plan, error) {
	logger := logging.Component(ec.Logger, ID)

	if t.token == "" {
		return tasks.NewEmptyPlan(WarnNoToken), nil
	}
	if _, err := ec.Runner.LookPath("git"); err != nil {
		return tasks.NewEmptyPlan(WarnGitMissing), nil
	}

	client, err := github.NewClient(t.token, t.apiURL, github.WithLogger(ec.Logger))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTaskCheck, "failed to create GitHub client")
	}
	repos, err := client.ListOwnedRepositories(ctx)
	if err != nil {
		var apiErr *github.APIError
		if errors.As(err, &apiErr) {
			logger.Warn().Int("status", apiErr.StatusCode).Msg("Repository listing rejected")
			return tasks.NewEmptyPlan(fmt.Sprintf("failed to list repositories: HTTP %d", apiErr.StatusCode)), nil
		}
		return nil, errors.Wrap(err, errors.ErrTaskCheck, "failed to list repositories")
	}

	root := paths.CloneRoot(ec.LookupEnv, t.configuredRoot, ec.HomeDir)
	plan := &Plan{
		root:    root,
		token:   t.token,
		targets: make(map[string]string, len(repos)),
		urls:    make(map[string]string, len(repos)),
	}

	var pending []string
	for _, repo := range repos {
		if repo.FullName == "" || repo.CloneURL == "" {
			continue
		}
		target := filepath.Join(root, filepath.FromSlash(repo.FullName))
		plan.targets[repo.FullName] = target
		plan.urls[repo.FullName] = repo.CloneURL
		if isCloned(ec, target) {
			plan.result.UpToDate = append(plan.result.UpToDate, repo.FullName)
			continue
		}
		pending = append(pending, repo.FullName)
	}
	plan.result.ToInstall = pending
	plan.Pending = tasks.NewPending(pending)

	logger.Debug().
		Str("root", root).
		Int("repositories", len(repos)).
		Int("pending", len(pending)).
		Msg("Repository check complete")

	return plan, nil
}

// Plan clones the selected repositories
type Plan struct {
	tasks.Pending
	result  types.TaskCheckResult
	root    string
	token   string
	targets map[string]string
	urls    map[string]string
}

// Result returns what Check found
func (p *Plan) Result() types.TaskCheckResult {
	return p.result
}

// Execute clones each selected repository that is still missing. A failed
// clone is logged and the rest continue.
func (p *Plan) Execute(ctx context.Context, ec *execution.Context) error {
	if !p.Begin() {
		return nil
	}
	logger := logging.Component(ec.Logger, ID)

	if err := ec.FS.MkdirAll(p.root, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create clone root %s", p.root)
	}

	selected := p.Selected()
	var failed []string
	for _, name := range selected {
		target := p.targets[name]
		if isCloned(ec, target) {
			logger.Info().Str("repository", name).Str("path", target).Msg("Already cloned, skipping")
			continue
		}

		if err := ec.FS.MkdirAll(filepath.Dir(target), 0755); err != nil {
			logger.Error().Err(err).Str("repository", name).Msg("Cannot create parent directory")
			failed = append(failed, name)
			continue
		}
		code, err := ec.Runner.Stream(ctx, CloneCommand(p.urls[name], target, p.token))
		if err != nil || code != 0 {
			logger.Error().Err(err).Int("exit_code", code).Str("repository", name).Msg("Clone failed")
			failed = append(failed, name)
			continue
		}
		logger.Info().Str("repository", name).Str("path", target).Msg("Cloned")
	}

	if len(failed) > 0 && len(failed) == len(selected) {
		return errors.Newf(errors.ErrTaskExecute, "failed to clone: %s", strings.Join(failed, ", "))
	}
	if len(failed) > 0 {
		logger.Warn().Int("failed", len(failed)).Strs("repositories", failed).Msg("Some repositories could not be cloned")
	}
	return nil
}

// CloneCommand builds the git invocation. The token travels in git's
// environment config so it never shows up in argv or the remote URL.
func CloneCommand(url, target, token string) types.Command {
	cmd := types.NewCommand("git", "clone", url, target)
	cmd.Env = []string{"GIT_TERMINAL_PROMPT=0"}
	if token != "" {
		cmd.Env = append(cmd.Env,
			"GIT_CONFIG_COUNT=1",
			"GIT_CONFIG_KEY_0=http.extraHeader",
			"GIT_CONFIG_VALUE_0=Authorization: Bearer "+token,
		)
	}
	return cmd
}

func isCloned(ec *execution.Context, target string) bool {
	_, err := ec.FS.Stat(filepath.Join(target, ".git"))
	return err == nil
}

var (
	_ tasks.Task          = (*Task)(nil)
	_ tasks.TokenReceiver = (*Task)(nil)
	_ tasks.Plan          = (*Plan)(nil)
	_ tasks.Selectable    = (*Plan)(nil)
)
