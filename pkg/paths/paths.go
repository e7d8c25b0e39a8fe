package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/hostprep/pkg/errors"
)

// Environment variable names
const (
	// EnvRoot points at the provisioning root holding the list files
	EnvRoot = "HOSTPREP_ROOT"

	// EnvConfigDir overrides the XDG config directory for hostprep
	EnvConfigDir = "HOSTPREP_CONFIG_DIR"

	// EnvReposRoot overrides where GitHub repositories are cloned
	EnvReposRoot = "HOSTPREP_REPOS_ROOT"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

const (
	// AppDirName is the directory name used under XDG locations
	AppDirName = "hostprep"

	// ConfigFileName is the user configuration file name
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "hostprep.log"

	// DefaultReposDir is the clone root relative to the home directory
	DefaultReposDir = "Documents/git-repos"
)

// Paths provides centralized path management for hostprep
type Paths interface {
	Root() string
	UsedFallback() bool
	Resolve(path string) string
	ConfigDir() string
	ConfigFile() string
	StateDir() string
	LogFilePath() string
}

type paths struct {
	root         string
	usedFallback bool
	xdgConfig    string
	xdgState     string
}

// New creates a Paths instance. An empty root is resolved from HOSTPREP_ROOT,
// then the enclosing git repository, then the current directory.
func New(root string) (Paths, error) {
	p := &paths{}

	if root == "" {
		found, usedFallback, err := findRoot()
		if err != nil {
			return nil, err
		}
		p.root = found
		p.usedFallback = usedFallback
	} else {
		p.root = ExpandHome(root)
	}

	absRoot, err := filepath.Abs(p.root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for root")
	}
	p.root = absRoot

	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.xdgConfig = ExpandHome(dir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	// xdg.StateHome is cached at package init; honour late changes to the env.
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		p.xdgState = filepath.Join(stateHome, AppDirName)
	} else {
		p.xdgState = filepath.Join(xdg.StateHome, AppDirName)
	}

	return p, nil
}

// findRoot determines the provisioning root using the following priority:
// 1. HOSTPREP_ROOT environment variable
// 2. Git repository root of the working directory
// 3. Current working directory (fallback)
func findRoot() (string, bool, error) {
	if root := os.Getenv(EnvRoot); root != "" {
		return ExpandHome(root), false, nil
	}

	if gitRoot, err := findGitRoot(); err == nil && gitRoot != "" {
		return gitRoot, false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrFileAccess, "failed to get current directory")
	}
	return cwd, true, nil
}

func findGitRoot() (string, error) {
	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}
	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}
	return gitRoot, nil
}

// Root returns the provisioning root directory
func (p *paths) Root() string {
	return p.root
}

// UsedFallback returns true if the current working directory was used as fallback
func (p *paths) UsedFallback() bool {
	return p.usedFallback
}

// Resolve expands ~ and anchors relative paths at the root directory.
func (p *paths) Resolve(path string) string {
	return ResolveAgainst(p.root, path)
}

// ConfigDir returns the XDG config directory for hostprep
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// ConfigFile returns the user configuration file path
func (p *paths) ConfigFile() string {
	return filepath.Join(p.xdgConfig, ConfigFileName)
}

// StateDir returns the XDG state directory for hostprep
func (p *paths) StateDir() string {
	return p.xdgState
}

// LogFilePath returns the log file location
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// ResolveAgainst expands ~ in path and joins relative results onto base.
func ResolveAgainst(base, path string) string {
	if path == "" {
		return ""
	}
	expanded := ExpandHome(path)
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded)
	}
	return filepath.Join(base, expanded)
}

// CloneRoot picks the directory repositories are cloned into: the
// HOSTPREP_REPOS_ROOT override, then the configured value, then
// <home>/Documents/git-repos.
func CloneRoot(lookupEnv func(string) (string, bool), configured, home string) string {
	if lookupEnv != nil {
		if v, ok := lookupEnv(EnvReposRoot); ok && strings.TrimSpace(v) != "" {
			return ExpandHome(strings.TrimSpace(v))
		}
	}
	if configured != "" {
		return ExpandHome(configured)
	}
	return filepath.Join(home, DefaultReposDir)
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~user forms are left alone
	return path
}

// ExpandHomeDir is ExpandHome with an explicit home directory
func ExpandHomeDir(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
