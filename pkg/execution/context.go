package execution

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/hostprep/pkg/errors"
	"github.com/arthur-debert/hostprep/pkg/filesystem"
	"github.com/arthur-debert/hostprep/pkg/logging"
	"github.com/arthur-debert/hostprep/pkg/types"
)

// ConfirmFunc asks the user a yes/no question
type ConfirmFunc func(question string) (bool, error)

// Context is built once at startup and passed to every task. The package
// manager and privilege flag never change after New returns.
type Context struct {
	PackageManager types.PackageManager
	Privileged     bool
	RootDir        string
	HomeDir        string

	FS     types.FS
	Runner types.CommandRunner
	Logger zerolog.Logger
	Output io.Writer

	AssumeYes bool

	lookupEnv func(string) (string, bool)
	confirm   ConfirmFunc
}

// Options configures New. Zero values fall back to the real host.
type Options struct {
	// PackageManager skips detection when set
	PackageManager types.PackageManager

	RootDir   string
	HomeDir   string
	FS        types.FS
	Runner    types.CommandRunner
	Logger    *zerolog.Logger
	Output    io.Writer
	Confirm   ConfirmFunc
	AssumeYes bool
	LookupEnv func(string) (string, bool)
	Geteuid   func() int
}

// New detects host facts and assembles a Context. A host without any
// supported package manager is an error.
func New(opts Options) (*Context, error) {
	if opts.Runner == nil {
		return nil, errors.New(errors.ErrContextInit, "a command runner is required")
	}

	logger := logging.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	pm := opts.PackageManager
	var err error
	if pm == "" {
		pm, err = DetectPackageManager(opts.Runner)
		if err != nil {
			return nil, err
		}
	} else if !pm.IsValid() {
		return nil, errors.Newf(errors.ErrContextInit, "unsupported package manager %q", pm)
	}

	geteuid := opts.Geteuid
	if geteuid == nil {
		geteuid = os.Geteuid
	}

	home := opts.HomeDir
	if home == "" {
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrContextInit, "cannot determine home directory")
		}
	}

	root := opts.RootDir
	if root == "" {
		root, err = os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrContextInit, "cannot determine working directory")
		}
	}

	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	lookupEnv := opts.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	ec := &Context{
		PackageManager: pm,
		Privileged:     geteuid() == 0,
		RootDir:        root,
		HomeDir:        home,
		FS:             fs,
		Runner:         opts.Runner,
		Logger:         logger,
		Output:         output,
		AssumeYes:      opts.AssumeYes,
		lookupEnv:      lookupEnv,
		confirm:        opts.Confirm,
	}

	logger.Debug().
		Str("packageManager", string(pm)).
		Bool("privileged", ec.Privileged).
		Str("root", root).
		Str("home", home).
		Msg("Execution context initialized")

	return ec, nil
}

// DetectPackageManager returns the first supported manager found on PATH.
func DetectPackageManager(runner types.CommandRunner) (types.PackageManager, error) {
	for _, pm := range types.SupportedPackageManagers {
		if _, err := runner.LookPath(detectBinary(pm)); err == nil {
			return pm, nil
		}
	}
	return "", errors.New(errors.ErrNoPackageManager,
		"no supported package manager found (looked for apt, dnf, zypper, pacman)")
}

func detectBinary(pm types.PackageManager) string {
	if pm == types.PackageManagerApt {
		return "apt-get"
	}
	return string(pm)
}

// WithLogger returns a copy using logger. Host facts are shared.
func (c *Context) WithLogger(logger zerolog.Logger) *Context {
	cp := *c
	cp.Logger = logger
	return &cp
}

// LookupEnv reads the process environment (or the injected replacement).
func (c *Context) LookupEnv(key string) (string, bool) {
	if c.lookupEnv == nil {
		return os.LookupEnv(key)
	}
	return c.lookupEnv(key)
}

// Getenv is LookupEnv without the presence flag
func (c *Context) Getenv(key string) string {
	v, _ := c.LookupEnv(key)
	return v
}

// Confirm asks question. AssumeYes answers yes without prompting and a
// context without a prompt answers no.
func (c *Context) Confirm(question string) (bool, error) {
	if c.AssumeYes {
		c.Logger.Info().Str("question", question).Msg("Assuming yes")
		return true, nil
	}
	if c.confirm == nil {
		c.Logger.Warn().Str("question", question).Msg("No interactive prompt available, declining")
		return false, nil
	}
	return c.confirm(question)
}

// Sudo prefixes cmd with sudo unless the process already runs as root.
func (c *Context) Sudo(cmd types.Command) types.Command {
	if c.Privileged {
		return cmd
	}
	return types.Command{
		Name: "sudo",
		Args: cmd.Argv(),
		Env:  cmd.Env,
		Dir:  cmd.Dir,
	}
}
