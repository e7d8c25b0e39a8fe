package hostprep

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/hostprep/pkg/config"
	"github.com/arthur-debert/hostprep/pkg/execution"
	"github.com/arthur-debert/hostprep/pkg/executor"
	"github.com/arthur-debert/hostprep/pkg/filesystem"
	"github.com/arthur-debert/hostprep/pkg/logging"
	"github.com/arthur-debert/hostprep/pkg/paths"
	"github.com/arthur-debert/hostprep/pkg/types"

	// Task packages register themselves on import
	_ "github.com/arthur-debert/hostprep/pkg/tasks/dotfiles"
	_ "github.com/arthur-debert/hostprep/pkg/tasks/gitclone"
	_ "github.com/arthur-debert/hostprep/pkg/tasks/gnome"
	_ "github.com/arthur-debert/hostprep/pkg/tasks/snap"
	_ "github.com/arthur-debert/hostprep/pkg/tasks/syspkg"
)

// env holds the process facts commands depend on. Tests swap in fakes.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	fs        types.FS
	newRunner func(logger zerolog.Logger, stdout, stderr io.Writer) types.CommandRunner

	// packageManager skips detection when set
	packageManager types.PackageManager
	homeDir        string
	lookupEnv      func(string) (string, bool)
	geteuid        func() int

	noLogFile bool
}

func defaultEnv() *env {
	return &env{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		fs:     filesystem.NewOS(),
		newRunner: func(logger zerolog.Logger, stdout, stderr io.Writer) types.CommandRunner {
			return executor.New(executor.WithOutput(stdout, stderr), executor.WithLogger(logger))
		},
		lookupEnv: os.LookupEnv,
		geteuid:   os.Geteuid,
	}
}

// globalOptions are the persistent root flags
type globalOptions struct {
	verbosity  int
	configFile string
	root       string
}

// session is what every command needs once flags are parsed
type session struct {
	env   *env
	paths paths.Paths
	cfg   *config.Config
	log   *logging.Logger
}

// open resolves the root, loads the configuration and starts logging
func (g *globalOptions) open(e *env) (*session, error) {
	p, err := paths.New(g.root)
	if err != nil {
		return nil, fmt.Errorf(MsgErrInitPaths, err)
	}
	if p.UsedFallback() {
		fmt.Fprintf(e.stderr, MsgFallbackWarning, p.Root())
	}

	cfgPath := g.configFile
	required := cfgPath != ""
	if !required {
		cfgPath = p.ConfigFile()
	}
	cfg, err := config.Load(config.LoadOptions{Path: cfgPath, Required: required})
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}

	log := logging.New(logging.Options{
		Verbosity: g.verbosity,
		Console:   e.stderr,
		LogFile:   p.LogFilePath(),
		NoFile:    e.noLogFile,
	})
	log.Debug().
		Str("root", p.Root()).
		Str("config", cfgPath).
		Bool("config_required", required).
		Msg("Session opened")

	return &session{env: e, paths: p, cfg: cfg, log: log}, nil
}

func (s *session) close() {
	_ = s.log.Close()
}

// contextOptions are the per-command parts of an execution context
type contextOptions struct {
	// commandOutput receives the output of streamed commands
	commandOutput io.Writer
	confirm       execution.ConfirmFunc
	assumeYes     bool
}

func (s *session) executionContext(opts contextOptions) (*execution.Context, error) {
	logger := s.log.Logger
	out := opts.commandOutput
	if out == nil {
		out = s.env.stdout
	}
	stderr := s.env.stderr
	if out != s.env.stdout {
		stderr = out
	}

	runner := s.env.newRunner(logging.Component(logger, "executor"), out, stderr)
	return execution.New(execution.Options{
		PackageManager: s.env.packageManager,
		RootDir:        s.paths.Root(),
		HomeDir:        s.env.homeDir,
		FS:             s.env.fs,
		Runner:         runner,
		Logger:         &logger,
		Output:         out,
		Confirm:        opts.confirm,
		AssumeYes:      opts.assumeYes,
		LookupEnv:      s.env.lookupEnv,
		Geteuid:        s.env.geteuid,
	})
}
