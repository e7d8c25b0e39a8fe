package executor

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/arthur-debert/hostprep/pkg/errors"
	"github.com/arthur-debert/hostprep/pkg/logging"
	"github.com/arthur-debert/hostprep/pkg/types"
	"github.com/rs/zerolog"
)

// Runner executes commands on the local host.
type Runner struct {
	logger zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput sets where streamed commands write their output.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithLogger sets the logger used for command tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logging.Component(logger, "executor")
	}
}

// New creates a Runner streaming to the process stdout/stderr by default.
func New(opts ...Option) *Runner {
	r := &Runner{
		logger: logging.Nop(),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Capture runs the command and returns its stdout.
func (r *Runner) Capture(ctx context.Context, cmd types.Command) (string, error) {
	logging.LogCommand(r.logger, cmd.Name, cmd.Args)

	c := r.build(ctx, cmd)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	if err := c.Run(); err != nil {
		var exitErr *exec.ExitError
		if !asExitError(err, &exitErr) {
			return "", errors.Wrapf(err, errors.ErrCommandStart, "failed to start %s", cmd.Name)
		}
		r.logger.Debug().
			Str("command", cmd.String()).
			Int("exit_code", exitErr.ExitCode()).
			Str("stderr", strings.TrimSpace(stderr.String())).
			Msg("Command failed")
		return stdout.String(), errors.Wrapf(err, errors.ErrCommandFailed, "%s exited with %d", cmd.Name, exitErr.ExitCode()).
			WithDetail("stderr", strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

// Stream runs the command attached to the runner's writers and returns its
// exit code.
func (r *Runner) Stream(ctx context.Context, cmd types.Command) (int, error) {
	logging.LogCommand(r.logger, cmd.Name, cmd.Args)

	c := r.build(ctx, cmd)
	c.Stdout = r.stdout
	c.Stderr = r.stderr

	err := c.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if asExitError(err, &exitErr) {
		r.logger.Debug().
			Str("command", cmd.String()).
			Int("exit_code", exitErr.ExitCode()).
			Msg("Command exited with non-zero status")
		return exitErr.ExitCode(), nil
	}

	return -1, errors.Wrapf(err, errors.ErrCommandStart, "failed to start %s", cmd.Name)
}

// LookPath reports where an executable lives on PATH.
func (r *Runner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// build never ties the process to ctx cancellation: a package manager
// killed mid-transaction can leave the host broken.
func (r *Runner) build(ctx context.Context, cmd types.Command) *exec.Cmd {
	c := exec.CommandContext(context.WithoutCancel(ctx), cmd.Name, cmd.Args...)
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	return c
}

func asExitError(err error, target **exec.ExitError) bool {
	return stderrors.As(err, target)
}

var _ types.CommandRunner = (*Runner)(nil)
