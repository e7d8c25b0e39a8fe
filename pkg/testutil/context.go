package testutil

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/hostprep/pkg/execution"
	"github.com/arthur-debert/hostprep/pkg/filesystem"
	"github.com/arthur-debert/hostprep/pkg/types"
)

// ContextOptions tweaks the context built by NewContext
type ContextOptions struct {
	PackageManager types.PackageManager
	Privileged     bool
	RootDir        string
	HomeDir        string
	FS             types.FS
	Runner         *FakeRunner
	Env            map[string]string
	Confirm        execution.ConfirmFunc
	AssumeYes      bool
	Logger         *zerolog.Logger
}

// NewContext builds an execution.Context backed by an in-memory filesystem
// and a FakeRunner. Defaults: apt, unprivileged, root /work, home /home/test.
func NewContext(t *testing.T, opts ContextOptions) *execution.Context {
	t.Helper()

	pm := opts.PackageManager
	if pm == "" {
		pm = types.PackageManagerApt
	}
	runner := opts.Runner
	if runner == nil {
		runner = NewFakeRunner()
	}
	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewMemory()
	}
	root := opts.RootDir
	if root == "" {
		root = "/work"
	}
	home := opts.HomeDir
	if home == "" {
		home = "/home/test"
	}
	env := opts.Env
	lookupEnv := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	euid := 1000
	if opts.Privileged {
		euid = 0
	}

	ec, err := execution.New(execution.Options{
		PackageManager: pm,
		RootDir:        root,
		HomeDir:        home,
		FS:             fs,
		Runner:         runner,
		Logger:         opts.Logger,
		Output:         &bytes.Buffer{},
		Confirm:        opts.Confirm,
		LookupEnv:      lookupEnv,
		AssumeYes:      opts.AssumeYes,
		Geteuid:        func() int { return euid },
	})
	require.NoError(t, err)
	return ec
}

// RecordingConfirm answers every question with Answer and remembers them
type RecordingConfirm struct {
	Answer    bool
	Err       error
	Questions []string
}

// Confirm implements execution.ConfirmFunc
func (c *RecordingConfirm) Confirm(question string) (bool, error) {
	c.Questions = append(c.Questions, question)
	return c.Answer, c.Err
}
