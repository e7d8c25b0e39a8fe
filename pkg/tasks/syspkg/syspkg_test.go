package syspkg

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	herrors "github.com/arthur-debert/hostprep/pkg/errors"
	"github.com/arthur-debert/hostprep/pkg/execution"
	"github.com/arthur-debert/hostprep/pkg/filesystem"
	"github.com/arthur-debert/hostprep/pkg/tasks"
	"github.com/arthur-debert/hostprep/pkg/testutil"
	"github.com/arthur-debert/hostprep/pkg/types"
)

const packageList = `# base
git
curl   # http
vim
htop
`

func setup(t *testing.T, installed string, opts testutil.ContextOptions) (*execution.Context, *testutil.FakeRunner) {
	t.Helper()
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll("/work/lists", 0755))
	require.NoError(t, fs.WriteFile("/work/lists/packages.txt", []byte(packageList), 0644))

	runner := testutil.NewFakeRunner()
	runner.CaptureFunc = func(_ context.Context, cmd types.Command) (string, error) {
		return installed, nil
	}
	opts.FS = fs
	opts.Runner = runner
	return testutil.NewContext(t, opts), runner
}

func check(t *testing.T, ec *execution.Context) *Plan {
	t.Helper()
	p, err := New("lists/packages.txt").Check(context.Background(), ec)
	require.NoError(t, err)
	plan, ok := p.(*Plan)
	require.True(t, ok, "expected *Plan, got %T", p)
	return plan
}

func TestCheck(t *testing.T) {
	ec, runner := setup(t, "git\nlibc6\ncurl\n", testutil.ContextOptions{})

	plan := check(t, ec)
	res := plan.Result()
	assert.Equal(t, []string{"git", "curl"}, res.UpToDate)
	assert.Equal(t, []string{"vim", "htop"}, res.ToInstall)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, []string{`dpkg-query -W -f=${Package}\n`}, runner.Captured())
	assert.Empty(t, runner.Streamed(), "check must not change the host")
}

func TestCheckMissingList(t *testing.T) {
	ec := testutil.NewContext(t, testutil.ContextOptions{})

	p, err := New("lists/packages.txt").Check(context.Background(), ec)
	require.NoError(t, err)
	res := p.Result()
	assert.Empty(t, res.ToInstall)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "/work/lists/packages.txt")
}

func TestCheckQueryFailure(t *testing.T) {
	ec, runner := setup(t, "", testutil.ContextOptions{})
	runner.CaptureFunc = func(context.Context, types.Command) (string, error) {
		return "", errors.New("dpkg database locked")
	}

	_, err := New("lists/packages.txt").Check(context.Background(), ec)
	require.Error(t, err)
	assert.True(t, herrors.IsErrorCode(err, herrors.ErrTaskCheck))
}

func TestExecuteBatch(t *testing.T) {
	ec, runner := setup(t, "git\ncurl\n", testutil.ContextOptions{})
	plan := check(t, ec)

	require.NoError(t, plan.Execute(context.Background(), ec))
	assert.Equal(t, []string{
		"sudo apt-get update",
		"sudo apt-get install -y vim htop",
	}, runner.Streamed())

	runner.Reset()
	require.NoError(t, plan.Execute(context.Background(), ec))
	assert.Empty(t, runner.Streamed(), "second execute must be a no-op")
}

func TestExecutePrivilegedSkipsSudo(t *testing.T) {
	ec, runner := setup(t, "", testutil.ContextOptions{Privileged: true, PackageManager: types.PackageManagerPacman})
	plan := check(t, ec)

	require.NoError(t, plan.Execute(context.Background(), ec))
	assert.Equal(t, []string{
		"pacman -Sy --noconfirm",
		"pacman -S --noconfirm --needed git curl vim htop",
	}, runner.Streamed())
}

func TestExecuteFallback(t *testing.T) {
	tests := []struct {
		name     string
		failing  []string
		wantErr  bool
		wantCmds []string
	}{
		{
			name:    "one package fails",
			failing: []string{"sudo apt-get install -y vim"},
			wantCmds: []string{
				"sudo apt-get update",
				"sudo apt-get install -y vim htop",
				"sudo apt-get install -y vim",
				"sudo apt-get install -y htop",
			},
		},
		{
			name:    "every package fails",
			failing: []string{"sudo apt-get install"},
			wantErr: true,
			wantCmds: []string{
				"sudo apt-get update",
				"sudo apt-get install -y vim htop",
				"sudo apt-get install -y vim",
				"sudo apt-get install -y htop",
			},
		},
		{
			name:    "refresh failure is not fatal",
			failing: []string{"sudo apt-get update"},
			wantCmds: []string{
				"sudo apt-get update",
				"sudo apt-get install -y vim htop",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ec, runner := setup(t, "git\ncurl\n", testutil.ContextOptions{})
			runner.StreamFunc = testutil.FailStreamFor(100, tt.failing...)

			err := check(t, ec).Execute(context.Background(), ec)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, herrors.IsErrorCode(err, herrors.ErrTaskExecute))
				assert.Contains(t, err.Error(), "vim, htop")
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCmds, runner.Streamed())
		})
	}
}

func TestExecuteSelection(t *testing.T) {
	ec, runner := setup(t, "", testutil.ContextOptions{})
	plan := check(t, ec)

	var sel tasks.Selectable = plan
	sel.ApplySelection([]string{"htop", "git", "emacs"})
	sel.ApplySelection([]string{"htop", "git", "emacs"})

	require.NoError(t, plan.Execute(context.Background(), ec))
	assert.Equal(t, []string{
		"sudo apt-get update",
		"sudo apt-get install -y git htop",
	}, runner.Streamed())
}

func TestExecuteEmptySelection(t *testing.T) {
	ec, runner := setup(t, "", testutil.ContextOptions{})
	plan := check(t, ec)
	plan.ApplySelection(nil)

	require.NoError(t, plan.Execute(context.Background(), ec))
	assert.Empty(t, runner.Streamed())
}

func TestZeroPlanIsNoop(t *testing.T) {
	ec, runner := setup(t, "", testutil.ContextOptions{})
	var plan Plan
	require.NoError(t, plan.Execute(context.Background(), ec))
	assert.Empty(t, runner.Calls())
}
