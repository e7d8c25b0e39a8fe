package executor

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/arthur-debert/hostprep/pkg/errors"
	"github.com/arthur-debert/hostprep/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Capture(t *testing.T) {
	r := New()

	out, err := r.Capture(context.Background(), types.NewCommand("sh", "-c", "printf 'git\\ncurl\\n'"))
	require.NoError(t, err)
	assert.Equal(t, "git\ncurl\n", out)
}

func TestRunner_CaptureNonZeroExit(t *testing.T) {
	r := New()

	_, err := r.Capture(context.Background(), types.NewCommand("sh", "-c", "echo boom >&2; exit 3"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCommandFailed))
	assert.Equal(t, "boom", errors.GetErrorDetails(err)["stderr"])
}

func TestRunner_CaptureMissingBinary(t *testing.T) {
	r := New()

	_, err := r.Capture(context.Background(), types.NewCommand("hostprep-definitely-missing"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCommandStart))
}

func TestRunner_Stream(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := New(WithOutput(&stdout, &stderr))

	code, err := r.Stream(context.Background(), types.NewCommand("sh", "-c", "echo installing; echo warn >&2"))
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "installing\n", stdout.String())
	assert.Equal(t, "warn\n", stderr.String())

	code, err = r.Stream(context.Background(), types.NewCommand("sh", "-c", "exit 7"))
	require.NoError(t, err, "a non-zero exit is a status, not an error")
	assert.Equal(t, 7, code)
}

func TestRunner_StreamIgnoresCancellation(t *testing.T) {
	var stdout bytes.Buffer
	r := New(WithOutput(&stdout, &stdout))
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	code, err := r.Stream(ctx, types.NewCommand("sh", "-c", "sleep 0.3; echo finished"))
	require.NoError(t, err)
	assert.Equal(t, 0, code, "a running command is never killed")
	assert.Equal(t, "finished\n", stdout.String())

	out, err := r.Capture(ctx, types.NewCommand("sh", "-c", "echo still works"))
	require.NoError(t, err)
	assert.Equal(t, "still works\n", out)
}

func TestRunner_StreamPassesEnvAndDir(t *testing.T) {
	var stdout bytes.Buffer
	dir := t.TempDir()
	r := New(WithOutput(&stdout, &stdout))

	cmd := types.Command{
		Name: "sh",
		Args: []string{"-c", "echo $HOSTPREP_MARKER; pwd"},
		Env:  []string{"HOSTPREP_MARKER=present"},
		Dir:  dir,
	}
	code, err := r.Stream(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "present\n")
	assert.Contains(t, stdout.String(), dir)
}

func TestRunner_LookPath(t *testing.T) {
	r := New()

	_, err := r.LookPath("sh")
	assert.NoError(t, err)

	_, err = r.LookPath("hostprep-definitely-missing")
	assert.Error(t, err)
}
