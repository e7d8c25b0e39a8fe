package testutil

import (
	"context"
	"os/exec"
	"strings"
	"sync"

	"github.com/arthur-debert/hostprep/pkg/types"
)

// Call records one invocation made against a FakeRunner
type Call struct {
	Method  string
	Command types.Command
}

// FakeRunner is a mock implementation of types.CommandRunner for testing.
// Unset function fields fall back to success with empty output, and
// LookPath finds only the names listed in Available.
type FakeRunner struct {
	CaptureFunc  func(ctx context.Context, cmd types.Command) (string, error)
	StreamFunc   func(ctx context.Context, cmd types.Command) (int, error)
	LookPathFunc func(name string) (string, error)

	Available map[string]bool

	mu    sync.Mutex
	calls []Call
}

// NewFakeRunner creates a FakeRunner where the given executables exist
func NewFakeRunner(available ...string) *FakeRunner {
	r := &FakeRunner{Available: make(map[string]bool)}
	for _, name := range available {
		r.Available[name] = true
	}
	return r
}

// Capture records the call and runs CaptureFunc
func (r *FakeRunner) Capture(ctx context.Context, cmd types.Command) (string, error) {
	r.record("Capture", cmd)
	if r.CaptureFunc != nil {
		return r.CaptureFunc(ctx, cmd)
	}
	return "", nil
}

// Stream records the call and runs StreamFunc
func (r *FakeRunner) Stream(ctx context.Context, cmd types.Command) (int, error) {
	r.record("Stream", cmd)
	if r.StreamFunc != nil {
		return r.StreamFunc(ctx, cmd)
	}
	return 0, nil
}

// LookPath runs LookPathFunc or consults Available
func (r *FakeRunner) LookPath(name string) (string, error) {
	if r.LookPathFunc != nil {
		return r.LookPathFunc(name)
	}
	if r.Available[name] {
		return "/usr/bin/" + name, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// Calls returns a copy of every recorded call in order
func (r *FakeRunner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Streamed returns the command lines passed to Stream, in order
func (r *FakeRunner) Streamed() []string {
	return r.lines("Stream")
}

// Captured returns the command lines passed to Capture, in order
func (r *FakeRunner) Captured() []string {
	return r.lines("Capture")
}

// Reset forgets recorded calls
func (r *FakeRunner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *FakeRunner) lines(method string) []string {
	var out []string
	for _, c := range r.Calls() {
		if c.Method == method {
			out = append(out, c.Command.String())
		}
	}
	return out
}

func (r *FakeRunner) record(method string, cmd types.Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cmd.Args = append([]string(nil), cmd.Args...)
	cmd.Env = append([]string(nil), cmd.Env...)
	r.calls = append(r.calls, Call{Method: method, Command: cmd})
}

// FailStreamFor returns a StreamFunc exiting with code for any command line
// starting with one of the given prefixes.
func FailStreamFor(code int, prefixes ...string) func(context.Context, types.Command) (int, error) {
	return func(_ context.Context, cmd types.Command) (int, error) {
		line := cmd.String()
		for _, p := range prefixes {
			if strings.HasPrefix(line, p) {
				return code, nil
			}
		}
		return 0, nil
	}
}

var _ types.CommandRunner = (*FakeRunner)(nil)
