// Package testutil provides utilities for testing hostprep components.
//
// Key components:
//   - FakeRunner: scriptable types.CommandRunner that records every call
//   - NewContext: an execution.Context over an in-memory filesystem
//   - RecordingConfirm: a confirmation prompt with a fixed answer
//
// Tests should never touch the host package manager. Everything that would
// run a command goes through FakeRunner.
package testutil
