// Package types defines the core types and interfaces shared across hostprep.
// This includes the filesystem and command-runner abstractions handed to
// tasks, the package manager enumeration, and the value types that flow
// between tasks and the orchestrator: TaskCheckResult, TaskExecutionResult
// and Selection.
package types
