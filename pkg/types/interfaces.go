package types

import (
	"context"
	"io/fs"
)

// FS defines the filesystem operations tasks rely on.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Remove(name string) error
	Rename(oldpath, newpath string) error
}

// CommandRunner runs external programs. Implementations never apply a
// timeout: a started command runs until it exits or ctx is cancelled.
type CommandRunner interface {
	// Capture runs the command and returns its stdout. A non-zero exit is an error.
	Capture(ctx context.Context, cmd Command) (string, error)

	// Stream runs the command with output attached to the runner's writers
	// and returns the exit code. The error is reserved for commands that
	// could not be started at all.
	Stream(ctx context.Context, cmd Command) (int, error)

	// LookPath reports where an executable lives on PATH.
	LookPath(name string) (string, error)
}
