// Package execution holds the host facts and process primitives shared by
// every task: the detected package manager, privilege, directories, the
// command runner, the filesystem and the logger.
package execution
