// Package executor runs external programs for hostprep.
//
// Runner implements types.CommandRunner on top of os/exec with two modes:
// Capture collects stdout for parsing (installed package queries, snap list,
// gsettings get) and Stream forwards output to the configured writers and
// reports the exit code (installs, clones). Commands are never run through
// a shell and no timeout is applied.
package executor
