package types

import "strings"

// Command describes a single external program invocation.
type Command struct {
	// Name is the executable to run
	Name string

	// Args are passed verbatim, never through a shell
	Args []string

	// Env holds extra KEY=VALUE pairs appended to the inherited environment
	Env []string

	// Dir is the working directory; empty means the current one
	Dir string
}

// NewCommand is a shorthand for building a Command.
func NewCommand(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// Argv returns the program name followed by its arguments.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String renders the command line for logs. Env is left out because it
// may carry credentials.
func (c Command) String() string {
	return strings.Join(c.Argv(), " ")
}
