package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/hostprep/cmd/hostprep"
)

const usage = `Usage: %[1]s <shell> [dir]

Writes the hostprep completion script for shell to stdout, or into dir
under the name the shell looks for.

Shells: %[2]s
`

type generator struct {
	file string
	gen  func(cmd *cobra.Command, w io.Writer) error
}

var generators = map[string]generator{
	"bash": {file: "hostprep", gen: func(c *cobra.Command, w io.Writer) error {
		return c.GenBashCompletionV2(w, true)
	}},
	"zsh": {file: "_hostprep", gen: func(c *cobra.Command, w io.Writer) error {
		return c.GenZshCompletion(w)
	}},
	"fish": {file: "hostprep.fish", gen: func(c *cobra.Command, w io.Writer) error {
		return c.GenFishCompletion(w, true)
	}},
	"powershell": {file: "hostprep.ps1", gen: func(c *cobra.Command, w io.Writer) error {
		return c.GenPowerShellCompletionWithDesc(w)
	}},
}

func shells() string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// generate writes the script for shell to w
func generate(cmd *cobra.Command, shell string, w io.Writer) error {
	g, ok := generators[shell]
	if !ok {
		return fmt.Errorf("unknown shell %q (supported: %s)", shell, shells())
	}
	return g.gen(cmd, w)
}

// generateFile writes the script for shell into dir and returns its path
func generateFile(cmd *cobra.Command, shell, dir string) (string, error) {
	g, ok := generators[shell]
	if !ok {
		return "", fmt.Errorf("unknown shell %q (supported: %s)", shell, shells())
	}
	path := filepath.Join(dir, g.file)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := g.gen(cmd, f); err != nil {
		_ = f.Close()
		return "", err
	}
	return path, f.Close()
}

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintf(os.Stderr, usage, filepath.Base(os.Args[0]), shells())
		os.Exit(2)
	}

	rootCmd := hostprep.NewRootCmd()
	shell := os.Args[1]

	if len(os.Args) == 3 {
		path, err := generateFile(rootCmd, shell, os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, path)
		return
	}

	if err := generate(rootCmd, shell, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
