package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/hostprep/cmd/hostprep"
)

func TestGenerate(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, generate(hostprep.NewRootCmd(), shell, &buf))
			assert.Contains(t, buf.String(), "hostprep")
		})
	}

	err := generate(hostprep.NewRootCmd(), "tcsh", &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bash, fish, powershell, zsh")
}

func TestGenerateFile(t *testing.T) {
	dir := t.TempDir()

	path, err := generateFile(hostprep.NewRootCmd(), "zsh", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "_hostprep"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "#compdef hostprep")
}
