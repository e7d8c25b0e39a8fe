package ui

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/arthur-debert/hostprep/pkg/errors"
)

// Format represents the output format type
type Format int

const (
	// FormatAuto picks terminal or text output from the environment
	FormatAuto Format = iota
	// FormatTerminal renders styled output
	FormatTerminal
	// FormatText renders plain text
	FormatText
	// FormatJSON renders indented JSON
	FormatJSON
	// FormatYAML renders YAML
	FormatYAML
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTerminal:
		return "term"
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Machine reports whether the format is meant for other programs
func (f Format) Machine() bool {
	return f == FormatJSON || f == FormatYAML
}

// ParseFormat parses a --output value
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerminal, nil
	case "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format: %s", s)
	}
}

// DetectFormat chooses between terminal and text output for a file
func DetectFormat(output *os.File) Format {
	if termenv.EnvNoColor() {
		return FormatText
	}

	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}

	if termenv.NewOutput(output).EnvColorProfile() == termenv.Ascii {
		return FormatText
	}

	return FormatTerminal
}
