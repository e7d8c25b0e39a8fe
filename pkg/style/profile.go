package style

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// IsTerminal reports whether stream, a reader or writer, is an
// interactive terminal
func IsTerminal(stream interface{}) bool {
	f, ok := stream.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Setup picks the colour profile for output written to w. Styling is
// turned off when w is not a terminal, NO_COLOR is set, or plain is
// requested.
func Setup(w io.Writer, plain bool) termenv.Profile {
	profile := termenv.NewOutput(w).EnvColorProfile()
	if plain || !IsTerminal(w) || termenv.EnvNoColor() {
		profile = termenv.Ascii
	}

	lipgloss.SetColorProfile(profile)
	if profile == termenv.Ascii {
		pterm.DisableStyling()
	} else {
		pterm.EnableStyling()
	}
	return profile
}
