package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette. Each colour adapts to light and dark terminals.
var (
	AccentColor  = lipgloss.AdaptiveColor{Light: "#0B6FB8", Dark: "#5AAEFF"}
	HeadingColor = lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#F0F3F6"}
	MutedColor   = lipgloss.AdaptiveColor{Light: "#6E7781", Dark: "#9EA7B3"}
	BorderColor  = lipgloss.AdaptiveColor{Light: "#D0D7DE", Dark: "#444C56"}

	// Item states
	UpToDateColor = lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#57D27A"}
	PendingColor  = lipgloss.AdaptiveColor{Light: "#8250DF", Dark: "#B392F0"}
	FailedColor   = lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#FF7B86"}
	WarningColor  = lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#E3B341"}
)
