package style

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle    = lipgloss.NewStyle().Foreground(HeadingColor).Bold(true).MarginBottom(1)
	SubtitleStyle = lipgloss.NewStyle().Foreground(HeadingColor).Bold(true)
	MutedStyle    = lipgloss.NewStyle().Foreground(MutedColor)
	InfoStyle     = lipgloss.NewStyle().Foreground(AccentColor)
	CodeStyle     = lipgloss.NewStyle().Foreground(AccentColor)
	PathStyle     = lipgloss.NewStyle().Foreground(MutedColor).Italic(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(UpToDateColor).Bold(true)
	PendingStyle = lipgloss.NewStyle().Foreground(PendingColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(FailedColor).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor).Bold(true)

	// BoxStyle frames the end-of-run summary
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)
)

// Indicators are rendered on each call so they follow the colour profile
// chosen by Setup.
func SuccessIndicator() string { return SuccessStyle.Render("✓") }
func ErrorIndicator() string   { return ErrorStyle.Render("✗") }
func WarningIndicator() string { return WarningStyle.Render("!") }
func PendingIndicator() string { return PendingStyle.Render("○") }

// Indent pads every line of s by two spaces per level
func Indent(s string, level int) string {
	return lipgloss.NewStyle().PaddingLeft(level * 2).Render(s)
}

func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Render(s)
}
