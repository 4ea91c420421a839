// Package theme holds the palette and shared styles of the TUI.
package theme

import "charm.land/lipgloss/v2"

// Palette. Dark slate background, indigo for focus, amber for anything
// that wants attention.
var (
	Primary   = lipgloss.Color("#6366F1")
	Secondary = lipgloss.Color("#0EA5E9")
	Accent    = lipgloss.Color("#F59E0B")
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#EF4444")
	Text      = lipgloss.Color("#F1F5F9")
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#0B1120")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

var (
	Body = lipgloss.NewStyle().Foreground(Text)
	Hint = lipgloss.NewStyle().Foreground(TextDim).Italic(true)

	// Notice is the one-line status under a screen: saves, rejections,
	// gate messages.
	Notice = lipgloss.NewStyle().Foreground(Accent)

	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Disabled   = lipgloss.NewStyle().Foreground(Border)

	ButtonActive   = lipgloss.NewStyle().Background(Primary).Foreground(Text).Bold(true).Padding(0, 2)
	ButtonInactive = lipgloss.NewStyle().
			Background(BgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)

	// AdminBadge marks a reviewer session in the header.
	AdminBadge = lipgloss.NewStyle().Background(Accent).Foreground(BgDark).Bold(true).Padding(0, 1)
)

var (
	passMark = lipgloss.NewStyle().Foreground(Success).Bold(true)
	failMark = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

// Verdict styles anything that reads as pass or fail.
func Verdict(passed bool) lipgloss.Style {
	if passed {
		return passMark
	}
	return failMark
}

// Mark renders ✓ or ✗.
func Mark(passed bool) string {
	if passed {
		return passMark.Render("✓")
	}
	return failMark.Render("✗")
}
