package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/placeprep/internal/ui/components"
	"github.com/abhisek/placeprep/internal/ui/theme"
)

const titleFull = `┏━┓╻  ┏━┓┏━╸┏━╸┏━┓┏━┓┏━╸┏━┓
┣━┛┃  ┣━┫┃  ┣╸ ┣━┛┣┳┛┣╸ ┣━┛
╹  ┗━╸╹ ╹┗━╸┗━╸╹  ╹┗╸┗━╸╹  `

const titleCompact = "P L A C E P R E P"

// contentWidth returns the shared inner width so the sections line up.
func contentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 60)
}

func renderTitle(cw int, compact bool) string {
	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(art))
}

// stats is what the dashboard shows above the menu.
type stats struct {
	passed, total int
	attempts      int
	pending       int
	loaded        bool
}

func renderStatsBar(s stats, cw int, compact bool) string {
	passedStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	attemptStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	pendingStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	var text string
	switch {
	case !s.loaded:
		text = theme.Hint.Render("Loading progress…")
	case compact:
		text = fmt.Sprintf("%s %s",
			passedStyle.Render(fmt.Sprintf("✓%d/%d", s.passed, s.total)),
			attemptStyle.Render(fmt.Sprintf("↻%d", s.attempts)))
	default:
		text = fmt.Sprintf("%s  %s",
			passedStyle.Render(fmt.Sprintf("✓ %d/%d MODULES PASSED", s.passed, s.total)),
			attemptStyle.Render(fmt.Sprintf("↻ %d ATTEMPTS", s.attempts)))
	}
	if s.loaded && s.pending > 0 {
		text += "  " + pendingStyle.Render(fmt.Sprintf("✎ %d TO REVIEW", s.pending))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(text)
}

const buttonWidth = 26

// renderMenu draws each menu item as a fixed-width button.
func renderMenu(m components.Menu, cw int) string {
	base := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
	selected := base.Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Primary).
		BorderForeground(theme.Primary)

	buttons := make([]string, 0, len(m.Items))
	for i, item := range m.Items {
		switch {
		case item.Disabled:
			buttons = append(buttons, base.Foreground(theme.TextDim).Render(item.Label))
		case i == m.Selected:
			buttons = append(buttons, selected.Render("▸ "+item.Label))
		default:
			buttons = append(buttons, base.Foreground(theme.Text).Render(item.Label))
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center, buttons...))
}

// renderMenuCompact renders the menu as text lines for small terminals.
func renderMenuCompact(m components.Menu, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(m.View())
}

func renderBanner(text string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ " + text)
}

// renderFrame wraps content in a double border centred in the area.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
