// Package layout draws the frame shared by every screen: header with the
// navigation trail, body, and the key-hint footer.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/placeprep/internal/ui/theme"
)

// The smallest terminal the quiz screen fits in with four options.
const (
	MinWidth  = 72
	MinHeight = 20
)

const trailSep = " › "

// KeyHint is one footer entry.
type KeyHint struct {
	Key         string
	Description string
}

// Identity is what the header shows on the right.
type Identity struct {
	Name  string
	Admin bool
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border)

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks for a bigger terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("Terminal too small!\n\nPlacePrep needs at least %d x %d.\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height))
}

// RenderHeader draws the product name, the trail of open screens and who
// is signed in.
func RenderHeader(trail []string, who Identity, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  PlacePrep")

	var right string
	if who.Name != "" {
		right = lipgloss.NewStyle().Foreground(theme.Accent).Render("● " + who.Name)
		if who.Admin {
			right += " " + theme.AdminBadge.Render("ADMIN")
		}
	}

	inner := max(width-4, 0)
	room := inner - lipgloss.Width(left) - lipgloss.Width(right) - 4
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(FitTrail(trail, room))

	gap := inner - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(right)
	lgap := max(gap/2, 1)
	rgap := max(gap-lgap, 1)
	return bar.Width(width).Render(left + strings.Repeat(" ", lgap) + center + strings.Repeat(" ", rgap) + right)
}

// FitTrail joins titles with › and drops the oldest ones, replaced by an
// ellipsis, until the result fits in width cells. The active title is
// always kept.
func FitTrail(trail []string, width int) string {
	if len(trail) == 0 {
		return ""
	}
	for start := 0; start < len(trail); start++ {
		s := strings.Join(trail[start:], trailSep)
		if start > 0 {
			s = "…" + trailSep + s
		}
		if lipgloss.Width(s) <= width {
			return s
		}
	}
	return trail[len(trail)-1]
}

// RenderFooter draws key hints. A non-empty warning replaces them.
func RenderFooter(hints []KeyHint, warning string, width int) string {
	if warning != "" {
		return bar.Width(width).Render("  " + theme.Notice.Bold(true).Render(warning))
	}
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar.Width(width).Render("  " + strings.Join(parts, "   "))
}

// RenderFrame stacks header, body and footer, sizing the body to fill
// whatever height is left.
func RenderFrame(header, body, footer string, width, height int) string {
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return header + "\n" + lipgloss.NewStyle().Width(width).Height(h).Render(body) + "\n" + footer
}

// Center places s horizontally centred in width.
func Center(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
