package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/placeprep/internal/ui/theme"
)

// ProgressBar is "label ████░░░░ done/total" fitted to Width cells.
type ProgressBar struct {
	Label string
	Done  int
	Total int
	Width int
}

// NewProgressBar creates a ProgressBar.
func NewProgressBar(label string, done, total, width int) ProgressBar {
	return ProgressBar{Label: label, Done: done, Total: total, Width: width}
}

// Filled is how many of n cells the bar fills. Any progress short of done
// shows at most n-1 cells, so a full bar always means complete.
func (p ProgressBar) Filled(n int) int {
	if p.Total <= 0 || p.Done <= 0 {
		return 0
	}
	if p.Done >= p.Total {
		return n
	}
	return min(max(n*p.Done/p.Total, 1), n-1)
}

func (p ProgressBar) View() string {
	var label string
	if p.Label != "" {
		label = theme.Body.Render(p.Label) + "  "
	}
	count := fmt.Sprintf("  %d/%d", p.Done, p.Total)
	n := max(p.Width-lipgloss.Width(label)-len(count), 4)
	f := p.Filled(n)

	return label +
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("█", f)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", n-f)) +
		theme.Hint.UnsetItalic().Render(count)
}
