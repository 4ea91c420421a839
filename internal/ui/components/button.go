package components

import (
	"strings"

	"github.com/abhisek/placeprep/internal/ui/theme"
)

// Button is a key-labelled action drawn in the result screen's action row.
// The Active one is the suggested next step.
type Button struct {
	Key    string
	Label  string
	Active bool
}

func (b Button) View() string {
	text := b.Label
	if b.Key != "" {
		text = "[" + b.Key + "] " + text
	}
	style := theme.ButtonInactive
	if b.Active {
		style = theme.ButtonActive
	}
	return style.Render(text)
}

// ButtonRow lays buttons out left to right.
func ButtonRow(buttons ...Button) string {
	views := make([]string, len(buttons))
	for i, b := range buttons {
		views[i] = b.View()
	}
	return strings.Join(views, "  ")
}
