package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/placeprep/internal/ui/theme"
)

// OptionLabels are the letters shown before answer options.
var OptionLabels = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

// OptionList renders a question and its options with a movable cursor. It
// never reveals which option is correct.
type OptionList struct {
	Question string
	Options  []string
	Cursor   int

	// Chosen is the recorded answer, or -1.
	Chosen int
}

// NewOptionList creates an OptionList. The cursor starts on chosen when
// set, else on the first option.
func NewOptionList(question string, options []string, chosen int) OptionList {
	cursor := 0
	if chosen >= 0 && chosen < len(options) {
		cursor = chosen
	}
	return OptionList{Question: question, Options: options, Cursor: cursor, Chosen: chosen}
}

// Update moves the cursor. Choosing is left to the owner so it can record
// the answer on its attempt.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
	}
	return o, nil
}

// View renders the question and options.
func (o OptionList) View(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Width(width).
		Render(o.Question))
	b.WriteString("\n\n")

	for i, opt := range o.Options {
		label := fmt.Sprint(i + 1)
		if i < len(OptionLabels) {
			label = OptionLabels[i]
		}
		prefix := "  "
		if i == o.Cursor {
			prefix = "▸ "
		}
		mark := "   "
		if i == o.Chosen {
			mark = " ● "
		}

		line := fmt.Sprintf("%s%s)%s%s", prefix, label, mark, opt)
		switch {
		case i == o.Cursor:
			b.WriteString(theme.Selected.Render(line))
		case i == o.Chosen:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
