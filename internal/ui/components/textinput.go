package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// TextInput is a single-line prompt over bubbles/textinput that remembers
// what was submitted. Up and down walk back through earlier entries, the
// way a shell does.
type TextInput struct {
	Model textinput.Model

	history []string
	// pos indexes history while recalling; len(history) means "not
	// recalling" and draft holds what was typed before.
	pos   int
	draft string
}

// NewTextInput creates a focused input. charLimit <= 0 keeps the bubbles
// default.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()
	return TextInput{Model: ti}
}

func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && len(t.history) > 0 {
		switch k.String() {
		case "up":
			t.recall(-1)
			return t, nil
		case "down":
			t.recall(1)
			return t, nil
		}
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t *TextInput) recall(dir int) {
	if t.pos == len(t.history) {
		t.draft = t.Model.Value()
	}
	t.pos = min(max(t.pos+dir, 0), len(t.history))
	if t.pos == len(t.history) {
		t.Model.SetValue(t.draft)
	} else {
		t.Model.SetValue(t.history[t.pos])
	}
	t.Model.CursorEnd()
}

func (t TextInput) View() string {
	return t.Model.View()
}

// Value is the trimmed input.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// Submit returns the trimmed input, records it in the history unless it is
// empty or repeats the last entry, and clears the field.
func (t *TextInput) Submit() string {
	v := t.Value()
	if v != "" && (len(t.history) == 0 || t.history[len(t.history)-1] != v) {
		t.history = append(t.history, v)
	}
	t.Clear()
	return v
}

// Clear empties the field and leaves history recall.
func (t *TextInput) Clear() {
	t.Model.Reset()
	t.pos, t.draft = len(t.history), ""
}
