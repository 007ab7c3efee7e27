package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learntrack/internal/ui/theme"
)

// numericRunes are the characters a numeric field accepts as typed input.
const numericRunes = "0123456789.-+eE"

// TextInput wraps bubbles/textinput with a label and LearnTrack styling.
type TextInput struct {
	Model       textinput.Model
	Label       string
	NumericOnly bool
}

// NewTextInput creates a new, unfocused text input.
func NewTextInput(label, placeholder string, numericOnly bool, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}

	return TextInput{
		Model:       ti,
		Label:       label,
		NumericOnly: numericOnly,
	}
}

// Focus focuses the input and returns the cursor blink command.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has focus.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Update handles messages. Numeric inputs drop printable keys that cannot
// be part of a number; the value is still coerced later, not validated here.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.NumericOnly {
		if kmsg, ok := msg.(tea.KeyPressMsg); ok {
			key := kmsg.String()
			if key == "space" || (len([]rune(key)) == 1 && !strings.ContainsAny(key, numericRunes)) {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label and the input on one line.
func (t TextInput) View(labelWidth int) string {
	label := theme.Label
	if t.Focused() {
		label = theme.Selected
	}
	marker := "  "
	if t.Focused() {
		marker = lipgloss.NewStyle().Foreground(theme.Primary).Render("▸ ")
	}
	return marker + label.Width(labelWidth).Render(t.Label) + " " + t.Model.View()
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
}
