package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learntrack/internal/ui/theme"
)

// Button is a styled button component. A disabled button ignores presses
// and renders BusyLabel instead of Label.
type Button struct {
	Label     string
	BusyLabel string
	Active    bool
	Disabled  bool
	OnPress   func() tea.Cmd
}

// NewButton creates a new button.
func NewButton(label, busyLabel string, onPress func() tea.Cmd) Button {
	return Button{
		Label:     label,
		BusyLabel: busyLabel,
		OnPress:   onPress,
	}
}

// Update handles key events.
func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	if !b.Active || b.Disabled {
		return b, nil
	}

	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		if kmsg.String() == "enter" && b.OnPress != nil {
			return b, b.OnPress()
		}
	}

	return b, nil
}

// View renders the button. prefix is drawn before the label, e.g. a spinner frame.
func (b Button) View(prefix string) string {
	if b.Disabled {
		label := b.BusyLabel
		if label == "" {
			label = b.Label
		}
		return theme.ButtonDisabled.Render(prefix + label)
	}
	label := "▸ " + b.Label
	if b.Active {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
