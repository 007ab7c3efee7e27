package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learntrack/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is an optional interface for screens that report a short
// status in the header, such as an in-flight submission.
type StatusProvider interface {
	Status() layout.Status
}

// BackHandler is an optional interface for screens that decide what Esc
// does, for example to hand a result to the screen below when popped.
type BackHandler interface {
	Back() tea.Cmd
}

// MessageOwner is an optional interface for screens that must receive their
// own messages while another screen is on top, such as replies to requests
// they started.
type MessageOwner interface {
	Owns(msg tea.Msg) bool
}
