package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learntrack/internal/ui/theme"
)

const wordmark = "L E A R N T R A C K"

const wordmarkCompact = "LearnTrack"

// RenderBanner returns the LearnTrack wordmark in a double border.
// Terminals narrower than 30 columns get the plain name.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 30 {
		return style.Render(wordmarkCompact)
	}
	return style.
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Padding(0, 2).
		Render(wordmark)
}
