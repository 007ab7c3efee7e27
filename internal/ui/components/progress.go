package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learntrack/internal/ui/layout"
	"github.com/abhisek/learntrack/internal/ui/theme"
)

// ScoreBar displays a recommendation score as a horizontal bar followed by
// its label. Scores are clamped to [0, 1] for the bar; the printed value is not.
type ScoreBar struct {
	Label    string
	Score    float64
	BarWidth int
	Width    int
}

// NewScoreBar creates a new score bar.
func NewScoreBar(label string, score float64, barWidth, width int) ScoreBar {
	return ScoreBar{
		Label:    label,
		Score:    score,
		BarWidth: barWidth,
		Width:    width,
	}
}

// Fraction returns the clamped fill fraction.
func (p ScoreBar) Fraction() float64 {
	switch {
	case p.Score != p.Score: // NaN
		return 0
	case p.Score < 0:
		return 0
	case p.Score > 1:
		return 1
	}
	return p.Score
}

// View renders the score bar.
func (p ScoreBar) View() string {
	barWidth := p.BarWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth)*p.Fraction() + 0.5)
	if filled > barWidth {
		filled = barWidth
	}
	empty := barWidth - filled

	result := theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	result += lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf(" %5.2f  ", p.Score))

	labelWidth := p.Width - lipgloss.Width(result)
	if labelWidth < 0 {
		labelWidth = 0
	}
	label := layout.Truncate(p.Label, labelWidth)
	return result + lipgloss.NewStyle().Foreground(theme.Text).Render(label)
}
