package components

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/learntrack/internal/api"
	"github.com/abhisek/learntrack/internal/ui/layout"
	"github.com/abhisek/learntrack/internal/ui/theme"
)

// PastTableHeaders are the column titles of the past predictions table.
var PastTableHeaders = []string{"ID", "Quiz", "Time", "Correct", "Topics", "Proficiency", "Roadmap"}

// PastTable renders past predictions as a bordered table.
type PastTable struct {
	Rows []api.PastPrediction

	// Selected highlights a row; -1 for none.
	Selected int

	// Offset is the index of the first row shown; MaxRows limits the rows
	// shown, 0 for all.
	Offset  int
	MaxRows int

	// RoadmapWidth truncates the roadmap column, 0 for no limit.
	RoadmapWidth int
}

// FormatNumber renders a decoded numeric field without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PastRow returns the table cells for one record.
func PastRow(p api.PastPrediction, index, roadmapWidth int) []string {
	roadmap := p.Roadmap.String()
	if roadmapWidth > 0 {
		roadmap = layout.Truncate(roadmap, roadmapWidth)
	}
	return []string{
		p.DisplayID(index),
		FormatNumber(p.QuizScores),
		FormatNumber(p.TimeSpent),
		FormatNumber(p.CorrectAnswers),
		FormatNumber(p.TopicsCompleted),
		p.ProficiencyLevel.String(),
		roadmap,
	}
}

// View renders the table, or a placeholder when there are no rows.
func (t PastTable) View(width int) string {
	if len(t.Rows) == 0 {
		return theme.Hint.Render("No past predictions yet.")
	}

	start := t.Offset
	if start < 0 || start >= len(t.Rows) {
		start = 0
	}
	end := len(t.Rows)
	if t.MaxRows > 0 && start+t.MaxRows < end {
		end = start + t.MaxRows
	}

	rows := make([][]string, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, PastRow(t.Rows[i], i, t.RoadmapWidth))
	}

	selected := t.Selected - start
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(PastTableHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return theme.TableHeader
			case row == selected:
				return theme.TableSelected
			}
			return theme.TableCell
		})
	if width > 0 {
		tbl = tbl.Width(width)
	}

	out := tbl.Render()
	if start > 0 || end < len(t.Rows) {
		out += "\n" + theme.Hint.Render(fmt.Sprintf("rows %d-%d of %d", start+1, end, len(t.Rows)))
	}
	return out
}
