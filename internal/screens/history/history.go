package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learntrack/internal/api"
	"github.com/abhisek/learntrack/internal/dashboard"
	"github.com/abhisek/learntrack/internal/router"
	"github.com/abhisek/learntrack/internal/screen"
	"github.com/abhisek/learntrack/internal/ui/components"
	"github.com/abhisek/learntrack/internal/ui/layout"
	"github.com/abhisek/learntrack/internal/ui/theme"
)

// PastUpdatedMsg carries a refreshed list back to the screen below when
// the history screen is closed.
type PastUpdatedMsg struct {
	Past []api.PastPrediction
}

type historyLoadedMsg struct {
	Result dashboard.Result[[]api.PastPrediction]
}

// HistoryScreen lists past predictions and expands the roadmap of a row.
type HistoryScreen struct {
	orch      *dashboard.Orchestrator
	past      []api.PastPrediction
	selected  int
	expanded  map[int]bool
	loading   bool
	refreshed bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)
var _ screen.BackHandler = (*HistoryScreen)(nil)

// New creates a HistoryScreen showing past. Pressing r fetches a fresh list.
func New(orch *dashboard.Orchestrator, past []api.PastPrediction) *HistoryScreen {
	return &HistoryScreen{
		orch:     orch,
		past:     past,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return nil
}

func (s *HistoryScreen) Title() string {
	return "Past Predictions"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Roadmap"},
		{Key: "r", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

// Back pops the screen, handing any refreshed list to the dashboard.
func (s *HistoryScreen) Back() tea.Cmd {
	var result tea.Msg
	if s.refreshed {
		result = PastUpdatedMsg{Past: s.past}
	}
	return func() tea.Msg { return router.PopScreenMsg{Result: result} }
}

func (s *HistoryScreen) refresh() tea.Cmd {
	if s.loading || s.orch == nil {
		return nil
	}
	s.loading = true
	s.errMsg = ""
	orch := s.orch
	return func() tea.Msg {
		return historyLoadedMsg{Result: orch.FetchPast(context.Background())}
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.loading = false
		s.refreshed = true
		var st dashboard.State
		st.ApplyPast(msg.Result)
		s.past = st.Past
		if msg.Result.Err != nil {
			s.errMsg = api.Describe(msg.Result.Err)
		}
		s.expanded = make(map[int]bool)
		if s.selected >= len(s.past) {
			s.selected = max(len(s.past)-1, 0)
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.past)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if len(s.past) > 0 {
				s.expanded[s.selected] = !s.expanded[s.selected]
			}
			return s, nil
		case "r":
			return s, s.refresh()
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	if s.loading {
		b.WriteString(theme.Hint.Render("  Refreshing past predictions...") + "\n\n")
	}
	if s.errMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).
			Render(fmt.Sprintf("  Refresh failed: %s", s.errMsg)) + "\n\n")
	}

	if len(s.past) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
			Render("  No past predictions yet. Submit the form to create one."))
		return b.String()
	}

	detail := ""
	if s.expanded[s.selected] {
		p := s.past[s.selected]
		detail = theme.Card.Width(width - 4).Render(
			theme.SectionTitle.Render(fmt.Sprintf("Roadmap for %s", p.DisplayID(s.selected))) + "\n" +
				theme.Body.Render(p.Roadmap.String()),
		)
	}

	// Table border and header take four lines, plus the margin and the row hint.
	reserved := 6
	if detail != "" {
		reserved += lipgloss.Height(detail)
	}
	maxRows := max(height-reserved, 3)
	offset := 0
	if s.selected >= maxRows {
		offset = s.selected - maxRows + 1
	}

	tbl := components.PastTable{
		Rows:         s.past,
		Selected:     s.selected,
		Offset:       offset,
		MaxRows:      maxRows,
		RoadmapWidth: max(width/3, 12),
	}
	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(tbl.View(width - 4)))
	if detail != "" {
		b.WriteString("\n" + lipgloss.NewStyle().PaddingLeft(2).Render(detail))
	}
	return b.String()
}
