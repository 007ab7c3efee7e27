// Package predict is the main dashboard screen: the learner activity form,
// the results of the latest submission and the past predictions table.
package predict

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learntrack/internal/api"
	"github.com/abhisek/learntrack/internal/dashboard"
	"github.com/abhisek/learntrack/internal/form"
	"github.com/abhisek/learntrack/internal/router"
	"github.com/abhisek/learntrack/internal/screen"
	"github.com/abhisek/learntrack/internal/screens/history"
	"github.com/abhisek/learntrack/internal/ui/components"
	"github.com/abhisek/learntrack/internal/ui/layout"
	"github.com/abhisek/learntrack/internal/ui/theme"
)

const (
	labelWidth = 18
	charLimit  = 256
)

// PredictScreen drives one submission at a time through the orchestrator.
// Each backend step runs as its own command; results carry the submission
// id so a late reply from an earlier submission is dropped.
type PredictScreen struct {
	orch   *dashboard.Orchestrator
	state  dashboard.State
	fields []form.FieldInfo
	inputs []components.TextInput

	// focus indexes inputs; len(inputs) is the submit button.
	focus   int
	button  components.Button
	spinner spinner.Model

	ctx context.Context
	req api.PredictionRequest
}

var _ screen.Screen = (*PredictScreen)(nil)
var _ screen.KeyHintProvider = (*PredictScreen)(nil)
var _ screen.StatusProvider = (*PredictScreen)(nil)
var _ screen.MessageOwner = (*PredictScreen)(nil)

// New creates the dashboard screen. userID pre-fills the user id field.
func New(orch *dashboard.Orchestrator, userID string) *PredictScreen {
	in := form.New(userID)
	fields := form.Fields()
	inputs := make([]components.TextInput, len(fields))
	for i, f := range fields {
		inputs[i] = components.NewTextInput(f.Label, f.Placeholder, f.Numeric, charLimit)
		inputs[i].SetValue(in.Get(f.Field))
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Accent)

	s := &PredictScreen{
		orch:    orch,
		state:   dashboard.State{Past: []api.PastPrediction{}},
		fields:  fields,
		inputs:  inputs,
		spinner: sp,
		ctx:     context.Background(),
	}
	s.button = components.NewButton("Get Prediction", "Predicting...", s.submit)
	return s
}

// State returns a copy of the current display state.
func (s *PredictScreen) State() dashboard.State {
	return s.state
}

func (s *PredictScreen) Init() tea.Cmd {
	return tea.Batch(s.setFocus(0), s.fetchPast(context.Background()))
}

func (s *PredictScreen) Title() string {
	return "Prediction Dashboard"
}

func (s *PredictScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab/↑↓", Description: "Move"},
		{Key: "Enter", Description: "Next / Submit"},
		{Key: "Ctrl+H", Description: "History"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *PredictScreen) Status() layout.Status {
	st := layout.Status{Busy: s.state.Loading}
	if s.orch != nil {
		st.Backend = s.orch.Client().BaseURL()
	}
	st.UserID = s.input().UserID
	return st
}

// input collects the raw field values.
func (s *PredictScreen) input() form.Input {
	in := form.Input{}
	for i, f := range s.fields {
		// Field names come from form.Fields, so Set cannot fail.
		_ = in.Set(string(f.Field), s.inputs[i].Value())
	}
	return in
}

func (s *PredictScreen) setFocus(i int) tea.Cmd {
	n := len(s.inputs) + 1
	s.focus = ((i % n) + n) % n
	for j := range s.inputs {
		s.inputs[j].Blur()
	}
	s.button.Active = s.focus == len(s.inputs)
	if s.focus < len(s.inputs) {
		return s.inputs[s.focus].Focus()
	}
	return nil
}

func (s *PredictScreen) submit() tea.Cmd {
	if s.state.Loading || s.orch == nil {
		return nil
	}

	id := s.orch.NewSubmission()
	s.state.Begin(id)
	s.button.Disabled = true
	s.ctx = api.WithSubmission(context.Background(), id)
	s.req = s.input().Request()

	orch, ctx, req := s.orch, s.ctx, s.req
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		return predictDoneMsg{ID: id, Result: orch.Predict(ctx, req)}
	})
}

func (s *PredictScreen) finish() {
	s.state.Finish()
	s.button.Disabled = false
}

func (s *PredictScreen) fetchPast(ctx context.Context) tea.Cmd {
	if s.orch == nil {
		return nil
	}
	orch := s.orch
	return func() tea.Msg {
		return pastLoadedMsg{Result: orch.FetchPast(ctx)}
	}
}

func (s *PredictScreen) current(id string) bool {
	return s.state.Loading && id == s.state.SubmissionID
}

// Owns claims pipeline replies and spinner ticks so a submission still
// completes while the history screen is on top.
func (s *PredictScreen) Owns(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case predictDoneMsg, contentDoneMsg, recommendDoneMsg, progressDoneMsg, pastLoadedMsg:
		return true
	case spinner.TickMsg:
		return msg.ID == s.spinner.ID()
	}
	return false
}

func (s *PredictScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	orch, ctx, req := s.orch, s.ctx, s.req

	switch msg := msg.(type) {
	case predictDoneMsg:
		if !s.current(msg.ID) {
			return s, nil
		}
		if !s.state.ApplyPredict(msg.Result) {
			s.finish()
			return s, nil
		}
		id := msg.ID
		return s, tea.Batch(
			s.fetchPast(context.WithoutCancel(ctx)),
			func() tea.Msg {
				return contentDoneMsg{ID: id, Result: orch.GenerateContent(ctx, req)}
			},
		)

	case contentDoneMsg:
		if !s.current(msg.ID) {
			return s, nil
		}
		s.state.ApplyContent(msg.Result)
		id := msg.ID
		return s, func() tea.Msg {
			return recommendDoneMsg{ID: id, Result: orch.RecommendContent(ctx, req)}
		}

	case recommendDoneMsg:
		if !s.current(msg.ID) {
			return s, nil
		}
		s.state.ApplyRecommend(msg.Result)
		id := msg.ID
		return s, func() tea.Msg {
			return progressDoneMsg{ID: id, Result: orch.TrackProgress(ctx, req)}
		}

	case progressDoneMsg:
		if !s.current(msg.ID) {
			return s, nil
		}
		s.state.ApplyProgress(msg.Result)
		s.finish()
		return s, nil

	case pastLoadedMsg:
		s.state.ApplyPast(msg.Result)
		return s, nil

	case history.PastUpdatedMsg:
		s.state.ApplyPast(dashboard.Result[[]api.PastPrediction]{Value: msg.Past})
		return s, nil

	case spinner.TickMsg:
		if !s.state.Loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.focus < len(s.inputs) {
		var cmd tea.Cmd
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PredictScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "ctrl+h", "ctrl+p":
		hs := history.New(s.orch, s.state.Past)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: hs} }
	case "tab", "down":
		return s, s.setFocus(s.focus + 1)
	case "shift+tab", "up":
		return s, s.setFocus(s.focus - 1)
	case "enter":
		switch {
		case s.focus == len(s.inputs):
			var cmd tea.Cmd
			s.button, cmd = s.button.Update(msg)
			return s, cmd
		case s.focus == len(s.inputs)-1:
			return s, s.submit()
		}
		return s, s.setFocus(s.focus + 1)
	}

	if s.focus < len(s.inputs) {
		var cmd tea.Cmd
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PredictScreen) View(width, height int) string {
	compact := layout.IsCompactWidth(width)

	formWidth := width - 4
	resultsWidth := width - 4
	if !compact {
		formWidth = width*2/5 - 2
		resultsWidth = width - formWidth - 6
	}

	formCard := theme.Card.Width(formWidth).Render(s.viewForm())
	resultsCard := theme.Card.Width(resultsWidth).Render(s.viewResults(resultsWidth - 4))

	var top string
	if compact {
		top = lipgloss.JoinVertical(lipgloss.Left, formCard, resultsCard)
	} else {
		top = lipgloss.JoinHorizontal(lipgloss.Top, formCard, "  ", resultsCard)
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().PaddingLeft(1).Render(top))
	b.WriteString("\n")

	// Section title, table border and header take five lines.
	maxRows := height - lipgloss.Height(top) - 6
	title := theme.SectionTitle.Render(fmt.Sprintf("Past Predictions (%d)", len(s.state.Past)))
	if maxRows < 1 {
		b.WriteString("  " + title + "  " + theme.Hint.Render("Ctrl+H to browse"))
		return b.String()
	}
	tbl := components.PastTable{
		Rows:         s.state.Past,
		Selected:     -1,
		MaxRows:      maxRows,
		RoadmapWidth: max(width/3, 12),
	}
	b.WriteString("  " + title + "\n")
	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(tbl.View(width - 4)))
	return b.String()
}

func (s *PredictScreen) viewForm() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Learner Activity") + "\n\n")
	for _, in := range s.inputs {
		b.WriteString(in.View(labelWidth) + "\n")
	}
	b.WriteString("\n")

	prefix := ""
	if s.state.Loading {
		prefix = s.spinner.View() + " "
	}
	b.WriteString(s.button.View(prefix))
	return b.String()
}

func (s *PredictScreen) viewResults(width int) string {
	st := s.state
	var sections []string

	if st.Error != "" {
		sections = append(sections, theme.ErrorBanner.Width(width).Render(st.Error))
	}

	if st.Phase == dashboard.PhaseIdle {
		sections = append(sections, theme.Hint.Render("Fill in the form and press Enter to get a prediction."))
		return strings.Join(sections, "\n\n")
	}

	if st.Loading && st.ProficiencyLevel == "" {
		sections = append(sections, s.spinner.View()+" "+theme.Subtitle.Render("Fetching prediction..."))
		return strings.Join(sections, "\n\n")
	}

	if st.ProficiencyLevel != "" {
		sections = append(sections,
			theme.Label.Render("Proficiency Level ")+theme.Good.Render(st.ProficiencyLevel))
	}
	if st.Roadmap != "" {
		sections = append(sections, section("Suggested Roadmap", theme.Body.Width(width).Render(st.Roadmap)))
	}
	if st.StudyMaterial != "" {
		sections = append(sections, section("Study Material", theme.Body.Width(width).Render(st.StudyMaterial)))
	}
	if len(st.Recommendations) > 0 {
		bars := make([]string, 0, len(st.Recommendations))
		for _, r := range st.Recommendations {
			bars = append(bars, components.NewScoreBar(r.Content, r.Score, 12, width).View())
		}
		sections = append(sections, section("Recommended Content", strings.Join(bars, "\n")))
	}
	if len(st.Anomalies) > 0 {
		sections = append(sections, section("Anomalies", viewAnomalies(st.Anomalies, st.AnomalyCount())))
	}

	if st.Loading {
		sections = append(sections, s.spinner.View()+" "+theme.Subtitle.Render("Loading insights..."))
	}
	return strings.Join(sections, "\n\n")
}

func section(title, body string) string {
	return theme.SectionTitle.Render(title) + "\n" + body
}

func viewAnomalies(flags []int, count int) string {
	parts := make([]string, len(flags))
	for i, a := range flags {
		v := strconv.Itoa(a)
		if a == api.AnomalyMarker {
			parts[i] = theme.Anomaly.Render(v)
		} else {
			parts[i] = theme.Body.Render(v)
		}
	}
	out := "[" + strings.Join(parts, ", ") + "]  "
	if count == 0 {
		return out + theme.Good.Render("no anomalies detected")
	}
	return out + theme.Anomaly.Render(fmt.Sprintf("%d anomalous", count))
}
