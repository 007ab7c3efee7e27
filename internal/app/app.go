package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learntrack/internal/dashboard"
	"github.com/abhisek/learntrack/internal/logger"
	"github.com/abhisek/learntrack/internal/router"
	"github.com/abhisek/learntrack/internal/screen"
	"github.com/abhisek/learntrack/internal/screens/predict"
	"github.com/abhisek/learntrack/internal/screens/welcome"
	"github.com/abhisek/learntrack/internal/ui/layout"
)

// Options configures the terminal dashboard.
type Options struct {
	Orchestrator *dashboard.Orchestrator
	UserID       string
	Log          *logger.Logger

	// Splash shows the welcome animation before the dashboard.
	Splash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	log    *logger.Logger
	width  int
	height int
}

// newAppModel creates the root model with the dashboard, or the splash
// screen leading to it.
func newAppModel(opts Options) AppModel {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	dash := func() screen.Screen {
		return predict.New(opts.Orchestrator, opts.UserID)
	}

	var initial screen.Screen
	if opts.Splash {
		initial = welcome.New(dash)
	} else {
		initial = dash()
	}
	return AppModel{
		router: router.New(initial),
		log:    log,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				if bh, ok := m.router.Active().(screen.BackHandler); ok {
					return m, bh.Back()
				}
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	var status layout.Status
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Any key", Description: "Continue"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := newAppModel(opts)
	m.log.Info("dashboard started", "user_id", opts.UserID, "splash", opts.Splash)
	defer m.log.Info("dashboard stopped")

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}
