package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"github.com/tkha2026/luyenthi/internal/router"
	"github.com/tkha2026/luyenthi/internal/screen"
	"github.com/tkha2026/luyenthi/internal/screens/quiz"
	"github.com/tkha2026/luyenthi/internal/screens/welcome"
	"github.com/tkha2026/luyenthi/internal/session"
	"github.com/tkha2026/luyenthi/internal/ui/layout"
)

// Options holds the dependencies of the TUI.
type Options struct {
	Controller *session.Controller
	Logger     logrus.FieldLogger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates an AppModel that opens on the welcome splash.
func newAppModel(ctx context.Context, opts Options) AppModel {
	next := func() screen.Screen {
		return quiz.New(ctx, opts.Controller, opts.Logger)
	}
	return AppModel{
		router: router.New(welcome.New(next)),
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
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
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
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

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	var title, status string
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Any key", Description: "Start"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until it exits. Cancelling
// ctx aborts any quiz generation in flight.
func Run(ctx context.Context, opts Options) error {
	if opts.Controller == nil {
		return fmt.Errorf("app: no session controller")
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	p := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		opts.Logger.WithError(err).Error("tui exited with error")
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
