package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"github.com/tkha2026/luyenthi/internal/logging"
	"github.com/tkha2026/luyenthi/internal/quizgen"
	"github.com/tkha2026/luyenthi/internal/screen"
	"github.com/tkha2026/luyenthi/internal/session"
	"github.com/tkha2026/luyenthi/internal/ui/components"
	"github.com/tkha2026/luyenthi/internal/ui/layout"
	"github.com/tkha2026/luyenthi/internal/ui/theme"
)

const spinnerInterval = 120 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	topicPlaceholder = "e.g. Antiderivatives, Oxyz, History 12..."
	answerPrompt     = "Type a number or keyword..."
)

// QuizScreen implements screen.Screen for the whole quiz flow. It renders
// the controller's phase and turns key presses into controller commands.
type QuizScreen struct {
	ctrl *session.Controller
	ctx  context.Context
	log  logrus.FieldLogger

	topic        components.TextInput
	levels       components.Menu
	levelsActive bool

	mc     components.MultiChoice
	tf     components.TrueFalse
	answer components.TextInput

	confirmHome bool
	notice      string
	spinner     int
	cancelLoad  context.CancelFunc
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)

// New creates a QuizScreen driving ctrl. Generation requests derive from
// ctx.
func New(ctx context.Context, ctrl *session.Controller, log logrus.FieldLogger) *QuizScreen {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &QuizScreen{
		ctrl:  ctrl,
		ctx:   ctx,
		log:   log,
		topic: components.NewTextInput(topicPlaceholder, 120, 48),
	}
	s.levels = s.levelMenu()
	return s
}

func (s *QuizScreen) levelMenu() components.Menu {
	var items []components.MenuItem
	for i, l := range quizgen.Levels() {
		level := l
		items = append(items, components.MenuItem{
			Label:       strings.ToUpper(level.Title()),
			Description: level.Blurb(),
			Hotkey:      fmt.Sprint(i + 1),
			Style:       theme.LevelStyle(level),
			Action:      func() tea.Cmd { return s.start(level) },
		})
	}
	return components.NewMenu(items)
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.topic.Init()
}

func (s *QuizScreen) Title() string {
	snap := s.ctrl.Snapshot()
	if snap.Phase == session.PhaseIdle {
		return "Pick a topic"
	}
	return snap.Level.Title()
}

func (s *QuizScreen) Status() string {
	snap := s.ctrl.Snapshot()
	switch snap.Phase {
	case session.PhaseActive, session.PhaseReveal:
		return fmt.Sprintf("Score %d", snap.Score)
	}
	return ""
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.confirmHome {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave quiz"},
			{Key: "N", Description: "Keep going"},
		}
	}
	snap := s.ctrl.Snapshot()
	switch snap.Phase {
	case session.PhaseIdle:
		hints := []layout.KeyHint{
			{Key: "Tab", Description: "Topic / Level"},
			{Key: "1-3", Description: "Start level"},
		}
		if snap.Err != nil {
			hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Dismiss"})
		}
		return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	case session.PhaseLoading:
		return []layout.KeyHint{{Key: "Esc", Description: "Home"}}
	case session.PhaseActive:
		switch snap.Question.Type {
		case quizgen.TypeMultipleChoice:
			return []layout.KeyHint{
				{Key: "1-4", Description: "Answer"},
				{Key: "↑↓ Enter", Description: "Pick"},
				{Key: "Esc", Description: "Home"},
			}
		case quizgen.TypeTrueFalse:
			return []layout.KeyHint{
				{Key: "T/F", Description: "Mark"},
				{Key: "↑↓", Description: "Row"},
				{Key: "Enter", Description: "Submit"},
				{Key: "Esc", Description: "Home"},
			}
		}
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Home"},
		}
	case session.PhaseReveal:
		if snap.Reveal != nil && snap.Reveal.Manual {
			return []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
		}
		return nil
	case session.PhaseSummary:
		return []layout.KeyHint{{Key: "Enter", Description: "New topic"}}
	}
	return nil
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case quizLoadedMsg:
		return s, s.handleLoaded(msg)

	case revealDoneMsg:
		if s.ctrl.Advance(msg.Token) {
			return s, s.setupQuestion()
		}
		return s, nil

	case spinnerTickMsg:
		if s.ctrl.Phase() != session.PhaseLoading {
			return s, nil
		}
		s.spinner = (s.spinner + 1) % len(spinnerFrames)
		return s, spinnerTick()

	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}

	// Forward cursor blinks and the like to the focused input.
	switch s.ctrl.Phase() {
	case session.PhaseIdle:
		var cmd tea.Cmd
		s.topic, cmd = s.topic.Update(msg)
		return s, cmd
	case session.PhaseActive:
		if q := s.ctrl.Snapshot().Question; q != nil && q.Type == quizgen.TypeShortAnswer {
			var cmd tea.Cmd
			s.answer, cmd = s.answer.Update(msg)
			return s, cmd
		}
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()

	if s.confirmHome {
		switch key {
		case "y", "Y":
			s.confirmHome = false
			return s.goHome()
		case "n", "N", "esc":
			s.confirmHome = false
		}
		return nil
	}

	phase := s.ctrl.Phase()
	if key == "esc" && phase != session.PhaseIdle && phase != session.PhaseSummary {
		s.confirmHome = true
		return nil
	}

	switch phase {
	case session.PhaseIdle:
		return s.handleIdleKey(msg)
	case session.PhaseActive:
		return s.handleActiveKey(msg)
	case session.PhaseReveal:
		if key == "enter" {
			if err := s.ctrl.Continue(); err == nil {
				return s.setupQuestion()
			}
		}
	case session.PhaseSummary:
		if key == "enter" || key == "esc" {
			if err := s.ctrl.Restart(); err == nil {
				return s.resetIdle()
			}
		}
	}
	return nil
}

func (s *QuizScreen) handleIdleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		s.ctrl.DismissError()
		s.notice = ""
		return nil
	case "tab", "shift+tab":
		return s.toggleFocus()
	}

	if s.levelsActive {
		var cmd tea.Cmd
		s.levels, cmd = s.levels.Update(msg)
		return cmd
	}

	if msg.String() == "enter" {
		return s.toggleFocus()
	}
	var cmd tea.Cmd
	s.topic, cmd = s.topic.Update(msg)
	return cmd
}

func (s *QuizScreen) toggleFocus() tea.Cmd {
	s.levelsActive = !s.levelsActive
	if s.levelsActive {
		s.topic.Blur()
		return nil
	}
	return s.topic.Focus()
}

// start asks the controller for a new quiz and schedules the fetch.
func (s *QuizScreen) start(level quizgen.Level) tea.Cmd {
	req, err := s.ctrl.StartQuiz(s.topic.Value(), level)
	if err != nil {
		if errors.Is(err, session.ErrEmptyTopic) {
			s.notice = "Enter a topic before picking a level."
			s.levelsActive = false
			return s.topic.Focus()
		}
		s.notice = err.Error()
		return nil
	}
	s.notice = ""
	s.spinner = 0

	scoped := s.log.WithField("session_id", s.ctrl.Snapshot().SessionID)
	ctx, cancel := context.WithCancel(logging.NewContext(s.ctx, scoped))
	s.cancelLoad = cancel
	ctrl := s.ctrl
	fetch := func() tea.Msg {
		defer cancel()
		return quizLoadedMsg{Result: ctrl.Fetch(ctx, req)}
	}
	return tea.Batch(fetch, spinnerTick())
}

func (s *QuizScreen) handleLoaded(msg quizLoadedMsg) tea.Cmd {
	if !s.ctrl.CompleteLoad(msg.Result) {
		return nil
	}
	s.cancelLoad = nil
	if s.ctrl.Phase() == session.PhaseIdle {
		s.log.WithError(msg.Result.Err).Debug("showing generation failure")
		return s.resetIdle()
	}
	return s.setupQuestion()
}

// setupQuestion builds the widgets for the current question, or for the
// summary when the quiz is over.
func (s *QuizScreen) setupQuestion() tea.Cmd {
	s.notice = ""
	snap := s.ctrl.Snapshot()
	if snap.Phase != session.PhaseActive || snap.Question == nil {
		return nil
	}

	q := snap.Question
	switch q.Type {
	case quizgen.TypeMultipleChoice:
		s.mc = components.NewMultiChoice(q.Options)
	case quizgen.TypeTrueFalse:
		statements := make([]string, len(q.SubItems))
		for i, it := range q.SubItems {
			statements[i] = it.Text
		}
		s.tf = components.NewTrueFalse(statements)
	case quizgen.TypeShortAnswer:
		s.answer = components.NewTextInput(answerPrompt, 64, 40)
		return s.answer.Init()
	}
	return nil
}

func (s *QuizScreen) handleActiveKey(msg tea.KeyPressMsg) tea.Cmd {
	q := s.ctrl.Snapshot().Question
	if q == nil {
		return nil
	}

	switch q.Type {
	case quizgen.TypeMultipleChoice:
		s.mc = s.mc.Update(msg)
		opt, ok := s.mc.Picked()
		if !ok {
			return nil
		}
		return s.submit(session.Choice(opt))

	case quizgen.TypeTrueFalse:
		if msg.String() == "enter" {
			return s.submitDraft()
		}
		var row int
		s.tf, row = s.tf.Update(msg)
		if row >= 0 {
			s.setMark(row, s.tf.Verdicts[row] == components.VerdictTrue)
			s.notice = ""
		}
		return nil

	case quizgen.TypeShortAnswer:
		if msg.String() == "enter" {
			if strings.TrimSpace(s.answer.Value()) == "" {
				s.notice = "Type an answer first."
				return nil
			}
			s.setText(s.answer.Value())
			return s.submitDraft()
		}
		var cmd tea.Cmd
		s.answer, cmd = s.answer.Update(msg)
		s.setText(s.answer.Value())
		return cmd
	}
	return nil
}

// setMark mirrors a true-false row into the controller draft.
func (s *QuizScreen) setMark(row int, v bool) {
	if err := s.ctrl.SetMark(row, v); err != nil {
		s.log.WithError(err).WithField("row", row).Debug("draft mark rejected")
	}
}

// setText mirrors the short-answer input into the controller draft.
func (s *QuizScreen) setText(text string) {
	if err := s.ctrl.SetText(text); err != nil {
		s.log.WithError(err).Debug("draft text rejected")
	}
}

func (s *QuizScreen) submit(a session.Answer) tea.Cmd {
	r, err := s.ctrl.Submit(a)
	return s.afterSubmit(r, err)
}

func (s *QuizScreen) submitDraft() tea.Cmd {
	r, err := s.ctrl.SubmitDraft()
	return s.afterSubmit(r, err)
}

func (s *QuizScreen) afterSubmit(r *session.Reveal, err error) tea.Cmd {
	if err != nil {
		if errors.Is(err, session.ErrIncompleteSelection) {
			s.notice = "Mark all four statements before submitting."
		}
		return nil
	}
	s.notice = ""
	correct := r.Correct
	s.mc.Correct = &correct
	s.tf.Locked = true

	if r.Manual {
		s.answer.Blur()
		return nil
	}
	token := r.Token
	return tea.Tick(s.ctrl.RevealDelay(), func(time.Time) tea.Msg {
		return revealDoneMsg{Token: token}
	})
}

func (s *QuizScreen) goHome() tea.Cmd {
	if s.cancelLoad != nil {
		s.cancelLoad()
		s.cancelLoad = nil
	}
	s.ctrl.GoHome()
	return s.resetIdle()
}

func (s *QuizScreen) resetIdle() tea.Cmd {
	s.levelsActive = false
	s.confirmHome = false
	s.topic.SetValue(s.ctrl.Snapshot().Topic)
	return s.topic.Focus()
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
