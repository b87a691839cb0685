package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/tkha2026/luyenthi/internal/logging"
	"github.com/tkha2026/luyenthi/internal/quizgen"
	"github.com/tkha2026/luyenthi/internal/session"
)

type fakeGenerator struct {
	byLevel map[quizgen.Level][]quizgen.Question
	err     error
}

func (g *fakeGenerator) Generate(ctx context.Context, _ string, level quizgen.Level) ([]quizgen.Question, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.byLevel[level], nil
}

func fixtures() map[quizgen.Level][]quizgen.Question {
	easy := make([]quizgen.Question, 12)
	for i := range easy {
		easy[i] = quizgen.Question{
			ID:      fmt.Sprintf("e%d", i),
			Type:    quizgen.TypeMultipleChoice,
			Content: fmt.Sprintf("Question %d", i),
			Options: []string{"w", "x", "y", "z"},
			Answer:  "z",
		}
	}
	challenge := make([]quizgen.Question, 4)
	for i := range challenge {
		challenge[i] = quizgen.Question{
			ID:      fmt.Sprintf("c%d", i),
			Type:    quizgen.TypeTrueFalse,
			Content: "Mark each statement",
			SubItems: []quizgen.SubItem{
				{Text: "one", Answer: true},
				{Text: "two", Answer: false},
				{Text: "three", Answer: true},
				{Text: "four", Answer: false},
			},
		}
	}
	final := make([]quizgen.Question, 6)
	for i := range final {
		final[i] = quizgen.Question{
			ID:          fmt.Sprintf("f%d", i),
			Type:        quizgen.TypeShortAnswer,
			Content:     "2 + 2 = ?",
			Answer:      "4",
			Explanation: "Add them.",
		}
	}
	return map[quizgen.Level][]quizgen.Question{
		quizgen.LevelEasy:      easy,
		quizgen.LevelChallenge: challenge,
		quizgen.LevelFinal:     final,
	}
}

func newTestScreen(gen quizgen.Generator) (*QuizScreen, *session.Controller) {
	s, ctrl, _ := newLoggedScreen(gen)
	return s, ctrl
}

// newLoggedScreen is newTestScreen with a debug-level hook attached.
func newLoggedScreen(gen quizgen.Generator) (*QuizScreen, *session.Controller, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	cfg := session.DefaultConfig()
	cfg.Rand = session.SeededRand(7)
	ctrl := session.NewController(gen, cfg, logger)
	return New(context.Background(), ctrl, logger), ctrl, hook
}

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

var (
	enterKey = tea.KeyPressMsg{Code: tea.KeyEnter}
	escKey   = tea.KeyPressMsg{Code: tea.KeyEscape}
	tabKey   = tea.KeyPressMsg{Code: tea.KeyTab}
)

// drain runs cmd and delivers the quiz result it produces to s.
func drain(t *testing.T, s *QuizScreen, cmd tea.Cmd) {
	t.Helper()
	for _, msg := range collect(cmd) {
		if m, ok := msg.(quizLoadedMsg); ok {
			s.Update(m)
			return
		}
	}
	t.Fatal("command produced no quiz result")
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// startLevel enters topic, focuses the level menu and presses the hotkey.
func startLevel(t *testing.T, s *QuizScreen, topic string, hotkey rune) tea.Cmd {
	t.Helper()
	s.topic.SetValue(topic)
	s.Update(tabKey)
	if !s.levelsActive {
		t.Fatal("tab should focus the level menu")
	}
	_, cmd := s.Update(key(hotkey))
	return cmd
}

func TestStartWithoutTopicShowsNotice(t *testing.T) {
	s, ctrl := newTestScreen(&fakeGenerator{byLevel: fixtures()})

	startLevel(t, s, "   ", '1')
	if ctrl.Phase() != session.PhaseIdle {
		t.Fatalf("phase = %v, want idle", ctrl.Phase())
	}
	if s.notice == "" {
		t.Error("expected a notice asking for a topic")
	}
	if s.levelsActive {
		t.Error("focus should return to the topic input")
	}
}

func TestEnterMovesFocusToLevels(t *testing.T) {
	s, _ := newTestScreen(&fakeGenerator{byLevel: fixtures()})
	s.topic.SetValue("Sóng cơ")
	s.Update(enterKey)
	if !s.levelsActive {
		t.Error("enter in the topic input should focus the level menu")
	}
}

func TestLoadingShowsSpinner(t *testing.T) {
	s, ctrl := newTestScreen(&fakeGenerator{byLevel: fixtures()})
	cmd := startLevel(t, s, "Sóng cơ", '1')
	if ctrl.Phase() != session.PhaseLoading {
		t.Fatalf("phase = %v, want loading", ctrl.Phase())
	}
	if !strings.Contains(s.View(100, 30), "Writing your quiz") {
		t.Error("loading view should say the quiz is being written")
	}

	_, next := s.Update(spinnerTickMsg{})
	if next == nil || s.spinner != 1 {
		t.Error("spinner should advance and reschedule while loading")
	}
	drain(t, s, cmd)
	if _, next := s.Update(spinnerTickMsg{}); next != nil {
		t.Error("spinner should stop once loaded")
	}
}

func TestMultipleChoiceFlow(t *testing.T) {
	s, ctrl := newTestScreen(&fakeGenerator{byLevel: fixtures()})
	drain(t, s, startLevel(t, s, "Sóng cơ", '1'))

	if ctrl.Phase() != session.PhaseActive {
		t.Fatalf("phase = %v, want active", ctrl.Phase())
	}
	if !strings.Contains(s.View(100, 30), "Question 1 / 12") {
		t.Error("expected the question counter")
	}

	_, cmd := s.Update(key('4'))
	if cmd == nil {
		t.Fatal("picking an option should schedule the reveal timer")
	}
	snap := ctrl.Snapshot()
	if snap.Phase != session.PhaseReveal || !snap.Reveal.Correct {
		t.Fatalf("expected a correct reveal, got %+v", snap)
	}
	if s.Status() != "Score 1" {
		t.Errorf("Status() = %q", s.Status())
	}

	// Further keys during the reveal do nothing.
	s.Update(key('1'))
	if got := ctrl.Snapshot().Score; got != 1 {
		t.Errorf("score changed during reveal: %d", got)
	}

	s.Update(revealDoneMsg{Token: snap.Reveal.Token + 100})
	if ctrl.Phase() != session.PhaseReveal {
		t.Error("a stale reveal token should be ignored")
	}
	s.Update(revealDoneMsg{Token: snap.Reveal.Token})
	snap = ctrl.Snapshot()
	if snap.Phase != session.PhaseActive || snap.Index != 1 {
		t.Fatalf("expected question 2, got phase %v index %d", snap.Phase, snap.Index)
	}
	if s.mc.Chosen != -1 {
		t.Error("the option list should reset for the next question")
	}
}

func TestTrueFalseRequiresAllMarks(t *testing.T) {
	s, ctrl := newTestScreen(&fakeGenerator{byLevel: fixtures()})
	drain(t, s, startLevel(t, s, "Hàm số", '2'))

	s.Update(key('t'))
	s.Update(key('f'))
	s.Update(enterKey)
	if ctrl.Phase() != session.PhaseActive {
		t.Fatal("submit with two marks should be rejected")
	}
	if !strings.Contains(s.notice, "Mark all four") {
		t.Errorf("notice = %q", s.notice)
	}

	s.Update(key('t'))
	s.Update(key('f'))
	if got := ctrl.Snapshot().Draft.Marks.Count(); got != 4 {
		t.Fatalf("draft has %d marks, want 4", got)
	}
	_, cmd := s.Update(enterKey)
	snap := ctrl.Snapshot()
	if snap.Phase != session.PhaseReveal || !snap.Reveal.Correct {
		t.Fatalf("expected a correct reveal, got %+v", snap.Reveal)
	}
	if cmd == nil {
		t.Error("true-false reveal should close on a timer")
	}
}

func TestRejectedDraftUpdatesAreLogged(t *testing.T) {
	s, ctrl, hook := newLoggedScreen(&fakeGenerator{byLevel: fixtures()})
	drain(t, s, startLevel(t, s, "Hàm số", '2'))
	hook.Reset()

	s.setMark(7, true)
	entry := hook.LastEntry()
	if entry == nil || entry.Message != "draft mark rejected" {
		t.Fatalf("last entry = %+v, want draft mark rejected", entry)
	}
	if entry.Level != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", entry.Level)
	}
	if !errors.Is(entry.Data[logrus.ErrorKey].(error), session.ErrWrongAnswerKind) {
		t.Errorf("error = %v", entry.Data[logrus.ErrorKey])
	}

	s.setText("not a true-false answer")
	if got := hook.LastEntry().Message; got != "draft text rejected" {
		t.Errorf("message = %q, want draft text rejected", got)
	}
	if ctrl.Snapshot().Draft.Text != "" {
		t.Error("rejected text must not reach the draft")
	}
}

type ctxRecorder struct {
	fakeGenerator
	log logrus.FieldLogger
}

func (g *ctxRecorder) Generate(ctx context.Context, topic string, level quizgen.Level) ([]quizgen.Question, error) {
	g.log = logging.FromContext(ctx, nil)
	return g.fakeGenerator.Generate(ctx, topic, level)
}

func TestFetchCarriesSessionLogger(t *testing.T) {
	gen := &ctxRecorder{fakeGenerator: fakeGenerator{byLevel: fixtures()}}
	s, ctrl := newTestScreen(gen)
	drain(t, s, startLevel(t, s, "Hàm số", '1'))

	entry, ok := gen.log.(*logrus.Entry)
	if !ok {
		t.Fatalf("generator logger = %T, want *logrus.Entry", gen.log)
	}
	if got := entry.Data["session_id"]; got != ctrl.Snapshot().SessionID {
		t.Errorf("session_id = %v, want %q", got, ctrl.Snapshot().SessionID)
	}
}

func TestShortAnswerManualReveal(t *testing.T) {
	s, ctrl := newTestScreen(&fakeGenerator{byLevel: fixtures()})
	drain(t, s, startLevel(t, s, "Xác suất", '3'))

	s.Update(enterKey)
	if ctrl.Phase() != session.PhaseActive || s.notice == "" {
		t.Fatal("blank short answer should be blocked with a notice")
	}

	for i := 0; i < 6; i++ {
		s.answer.SetValue(" 4 ")
		_, cmd := s.Update(enterKey)
		if cmd != nil {
			t.Fatalf("question %d: short-answer reveal should not schedule a timer", i+1)
		}
		snap := ctrl.Snapshot()
		if snap.Reveal == nil || !snap.Reveal.Manual || snap.Reveal.Answer != "4" {
			t.Fatalf("question %d: reveal = %+v", i+1, snap.Reveal)
		}
		if !strings.Contains(s.View(100, 40), "Add them.") {
			t.Errorf("question %d: explanation should be shown", i+1)
		}
		s.Update(enterKey)
	}

	snap := ctrl.Snapshot()
	if snap.Phase != session.PhaseSummary || snap.Result.Score != 6 {
		t.Fatalf("expected a 6/6 summary, got %+v", snap.Result)
	}
	if !strings.Contains(s.View(100, 30), "6 / 6") {
		t.Error("summary should show the score")
	}

	s.Update(enterKey)
	if ctrl.Phase() != session.PhaseIdle {
		t.Fatalf("enter on the summary should restart, phase = %v", ctrl.Phase())
	}
	if s.topic.Value() != "Xác suất" {
		t.Errorf("topic = %q, want it kept", s.topic.Value())
	}
}

func TestEscapeAsksBeforeLeaving(t *testing.T) {
	s, ctrl := newTestScreen(&fakeGenerator{byLevel: fixtures()})
	drain(t, s, startLevel(t, s, "Sóng cơ", '1'))

	s.Update(escKey)
	if !s.confirmHome {
		t.Fatal("esc should ask for confirmation")
	}
	s.Update(key('4'))
	if ctrl.Phase() != session.PhaseActive {
		t.Error("keys other than y/n are ignored while confirming")
	}
	s.Update(key('n'))
	if s.confirmHome || ctrl.Phase() != session.PhaseActive {
		t.Fatal("n should keep the quiz going")
	}

	s.Update(escKey)
	s.Update(key('y'))
	if ctrl.Phase() != session.PhaseIdle {
		t.Fatalf("y should leave the quiz, phase = %v", ctrl.Phase())
	}
	if s.topic.Value() != "Sóng cơ" {
		t.Errorf("topic = %q, want it kept", s.topic.Value())
	}
}

func TestLeavingDuringLoadDropsResult(t *testing.T) {
	s, ctrl := newTestScreen(&fakeGenerator{byLevel: fixtures()})
	cmd := startLevel(t, s, "Sóng cơ", '1')

	s.Update(escKey)
	s.Update(key('y'))
	if ctrl.Phase() != session.PhaseIdle {
		t.Fatalf("phase = %v, want idle", ctrl.Phase())
	}

	drain(t, s, cmd)
	if ctrl.Phase() != session.PhaseIdle {
		t.Error("a late quiz should be discarded")
	}
}

func TestGenerationFailureBanner(t *testing.T) {
	s, ctrl := newTestScreen(&fakeGenerator{err: errors.New("boom")})
	drain(t, s, startLevel(t, s, "Sóng cơ", '1'))

	if ctrl.Phase() != session.PhaseIdle {
		t.Fatalf("phase = %v, want idle", ctrl.Phase())
	}
	view := s.View(100, 30)
	if !strings.Contains(view, quizgen.UserMessage) {
		t.Error("failure banner should be shown")
	}
	if strings.Contains(view, "boom") {
		t.Error("raw error text should not be shown")
	}

	s.Update(escKey)
	if ctrl.Snapshot().Err != nil {
		t.Error("esc should dismiss the banner")
	}
}

func TestKeyHintsFollowPhase(t *testing.T) {
	s, _ := newTestScreen(&fakeGenerator{byLevel: fixtures()})
	if hints := s.KeyHints(); len(hints) == 0 || hints[0].Key != "Tab" {
		t.Errorf("idle hints = %+v", hints)
	}
	drain(t, s, startLevel(t, s, "Sóng cơ", '3'))
	hints := s.KeyHints()
	if len(hints) == 0 || hints[0].Key != "Enter" {
		t.Errorf("short-answer hints = %+v", hints)
	}
}
