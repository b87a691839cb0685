package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/tkha2026/luyenthi/internal/quizgen"
	"github.com/tkha2026/luyenthi/internal/session"
	"github.com/tkha2026/luyenthi/internal/ui/components"
	"github.com/tkha2026/luyenthi/internal/ui/layout"
	"github.com/tkha2026/luyenthi/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	snap := s.ctrl.Snapshot()
	cw := layout.ContentWidth(width)

	var body string
	switch {
	case s.confirmHome:
		body = s.viewConfirm()
	case snap.Phase == session.PhaseIdle:
		body = s.viewIdle(snap, cw)
	case snap.Phase == session.PhaseLoading:
		body = s.viewLoading(snap)
	case snap.Phase == session.PhaseActive, snap.Phase == session.PhaseReveal:
		body = s.viewQuestion(snap, cw)
	case snap.Phase == session.PhaseSummary:
		body = s.viewSummary(snap)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (s *QuizScreen) viewIdle(snap session.Snapshot, cw int) string {
	var sections []string

	sections = append(sections, theme.Title.Width(cw).Render("What do you want to practice?"))
	sections = append(sections, theme.Subtitle.Width(cw).Render("Type a topic, then pick a level."))
	sections = append(sections, "")

	if msg := snap.ErrorMessage(); msg != "" {
		sections = append(sections, theme.Banner.Width(cw).Render(msg), "")
	}

	label := theme.Body.Bold(true).Render("Topic")
	if !s.levelsActive {
		label = theme.Selected.Render("Topic")
	}
	sections = append(sections, label)
	sections = append(sections, theme.Card.Width(cw).Render(s.topic.View()))
	sections = append(sections, "")

	levelLabel := theme.Body.Bold(true).Render("Level")
	if s.levelsActive {
		levelLabel = theme.Selected.Render("Level")
	}
	sections = append(sections, levelLabel)
	sections = append(sections, s.levels.View())

	if s.notice != "" {
		sections = append(sections, theme.Hint.Render(s.notice))
	}

	return strings.Join(sections, "\n")
}

func (s *QuizScreen) viewLoading(snap session.Snapshot) string {
	spin := lipgloss.NewStyle().Foreground(theme.Primary).Render(spinnerFrames[s.spinner])
	lines := []string{
		spin + "  " + theme.Body.Render("Writing your quiz..."),
		"",
		theme.Hint.Render(fmt.Sprintf("%s · %s", snap.Topic, snap.Level.Title())),
	}
	return strings.Join(lines, "\n")
}

func (s *QuizScreen) viewQuestion(snap session.Snapshot, cw int) string {
	q := snap.Question
	if q == nil {
		return ""
	}

	var sections []string
	sections = append(sections, components.NewQuestionProgress(snap.Index, snap.Count, cw).View())
	sections = append(sections, "")
	sections = append(sections, theme.LevelStyle(snap.Level).Bold(true).Render(typeLabel(q.Type)))
	sections = append(sections, theme.Body.Width(cw).Render(q.Content))
	sections = append(sections, "")

	switch q.Type {
	case quizgen.TypeMultipleChoice:
		sections = append(sections, s.mc.View(cw))
	case quizgen.TypeTrueFalse:
		sections = append(sections, s.tf.View(cw))
	case quizgen.TypeShortAnswer:
		sections = append(sections, theme.Card.Width(cw).Render(s.answer.View()))
	}

	if s.notice != "" {
		sections = append(sections, theme.Hint.Render(s.notice))
	}
	if snap.Reveal != nil {
		sections = append(sections, "", viewReveal(*snap.Reveal, cw))
	}

	return strings.Join(sections, "\n")
}

func viewReveal(r session.Reveal, cw int) string {
	style := theme.Incorrect
	if r.Correct {
		style = theme.Correct
	}
	lines := []string{style.Render(r.Feedback)}
	if r.Manual {
		lines = append(lines, theme.Body.Render("Result: ")+theme.Selected.Render(r.Answer))
		explanation := r.Explanation
		if explanation == "" {
			explanation = "No explanation was provided for this question."
		}
		lines = append(lines, theme.Body.Width(cw).Render(explanation))
		lines = append(lines, "", components.NewButton("Continue", true).View())
	}
	return strings.Join(lines, "\n")
}

func (s *QuizScreen) viewSummary(snap session.Snapshot) string {
	if snap.Result == nil {
		return ""
	}
	r := snap.Result

	scoreStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	if r.Perfect() {
		scoreStyle = theme.Correct
	}

	lines := []string{
		theme.Title.Render("Quiz complete"),
		theme.Subtitle.Render(fmt.Sprintf("%s · %s", snap.Topic, snap.Level.Title())),
		"",
		scoreStyle.Render(fmt.Sprintf("%d / %d", r.Score, r.Total)),
		"",
		theme.Body.Render(r.Message),
		"",
		components.NewButton("Try another topic", true).View(),
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (s *QuizScreen) viewConfirm() string {
	lines := []string{
		theme.Title.Render("Leave this quiz?"),
		theme.Subtitle.Render("Your progress will be lost."),
		"",
		theme.Body.Render("[Y] Yes, discard quiz"),
		theme.Body.Render("[N] No, keep going"),
	}
	return theme.Card.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func typeLabel(t quizgen.QuestionType) string {
	switch t {
	case quizgen.TypeMultipleChoice:
		return "Multiple choice"
	case quizgen.TypeTrueFalse:
		return "True or false: mark every statement"
	case quizgen.TypeShortAnswer:
		return "Short answer"
	}
	return string(t)
}
