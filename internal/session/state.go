package session

import (
	"github.com/tkha2026/luyenthi/internal/quizgen"
)

// Phase represents the current phase of the session.
type Phase int

const (
	PhaseIdle    Phase = iota // Entering a topic and picking a level
	PhaseLoading              // Waiting for the generated quiz
	PhaseActive               // Question N is being answered
	PhaseReveal               // Showing feedback for the answered question
	PhaseSummary              // All questions answered
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseActive:
		return "active"
	case PhaseReveal:
		return "reveal"
	case PhaseSummary:
		return "summary"
	}
	return "unknown"
}

// Mark is the learner's verdict on one true-false statement.
type Mark uint8

const (
	MarkUnset Mark = iota
	MarkTrue
	MarkFalse
)

// MarkOf converts a boolean choice to a Mark.
func MarkOf(v bool) Mark {
	if v {
		return MarkTrue
	}
	return MarkFalse
}

// Marks holds one Mark per statement of a true-false question.
type Marks [quizgen.SubItemCount]Mark

// Complete reports whether every statement has been marked.
func (m Marks) Complete() bool {
	return m.Count() == len(m)
}

// Count returns how many statements have been marked.
func (m Marks) Count() int {
	n := 0
	for _, v := range m {
		if v != MarkUnset {
			n++
		}
	}
	return n
}

// Draft is the transient answer state of the current question. It is
// cleared on every question transition.
type Draft struct {
	Marks Marks
	Text  string
}

// Reveal is the feedback for the question just answered.
type Reveal struct {
	// Token identifies this reveal window. Advance only acts on the
	// token of the current window.
	Token Token

	Index    int
	Correct  bool
	Feedback string

	// Answer and Explanation are filled for short-answer questions, which
	// always show the expected answer.
	Answer      string
	Explanation string

	// Manual is true for short-answer reveals. The window stays open until
	// the learner calls Continue, which advances at once with no reveal
	// delay. Otherwise the window closes with Advance after the delay.
	Manual bool
}

// State is the session record owned by the Controller.
type State struct {
	// SessionID is the UUID for this quiz attempt.
	SessionID string

	Topic string
	Level quizgen.Level

	// Questions is fixed once loaded.
	Questions []quizgen.Question

	// Index is the 0-based position of the current question.
	Index int

	// Score counts correctly answered questions.
	Score int

	Draft Draft
}

// Current returns the question being answered, or nil past the end.
func (s *State) Current() *quizgen.Question {
	if s.Index < 0 || s.Index >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.Index]
}

// IsLast reports whether the current question is the final one.
func (s *State) IsLast() bool {
	return s.Index == len(s.Questions)-1
}

// Result is the summary of a finished quiz.
type Result struct {
	Score   int
	Total   int
	Message string
}

// Perfect reports whether every question was answered correctly.
func (r Result) Perfect() bool {
	return r.Total > 0 && r.Score == r.Total
}

// Snapshot is a read-only view of the controller for rendering.
type Snapshot struct {
	Phase     Phase
	SessionID string
	Topic     string
	Level     quizgen.Level

	// Question is nil outside Active and Reveal.
	Question *quizgen.Question
	Index    int
	Count    int
	Score    int
	Draft    Draft

	// Reveal is set only during PhaseReveal.
	Reveal *Reveal

	// Result is set only during PhaseSummary.
	Result *Result

	// Err is the last generation failure, kept until dismissed.
	Err error
}

// ErrorMessage is the single line shown for Err, or "" when there is none.
func (s Snapshot) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return quizgen.UserMessage
}
