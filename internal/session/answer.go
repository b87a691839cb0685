package session

import (
	"strings"

	"github.com/tkha2026/luyenthi/internal/quizgen"
)

// Answer is a submission for the current question. Its concrete type must
// match the question type: Choice, Marks or Text.
type Answer interface {
	questionType() quizgen.QuestionType
}

// Choice is the text of the option picked on a multiple-choice question.
type Choice string

// Text is the learner's input for a short-answer question.
type Text string

func (Choice) questionType() quizgen.QuestionType { return quizgen.TypeMultipleChoice }
func (Marks) questionType() quizgen.QuestionType  { return quizgen.TypeTrueFalse }
func (Text) questionType() quizgen.QuestionType   { return quizgen.TypeShortAnswer }

// Evaluate reports whether a answers q. It returns ErrWrongAnswerKind when
// the answer type does not fit the question and ErrIncompleteSelection for
// a true-false answer with unmarked statements. It never mutates q.
func Evaluate(q *quizgen.Question, a Answer) (bool, error) {
	if a == nil || a.questionType() != q.Type {
		return false, ErrWrongAnswerKind
	}

	switch v := a.(type) {
	case Choice:
		return string(v) == q.Answer, nil

	case Marks:
		if !v.Complete() {
			return false, ErrIncompleteSelection
		}
		if len(q.SubItems) != len(v) {
			return false, nil
		}
		for i, item := range q.SubItems {
			if v[i] != MarkOf(item.Answer) {
				return false, nil
			}
		}
		return true, nil

	case Text:
		return normalize(string(v)) == normalize(q.Answer), nil
	}
	return false, ErrWrongAnswerKind
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
