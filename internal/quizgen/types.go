package quizgen

import (
	"fmt"
	"strings"
)

// Level is the difficulty tier the learner picks. It fixes how many
// questions are generated and which question type they all share.
type Level string

const (
	LevelEasy      Level = "EASY"
	LevelChallenge Level = "CHALLENGE"
	LevelFinal     Level = "FINAL"
)

// Levels returns every level in menu order.
func Levels() []Level {
	return []Level{LevelEasy, LevelChallenge, LevelFinal}
}

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	if l.Valid() {
		return l, nil
	}
	return "", fmt.Errorf("unknown level %q (want EASY, CHALLENGE or FINAL)", s)
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	switch l {
	case LevelEasy, LevelChallenge, LevelFinal:
		return true
	}
	return false
}

// QuestionCount is the exact number of questions a quiz at this level has.
func (l Level) QuestionCount() int {
	switch l {
	case LevelEasy:
		return 12
	case LevelChallenge:
		return 4
	case LevelFinal:
		return 6
	}
	return 0
}

// QuestionType is the single question type used at this level.
func (l Level) QuestionType() QuestionType {
	switch l {
	case LevelEasy:
		return TypeMultipleChoice
	case LevelChallenge:
		return TypeTrueFalse
	case LevelFinal:
		return TypeShortAnswer
	}
	return ""
}

// Title is the short display name of the level.
func (l Level) Title() string {
	switch l {
	case LevelEasy:
		return "Siêu Dễ"
	case LevelChallenge:
		return "Thử Sức"
	case LevelFinal:
		return "Về Đích"
	}
	return string(l)
}

// Blurb is a one-line description of what the level contains.
func (l Level) Blurb() string {
	switch l {
	case LevelEasy:
		return "12 multiple-choice questions, recognition level"
	case LevelChallenge:
		return "4 true/false questions with 4 statements each"
	case LevelFinal:
		return "6 short-answer problems, high application"
	}
	return ""
}

// QuestionType identifies the answer mechanics of a question.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple-choice"
	TypeTrueFalse      QuestionType = "true-false"
	TypeShortAnswer    QuestionType = "short-answer"
)

const (
	// OptionCount is the number of options on a multiple-choice question.
	OptionCount = 4
	// SubItemCount is the number of statements on a true-false question.
	SubItemCount = 4
)

// SubItem is one statement of a true-false question. Its identity is its
// position in the parent's SubItems.
type SubItem struct {
	Text   string `json:"text" validate:"required"`
	Answer bool   `json:"answer"`
}

// Question is a single generated question. Which fields are meaningful
// depends on Type:
//
//	multiple-choice: Options (4 distinct) and Answer, equal to one option
//	true-false:      SubItems (exactly 4)
//	short-answer:    Answer, compared trimmed and case-folded
//
// Content and Explanation may embed LaTeX between $ delimiters.
type Question struct {
	ID          string       `json:"id" validate:"required"`
	Type        QuestionType `json:"type" validate:"required,oneof=multiple-choice true-false short-answer"`
	Content     string       `json:"content" validate:"required"`
	Options     []string     `json:"options,omitempty"`
	SubItems    []SubItem    `json:"subItems,omitempty"`
	Answer      string       `json:"answer,omitempty"`
	Explanation string       `json:"explanation,omitempty"`
}
