package session

import "errors"

var (
	// ErrEmptyTopic is returned by StartQuiz when the topic is blank.
	ErrEmptyTopic = errors.New("enter a topic first")

	// ErrUnknownLevel is returned by StartQuiz for a level outside the menu.
	ErrUnknownLevel = errors.New("unknown level")

	// ErrBusy is returned by StartQuiz outside Idle and Summary.
	ErrBusy = errors.New("a quiz is already in progress")

	// ErrIncompleteSelection is returned when a true-false question is
	// submitted before every statement is marked.
	ErrIncompleteSelection = errors.New("mark all four statements before submitting")

	// ErrNotAccepting is returned for input outside the phase that takes it.
	ErrNotAccepting = errors.New("not accepting answers right now")

	// ErrWrongAnswerKind is returned when the answer type does not match
	// the current question.
	ErrWrongAnswerKind = errors.New("answer does not fit this question type")
)
