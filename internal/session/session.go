// Package session runs one quiz at a time: it asks the generator for the
// questions, scores each submission and reports the final result.
//
// A Controller is driven from a single goroutine. The only blocking step,
// Fetch, touches no session state and may run elsewhere; its result is
// applied with CompleteLoad, which drops results for a session that has
// since been discarded.
package session

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tkha2026/luyenthi/internal/quizgen"
)

// Token identifies one load or one reveal window. Tokens are never reused.
type Token uint64

// LoadRequest is the pending generation started by StartQuiz.
type LoadRequest struct {
	Ticket Token
	Topic  string
	Level  quizgen.Level
}

// LoadResult is the outcome of Fetch.
type LoadResult struct {
	Ticket    Token
	Questions []quizgen.Question
	Err       error
}

// Controller owns the quiz session state machine.
type Controller struct {
	gen quizgen.Generator
	cfg Config
	log logrus.FieldLogger

	phase  Phase
	state  State
	reveal *Reveal
	err    error

	seq    Token
	ticket Token
}

// NewController creates an idle Controller.
func NewController(gen quizgen.Generator, cfg Config, log logrus.FieldLogger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if cfg.NewID == nil {
		cfg.NewID = func() string { return uuid.New().String() }
	}
	return &Controller{gen: gen, cfg: cfg, log: log}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase { return c.phase }

// RevealDelay is the auto-advance pause for the current configuration.
func (c *Controller) RevealDelay() time.Duration { return c.cfg.RevealDelay }

func (c *Controller) next() Token {
	c.seq++
	return c.seq
}

func (c *Controller) logger() logrus.FieldLogger {
	return c.log.WithFields(logrus.Fields{
		"session_id": c.state.SessionID,
		"phase":      c.phase.String(),
	})
}

// StartQuiz begins a new quiz for topic and level. It is accepted in Idle
// and Summary; the prior error, score and questions are cleared. The
// returned request must be passed to Fetch.
func (c *Controller) StartQuiz(topic string, level quizgen.Level) (LoadRequest, error) {
	if c.phase != PhaseIdle && c.phase != PhaseSummary {
		return LoadRequest{}, ErrBusy
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return LoadRequest{}, ErrEmptyTopic
	}
	if !level.Valid() {
		return LoadRequest{}, ErrUnknownLevel
	}

	c.err = nil
	c.reveal = nil
	c.state = State{
		SessionID: c.cfg.NewID(),
		Topic:     topic,
		Level:     level,
	}
	c.phase = PhaseLoading
	c.ticket = c.next()

	c.logger().WithFields(logrus.Fields{"topic": topic, "level": level}).Debug("quiz loading")
	return LoadRequest{Ticket: c.ticket, Topic: topic, Level: level}, nil
}

// Fetch calls the generator for req. It reads no mutable controller state
// and may run off the control goroutine.
func (c *Controller) Fetch(ctx context.Context, req LoadRequest) LoadResult {
	qs, err := c.gen.Generate(ctx, req.Topic, req.Level)
	return LoadResult{Ticket: req.Ticket, Questions: qs, Err: err}
}

// CompleteLoad applies a Fetch result. It returns false and changes nothing
// when the result belongs to a discarded session.
func (c *Controller) CompleteLoad(res LoadResult) bool {
	if c.phase != PhaseLoading || res.Ticket != c.ticket {
		c.log.WithField("ticket", res.Ticket).Debug("discarding stale quiz result")
		return false
	}
	c.ticket = 0

	if res.Err == nil && len(res.Questions) == 0 {
		res.Err = quizgen.ErrEmptyResponse
	}
	if res.Err != nil {
		c.logger().WithError(res.Err).Warn("quiz could not be loaded")
		c.err = res.Err
		c.state = State{Topic: c.state.Topic}
		c.phase = PhaseIdle
		return true
	}

	c.state.Questions = res.Questions
	c.state.Index = 0
	c.state.Score = 0
	c.state.Draft = Draft{}
	c.phase = PhaseActive
	c.logger().WithField("questions", len(res.Questions)).Debug("quiz started")
	return true
}

// SetMark records the learner's verdict on statement i of the current
// true-false question.
func (c *Controller) SetMark(i int, v bool) error {
	q, err := c.accepting(quizgen.TypeTrueFalse)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(q.SubItems) || i >= len(c.state.Draft.Marks) {
		return ErrWrongAnswerKind
	}
	c.state.Draft.Marks[i] = MarkOf(v)
	return nil
}

// SetText replaces the short-answer draft.
func (c *Controller) SetText(s string) error {
	if _, err := c.accepting(quizgen.TypeShortAnswer); err != nil {
		return err
	}
	c.state.Draft.Text = s
	return nil
}

// SubmitDraft submits the draft of the current true-false or short-answer
// question.
func (c *Controller) SubmitDraft() (*Reveal, error) {
	q := c.state.Current()
	if c.phase != PhaseActive || q == nil {
		return nil, ErrNotAccepting
	}
	switch q.Type {
	case quizgen.TypeTrueFalse:
		return c.Submit(c.state.Draft.Marks)
	case quizgen.TypeShortAnswer:
		return c.Submit(Text(c.state.Draft.Text))
	}
	return nil, ErrWrongAnswerKind
}

// Submit evaluates a for the current question, updates the score and
// opens the reveal window. A rejected submission changes nothing.
func (c *Controller) Submit(a Answer) (*Reveal, error) {
	q := c.state.Current()
	if c.phase != PhaseActive || q == nil {
		return nil, ErrNotAccepting
	}

	correct, err := Evaluate(q, a)
	if err != nil {
		return nil, err
	}
	if correct {
		c.state.Score++
	}

	pool := c.cfg.WrongPool
	if correct {
		pool = c.cfg.CorrectPool
	}
	r := &Reveal{
		Token:    c.next(),
		Index:    c.state.Index,
		Correct:  correct,
		Feedback: Pick(pool, c.cfg.Rand),
	}
	if q.Type == quizgen.TypeShortAnswer {
		r.Answer = q.Answer
		r.Explanation = q.Explanation
		r.Manual = true
	}
	c.reveal = r
	c.phase = PhaseReveal

	c.logger().WithFields(logrus.Fields{
		"question": q.ID,
		"correct":  correct,
		"score":    c.state.Score,
	}).Debug("answer evaluated")

	out := *r
	return &out, nil
}

// Advance closes the reveal window identified by token and moves to the
// next question or the summary. Stale tokens and manual windows are
// ignored.
func (c *Controller) Advance(token Token) bool {
	if c.phase != PhaseReveal || c.reveal == nil || c.reveal.Token != token || c.reveal.Manual {
		return false
	}
	c.step()
	return true
}

// Continue closes a manual reveal window and moves to the next question
// (or the summary) immediately. RevealDelay does not apply.
func (c *Controller) Continue() error {
	if c.phase != PhaseReveal || c.reveal == nil || !c.reveal.Manual {
		return ErrNotAccepting
	}
	c.step()
	return nil
}

func (c *Controller) step() {
	c.reveal = nil
	c.state.Draft = Draft{}
	if c.state.IsLast() {
		c.state.Index = len(c.state.Questions)
		c.phase = PhaseSummary
		c.logger().WithFields(logrus.Fields{
			"score": c.state.Score,
			"total": len(c.state.Questions),
		}).Info("quiz finished")
		return
	}
	c.state.Index++
	c.phase = PhaseActive
}

// GoHome discards the session from any phase. A load in flight and any
// pending reveal are invalidated. The topic is kept for the next quiz.
func (c *Controller) GoHome() {
	if c.phase == PhaseIdle {
		return
	}
	c.logger().Debug("session discarded")
	c.discard()
}

// Restart returns to Idle from Summary.
func (c *Controller) Restart() error {
	if c.phase != PhaseSummary {
		return ErrNotAccepting
	}
	c.discard()
	return nil
}

func (c *Controller) discard() {
	c.ticket = 0
	c.reveal = nil
	c.state = State{Topic: c.state.Topic}
	c.phase = PhaseIdle
}

// DismissError clears the retained generation failure.
func (c *Controller) DismissError() {
	c.err = nil
}

// Snapshot returns a copy of the state for rendering.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		Phase:     c.phase,
		SessionID: c.state.SessionID,
		Topic:     c.state.Topic,
		Level:     c.state.Level,
		Index:     c.state.Index,
		Count:     len(c.state.Questions),
		Score:     c.state.Score,
		Draft:     c.state.Draft,
		Err:       c.err,
	}
	switch c.phase {
	case PhaseActive, PhaseReveal:
		if q := c.state.Current(); q != nil {
			cp := *q
			s.Question = &cp
		}
		if c.reveal != nil {
			r := *c.reveal
			s.Reveal = &r
		}
	case PhaseSummary:
		s.Result = &Result{
			Score:   c.state.Score,
			Total:   len(c.state.Questions),
			Message: SummaryMessage(c.state.Score, len(c.state.Questions)),
		}
	}
	return s
}

func (c *Controller) accepting(t quizgen.QuestionType) (*quizgen.Question, error) {
	q := c.state.Current()
	if c.phase != PhaseActive || q == nil {
		return nil, ErrNotAccepting
	}
	if q.Type != t {
		return nil, ErrWrongAnswerKind
	}
	return q, nil
}
