// Package quizgen turns a (topic, level) pair into a validated set of exam
// questions with a single structured-output LLM request.
package quizgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tkha2026/luyenthi/internal/llm"
	"github.com/tkha2026/luyenthi/internal/logging"
)

// Purpose labels recorded with every generation request.
const (
	PurposeQuiz    = "quiz-gen"
	PurposePreview = "quiz-preview"
)

// Generator produces the questions for one quiz.
type Generator interface {
	// Generate makes exactly one backend call. The error, when non-nil,
	// wraps ErrEmptyResponse, ErrParseFailure or ErrTransportFailure.
	Generate(ctx context.Context, topic string, level Level) ([]Question, error)
}

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider  llm.Provider
	config    Config
	validator *Validator
	log       logrus.FieldLogger
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config, log logrus.FieldLogger) *LLMGenerator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LLMGenerator{
		provider:  provider,
		config:    cfg,
		validator: NewValidator(),
		log:       log,
	}
}

// quizOutput is the raw LLM response before validation.
type quizOutput struct {
	Questions []Question `json:"questions"`
}

// BuildRequest returns the request Generate would send for topic and level.
func (g *LLMGenerator) BuildRequest(topic string, level Level) llm.Request {
	return llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(strings.TrimSpace(topic), level, g.config)},
		},
		Schema:      SchemaFor(level),
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}
}

func (g *LLMGenerator) Generate(ctx context.Context, topic string, level Level) ([]Question, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("unknown level %q", level)
	}
	if !llm.HasPurpose(ctx) {
		ctx = llm.WithPurpose(ctx, PurposeQuiz)
	}
	ctx = llm.WithLevel(ctx, string(level))

	log := logging.FromContext(ctx, g.log).WithFields(logrus.Fields{"topic": topic, "level": level})

	resp, err := g.provider.Generate(ctx, g.BuildRequest(topic, level))
	if err != nil {
		err = classify(err)
		log.WithError(err).Warn("quiz generation failed")
		return nil, err
	}

	qs, err := ParseReply(resp.Content)
	if err != nil {
		log.WithError(err).Warn("quiz reply could not be decoded")
		return nil, err
	}

	if g.config.StrictValidation {
		if verr := g.validator.Validate(level, qs); verr != nil {
			log.WithError(verr).Warn("quiz reply failed shape checks")
			return nil, fmt.Errorf("%w: %w", ErrParseFailure, verr)
		}
	}

	log.WithField("questions", len(qs)).Debug("quiz generated")
	return qs, nil
}

// ParseReply decodes a generation reply. It accepts the wrapped
// {"questions": [...]} payload and also a bare array, which schema-less
// backends tend to return. Errors wrap ErrEmptyResponse or ErrParseFailure.
func ParseReply(raw []byte) ([]Question, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, ErrEmptyResponse
	}

	if trimmed[0] == '[' {
		var qs []Question
		if err := json.Unmarshal(trimmed, &qs); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
		}
		return qs, nil
	}

	var out quizOutput
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}
	if out.Questions == nil {
		return nil, fmt.Errorf("%w: reply has no questions field", ErrParseFailure)
	}
	return out.Questions, nil
}
