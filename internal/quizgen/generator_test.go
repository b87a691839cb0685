package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tkha2026/luyenthi/internal/llm"
	"github.com/tkha2026/luyenthi/internal/logging"
	"github.com/tkha2026/luyenthi/internal/store"
)

func newTestGenerator(mock *llm.MockProvider, cfg Config) *LLMGenerator {
	logger, _ := test.NewNullLogger()
	return New(mock, cfg, logger)
}

func TestGenerate_EachLevel(t *testing.T) {
	for _, level := range Levels() {
		t.Run(string(level), func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Content: quizJSON(t, sampleQuiz(level))})
			gen := newTestGenerator(mock, DefaultConfig())

			qs, err := gen.Generate(context.Background(), "Hàm số", level)
			require.NoError(t, err)
			assert.Len(t, qs, level.QuestionCount())
			for _, q := range qs {
				assert.Equal(t, level.QuestionType(), q.Type)
				if q.Type == TypeTrueFalse {
					assert.Len(t, q.SubItems, SubItemCount)
				}
			}
			assert.Equal(t, 1, mock.CallCount(), "exactly one backend call")
		})
	}
}

func TestGenerate_RequestShape(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: quizJSON(t, sampleQuiz(LevelChallenge))})
	cfg := DefaultConfig()
	gen := newTestGenerator(mock, cfg)

	_, err := gen.Generate(context.Background(), "  Dao động điều hòa  ", LevelChallenge)
	require.NoError(t, err)

	req := mock.Calls[0]
	assert.Equal(t, systemPrompt, req.System)
	assert.Equal(t, ChallengeSchema, req.Schema)
	assert.Equal(t, 20000, req.MaxTokens)
	assert.InDelta(t, 0.7, req.Temperature, 1e-9)
	require.Len(t, req.Messages, 1)
	msg := req.Messages[0].Content
	assert.Contains(t, msg, "topic: Dao động điều hòa.")
	assert.Contains(t, msg, "exactly 4 true/false questions")
	assert.Contains(t, msg, "GDPT 2018")
}

func TestGenerate_TagsPurpose(t *testing.T) {
	repo := &purposeRecorder{}
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: quizJSON(t, sampleQuiz(LevelFinal))},
		llm.MockResponse{Content: quizJSON(t, sampleQuiz(LevelFinal))},
	)
	logged := llm.WithLogging(mock, repo, nil)
	gen := New(logged, DefaultConfig(), nil)

	_, err := gen.Generate(context.Background(), "Tích phân", LevelFinal)
	require.NoError(t, err)
	_, err = gen.Generate(llm.WithPurpose(context.Background(), PurposePreview), "Tích phân", LevelFinal)
	require.NoError(t, err)

	assert.Equal(t, []string{PurposeQuiz, PurposePreview}, repo.purposes)
	assert.Equal(t, []string{"FINAL", "FINAL"}, repo.levels)
}

func TestGenerate_FailureKinds(t *testing.T) {
	valid := sampleQuiz(LevelEasy)
	tooFew := valid[:11]

	dup := sampleQuiz(LevelEasy)
	dup[3].ID = "q1"

	tests := []struct {
		name string
		resp llm.MockResponse
		want error
	}{
		{"provider empty", llm.MockResponse{Err: &llm.ErrEmptyResponse{Model: "mock"}}, ErrEmptyResponse},
		{"blank content", llm.MockResponse{Content: json.RawMessage("  ")}, ErrEmptyResponse},
		{"schema mismatch", llm.MockResponse{Err: &llm.ErrInvalidResponse{Err: errors.New("x")}}, ErrParseFailure},
		{"truncated", llm.MockResponse{Err: &llm.ErrMaxTokensExceeded{}}, ErrParseFailure},
		{"not JSON", llm.MockResponse{Content: json.RawMessage("Sure! Here is your quiz")}, ErrParseFailure},
		{"no questions field", llm.MockResponse{Content: json.RawMessage(`{"quiz":[]}`)}, ErrParseFailure},
		{"wrong count", llm.MockResponse{Content: quizJSON(t, tooFew)}, ErrParseFailure},
		{"duplicate ids", llm.MockResponse{Content: quizJSON(t, dup)}, ErrParseFailure},
		{"rate limited", llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}}, ErrTransportFailure},
		{"unavailable", llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("dial tcp")}}, ErrTransportFailure},
		{"context", llm.MockResponse{Err: context.DeadlineExceeded}, ErrTransportFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(tt.resp)
			gen := newTestGenerator(mock, DefaultConfig())

			qs, err := gen.Generate(context.Background(), "Logarit", LevelEasy)
			assert.Nil(t, qs)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsGenerationFailure(err))
			assert.Equal(t, 1, mock.CallCount(), "no retries")
		})
	}
}

func TestGenerate_LenientModeSkipsShapeChecks(t *testing.T) {
	qs := sampleQuiz(LevelEasy)[:3]
	mock := llm.NewMockProvider(llm.MockResponse{Content: quizJSON(t, qs)})
	cfg := DefaultConfig()
	cfg.StrictValidation = false

	got, err := newTestGenerator(mock, cfg).Generate(context.Background(), "Logarit", LevelEasy)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestGenerate_AcceptsBareArray(t *testing.T) {
	b, err := json.Marshal(sampleQuiz(LevelFinal))
	require.NoError(t, err)
	mock := llm.NewMockProvider(llm.MockResponse{Content: b})

	qs, err := newTestGenerator(mock, DefaultConfig()).Generate(context.Background(), "Tích phân", LevelFinal)
	require.NoError(t, err)
	assert.Len(t, qs, 6)
}

func TestGenerate_UnknownLevel(t *testing.T) {
	mock := llm.NewMockProvider()
	_, err := newTestGenerator(mock, DefaultConfig()).Generate(context.Background(), "x", Level("HARD"))
	require.Error(t, err)
	assert.Equal(t, 0, mock.CallCount())
}

func TestGenerate_LogsFailure(t *testing.T) {
	logger, hook := test.NewNullLogger()
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})

	_, err := New(mock, DefaultConfig(), logger).Generate(context.Background(), "Sóng cơ", LevelFinal)
	require.Error(t, err)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "quiz generation failed", hook.LastEntry().Message)
	assert.Equal(t, "Sóng cơ", hook.LastEntry().Data["topic"])
}

func TestGenerate_LogsToContextLogger(t *testing.T) {
	base, baseHook := test.NewNullLogger()
	scoped, scopedHook := test.NewNullLogger()
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`   `)})

	ctx := logging.NewContext(context.Background(), scoped.WithField("session_id", "abc"))
	_, err := New(mock, DefaultConfig(), base).Generate(ctx, "Điện xoay chiều", LevelEasy)
	require.ErrorIs(t, err, ErrEmptyResponse)

	assert.Empty(t, baseHook.Entries)
	require.NotNil(t, scopedHook.LastEntry())
	assert.Equal(t, "quiz reply could not be decoded", scopedHook.LastEntry().Message)
	assert.Equal(t, "abc", scopedHook.LastEntry().Data["session_id"])
	assert.Equal(t, LevelEasy, scopedHook.LastEntry().Data["level"])
}

func TestParseReply(t *testing.T) {
	wrapped := quizJSON(t, sampleQuiz(LevelFinal))
	qs, err := ParseReply(wrapped)
	require.NoError(t, err)
	assert.Len(t, qs, LevelFinal.QuestionCount())

	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"blank", " \n", ErrEmptyResponse},
		{"not json", "questions: none", ErrParseFailure},
		{"missing field", `{"items":[]}`, ErrParseFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReply([]byte(tt.raw))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUserMessageIsSingleLine(t *testing.T) {
	assert.False(t, strings.Contains(UserMessage, "\n"))
}

type purposeRecorder struct {
	purposes []string
	levels   []string
}

func (r *purposeRecorder) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.purposes = append(r.purposes, data.Purpose)
	r.levels = append(r.levels, data.Level)
	return nil
}
