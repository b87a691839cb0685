package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkha2026/luyenthi/internal/logging"
	"github.com/tkha2026/luyenthi/internal/store"
)

type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, &ErrProviderUnavailable{Err: ctx.Err()}
}

func (blockingProvider) ModelID() string { return "slow" }

func TestWithTimeout_CancelsSlowCall(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 20*time.Millisecond)

	start := time.Now()
	_, err := p.Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, "slow", p.ModelID())
}

func TestWithTimeout_ZeroIsPassThrough(t *testing.T) {
	mock := NewMockProvider()
	assert.Same(t, mock, WithTimeout(mock, 0))
}

type recordingRepo struct {
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestWithLogging_RecordsSuccess(t *testing.T) {
	logger, hook := test.NewNullLogger()
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"questions":[]}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 34},
	})

	p := WithLogging(mock, repo, logger)
	ctx := WithPurpose(context.Background(), "quiz-gen")
	_, err := p.Generate(ctx, Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "Chủ đề: Đạo hàm"}},
		Schema:   quizSchema(),
	})
	require.NoError(t, err)

	require.Len(t, repo.events, 1)
	ev := repo.events[0]
	assert.Equal(t, "quiz-gen", ev.Purpose)
	assert.True(t, ev.Success)
	assert.Equal(t, 12, ev.InputTokens)
	assert.Equal(t, 34, ev.OutputTokens)
	assert.Equal(t, `{"questions":[]}`, ev.ResponseBody)
	assert.Contains(t, ev.RequestBody, "[system]\nsys")
	assert.Contains(t, ev.RequestBody, "[schema: test-quiz]")

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "quiz-gen", hook.LastEntry().Data["purpose"])
}

func TestWithLogging_RecordsFailure(t *testing.T) {
	logger, hook := test.NewNullLogger()
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{Err: &ErrEmptyResponse{Model: "mock"}})

	_, err := WithLogging(mock, repo, logger).Generate(context.Background(), Request{})
	require.Error(t, err)

	require.Len(t, repo.events, 1)
	assert.False(t, repo.events[0].Success)
	assert.Equal(t, "empty LLM response from mock", repo.events[0].ErrorMessage)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestWithLogging_RepoFailureDoesNotFailRequest(t *testing.T) {
	logger, hook := test.NewNullLogger()
	repo := &recordingRepo{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})

	_, err := WithLogging(mock, repo, logger).Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "failed to record LLM request event", hook.LastEntry().Message)
}

func TestWithLogging_NilRepo(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	_, err := WithLogging(mock, nil, nil).Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

func TestWithLogging_RecordsLevel(t *testing.T) {
	logger, hook := test.NewNullLogger()
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})

	ctx := WithLevel(WithPurpose(context.Background(), "quiz-gen"), "CHALLENGE")
	_, err := WithLogging(mock, repo, logger).Generate(ctx, Request{})
	require.NoError(t, err)

	require.Len(t, repo.events, 1)
	assert.Equal(t, "CHALLENGE", repo.events[0].Level)
	assert.Equal(t, "CHALLENGE", hook.LastEntry().Data["level"])
}

func TestWithLogging_PrefersContextLogger(t *testing.T) {
	base, baseHook := test.NewNullLogger()
	scoped, scopedHook := test.NewNullLogger()
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})

	ctx := logging.NewContext(context.Background(), scoped.WithField("session_id", "s-1"))
	_, err := WithLogging(mock, nil, base).Generate(ctx, Request{})
	require.NoError(t, err)

	assert.Empty(t, baseHook.Entries)
	require.Len(t, scopedHook.Entries, 1)
	assert.Equal(t, "LLM request completed", scopedHook.LastEntry().Message)
	assert.Equal(t, "s-1", scopedHook.LastEntry().Data["session_id"])
}
