package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// compatVendor describes one service speaking the OpenAI chat completions
// API.
type compatVendor struct {
	name    string
	baseURL string // empty keeps the SDK default
	models  map[string]string
	// strict asks the service to enforce the response schema.
	strict bool
}

var (
	openaiVendor = compatVendor{
		name: "openai",
		models: map[string]string{
			"gpt-4o":      "gpt-4o",
			"gpt-4o-mini": "gpt-4o-mini",
			"gpt-4.1":     "gpt-4.1",
		},
		strict: true,
	}
	openRouterVendor = compatVendor{
		name:    "openrouter",
		baseURL: "https://openrouter.ai/api/v1",
	}
)

// OpenAIProvider implements Provider for OpenAI and OpenAI-compatible
// services such as OpenRouter.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	vendor compatVendor
}

// NewOpenAIProvider creates a provider for the OpenAI API. BaseURL points it
// at a compatible gateway.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	return newCompatProvider(openaiVendor, cfg.APIKey, cfg.Model, cfg.BaseURL)
}

// NewOpenRouterProvider creates a provider for OpenRouter. Model IDs are
// passed through unchanged ("google/gemini-2.5-pro").
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenAIProvider, error) {
	return newCompatProvider(openRouterVendor, cfg.APIKey, cfg.Model, cfg.BaseURL)
}

func newCompatProvider(v compatVendor, apiKey, model, baseURL string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s API key is required", v.name)
	}

	config := openai.DefaultConfig(apiKey)
	switch {
	case baseURL != "":
		config.BaseURL = baseURL
	case v.baseURL != "":
		config.BaseURL = v.baseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  resolveModel(model, v.models),
		vendor: v,
	}, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:               p.model,
		Messages:            buildOpenAIMessages(req),
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}

	if req.Schema != nil {
		schemaBytes, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("marshal schema: %w", err)
		}
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.Schema.Name,
				Schema: json.RawMessage(schemaBytes),
				Strict: p.vendor.strict,
			},
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrEmptyResponse{Model: p.model}
	}

	choice := resp.Choices[0]
	stop := mapOpenAIStopReason(choice.FinishReason)
	content := json.RawMessage(stripCodeFence([]byte(choice.Message.Content)))
	if err := checkContent(p.model, req.Schema, content, stop); err != nil {
		return nil, err
	}

	model := resp.Model
	if model == "" {
		model = p.model
	}
	return &Response{
		Content: content,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
		Model:      model,
		StopReason: stop,
	}, nil
}

func (p *OpenAIProvider) ModelID() string {
	return p.model
}

// stripCodeFence unwraps a reply the model put in a ```json block.
func stripCodeFence(b []byte) []byte {
	t := bytes.TrimSpace(b)
	if !bytes.HasPrefix(t, []byte("```")) || !bytes.HasSuffix(t, []byte("```")) || len(t) < 6 {
		return b
	}
	t = t[3 : len(t)-3]
	if nl := bytes.IndexByte(t, '\n'); nl >= 0 && !bytes.ContainsAny(t[:nl], "{[") {
		t = t[nl+1:]
	}
	return bytes.TrimSpace(t)
}

func buildOpenAIMessages(req Request) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return messages
}

func mapOpenAIStopReason(reason openai.FinishReason) string {
	if reason == openai.FinishReasonLength {
		return "max_tokens"
	}
	return "end"
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return &ErrRateLimit{Err: err}
		case apiErr.HTTPStatusCode >= 500:
			return &ErrProviderUnavailable{Err: err}
		}
	}
	return &ErrProviderUnavailable{Err: err}
}
