package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/tkha2026/luyenthi/internal/store"
)

// ErrNoProviderConfigured is returned by NewProviderFromEnv when neither the
// LUYENTHI_* variables nor any vendor API key is set.
var ErrNoProviderConfigured = errors.New("no LLM provider configured: set GEMINI_API_KEY or LUYENTHI_LLM_PROVIDER")

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with timeout and logging middleware.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log logrus.FieldLogger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → timeout → logging → base
	logged := WithLogging(base, eventRepo, log)
	return WithTimeout(logged, cfg.Timeout), nil
}

// NewProviderFromEnv resolves configuration from LUYENTHI_* variables when a
// provider key is present there, otherwise from the vendors' standard key
// variables, and builds the provider.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo, log logrus.FieldLogger) (Provider, error) {
	cfg := ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		if os.Getenv("LUYENTHI_LLM_PROVIDER") != "" {
			return nil, err
		}
		discovered, ok := DiscoverConfig()
		if !ok {
			return nil, ErrNoProviderConfigured
		}
		cfg = mergeDiscovered(cfg, discovered)
	}
	return NewProvider(ctx, cfg, eventRepo, log)
}

// mergeDiscovered takes the provider and key from d and keeps every other
// setting (models, base URLs, timeout) from cfg.
func mergeDiscovered(cfg, d Config) Config {
	cfg.Provider = d.Provider
	switch d.Provider {
	case "gemini":
		cfg.Gemini.APIKey = d.Gemini.APIKey
	case "openai":
		cfg.OpenAI.APIKey = d.OpenAI.APIKey
	case "anthropic":
		cfg.Anthropic.APIKey = d.Anthropic.APIKey
	case "openrouter":
		cfg.OpenRouter.APIKey = d.OpenRouter.APIKey
	}
	return cfg
}
