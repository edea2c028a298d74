package llm

import (
	"context"
	"fmt"

	"github.com/lernzeit/quizgen/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and logging middleware.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	base, err := newBase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if _, isMock := base.(*MockProvider); isMock {
		return base, nil
	}

	// Wrap with middleware: caller → retry → logging → base
	logged := WithLogging(base, eventRepo, cfg.Provider)
	retried := WithRetry(logged, cfg.Retry)

	return retried, nil
}

// NewProviderFromEnv builds a Provider from QUIZGEN_* environment
// variables, probing standard API key variables when none of the
// QUIZGEN_ ones are set. eventRepo may be nil to skip event logging.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo) (Provider, error) {
	cfg := ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		discovered, ok := DiscoverConfig()
		if !ok {
			return nil, err
		}
		cfg = discovered
	}

	if eventRepo == nil {
		base, err := newBase(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return WithRetry(base, cfg.Retry), nil
	}

	return NewProvider(ctx, cfg, eventRepo)
}

func newBase(ctx context.Context, cfg Config) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return base, nil
}
