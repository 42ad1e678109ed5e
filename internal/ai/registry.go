package ai

import (
	"context"
	"fmt"
	"time"
)

// RuntimeFactory builds a Runtime from the generic config below.
type RuntimeFactory func(context.Context, RuntimeConfig) (Runtime, error)

// RuntimeConfig carries common knobs used by runtimes.
type RuntimeConfig struct {
	// Common
	HTTPTimeout time.Duration
	RetryMax    int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// Hosted providers
	APIKey  string
	BaseURL string
	// Ollama
	Host string
}

var registry = map[string]RuntimeFactory{}

// RegisterRuntime registers a provider name with its factory.
func RegisterRuntime(name string, f RuntimeFactory) { registry[name] = f }

// NewRuntime creates a Runtime for the given provider name or alias.
func NewRuntime(ctx context.Context, name string, cfg RuntimeConfig) (Runtime, error) {
	provider, err := NormalizeProvider(name)
	if err != nil {
		return nil, err
	}
	f, ok := registry[provider]
	if !ok {
		return nil, fmt.Errorf("provider %q is not registered", provider)
	}
	return f(ctx, cfg)
}

func (c RuntimeConfig) withDefaults(timeout time.Duration, retries int, base, max time.Duration) RuntimeConfig {
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = timeout
	}
	if c.RetryMax <= 0 {
		c.RetryMax = retries
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = base
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = max
	}
	return c
}

// init registers built-in runtimes.
func init() {
	RegisterRuntime(ProviderOpenRouter, func(_ context.Context, c RuntimeConfig) (Runtime, error) {
		c = c.withDefaults(60*time.Second, 3, 500*time.Millisecond, 4*time.Second)
		return NewOpenRouterClient(c), nil
	})
	RegisterRuntime(ProviderOllama, func(_ context.Context, c RuntimeConfig) (Runtime, error) {
		c = c.withDefaults(60*time.Second, 2, 200*time.Millisecond, time.Second)
		return NewOllamaClient(c), nil
	})
	RegisterRuntime(ProviderGemini, func(ctx context.Context, c RuntimeConfig) (Runtime, error) {
		return NewGeminiRuntime(ctx, c.withDefaults(60*time.Second, 3, 500*time.Millisecond, 4*time.Second))
	})
	RegisterRuntime(ProviderAnthropic, func(_ context.Context, c RuntimeConfig) (Runtime, error) {
		return NewAnthropicRuntime(c.withDefaults(60*time.Second, 3, 500*time.Millisecond, 4*time.Second))
	})
	RegisterRuntime(ProviderOpenAI, func(_ context.Context, c RuntimeConfig) (Runtime, error) {
		return NewOpenAIRuntime(c.withDefaults(60*time.Second, 3, 500*time.Millisecond, 4*time.Second))
	})
}
