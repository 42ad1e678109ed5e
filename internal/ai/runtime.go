package ai

import (
	"context"
	"fmt"
	"strings"
)

// Runtime is a minimal interface implemented by assistant backends: hosted
// APIs (Gemini, OpenRouter, Anthropic, OpenAI) and local runtimes (Ollama).
type Runtime interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// Provider identifiers used across the CLI for selection.
const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
)

// Providers lists the supported providers, default first.
func Providers() []string {
	return []string{ProviderGemini, ProviderOpenRouter, ProviderOllama, ProviderAnthropic, ProviderOpenAI}
}

// NormalizeProvider maps user input and common aliases to a provider identifier.
func NormalizeProvider(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gemini", "google":
		return ProviderGemini, nil
	case "openrouter":
		return ProviderOpenRouter, nil
	case "ollama", "local":
		return ProviderOllama, nil
	case "anthropic", "claude":
		return ProviderAnthropic, nil
	case "openai":
		return ProviderOpenAI, nil
	}
	return "", fmt.Errorf("unknown provider %q (use %s)", s, strings.Join(Providers(), ", "))
}
