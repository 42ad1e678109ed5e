package ai

import (
	"encoding/json"
	"os"
	"sort"
)

// Model metadata for the models command and prompt budgeting.

type ModelInfo struct {
	Name          string
	Provider      string
	ContextTokens int // approximate context window
}

var models = map[string]ModelInfo{
	// Gemini API
	"gemini-2.5-flash":      {Name: "gemini-2.5-flash", Provider: ProviderGemini, ContextTokens: 1048576},
	"gemini-2.5-pro":        {Name: "gemini-2.5-pro", Provider: ProviderGemini, ContextTokens: 1048576},
	"gemini-2.0-flash":      {Name: "gemini-2.0-flash", Provider: ProviderGemini, ContextTokens: 1048576},
	"gemini-2.0-flash-lite": {Name: "gemini-2.0-flash-lite", Provider: ProviderGemini, ContextTokens: 1048576},
	// OpenRouter
	"deepseek/deepseek-r1:free":        {Name: "deepseek/deepseek-r1:free", Provider: ProviderOpenRouter, ContextTokens: 128000},
	"openai/gpt-4o-mini":               {Name: "openai/gpt-4o-mini", Provider: ProviderOpenRouter, ContextTokens: 128000},
	"anthropic/claude-3.5-sonnet":      {Name: "anthropic/claude-3.5-sonnet", Provider: ProviderOpenRouter, ContextTokens: 200000},
	"google/gemini-2.5-flash":          {Name: "google/gemini-2.5-flash", Provider: ProviderOpenRouter, ContextTokens: 1048576},
	"meta-llama/llama-3.1-8b-instruct": {Name: "meta-llama/llama-3.1-8b-instruct", Provider: ProviderOpenRouter, ContextTokens: 131072},
	// Anthropic
	"claude-sonnet-4-20250514":  {Name: "claude-sonnet-4-20250514", Provider: ProviderAnthropic, ContextTokens: 200000},
	"claude-haiku-4-5-20251001": {Name: "claude-haiku-4-5-20251001", Provider: ProviderAnthropic, ContextTokens: 200000},
	// OpenAI
	"gpt-4o-mini": {Name: "gpt-4o-mini", Provider: ProviderOpenAI, ContextTokens: 128000},
	"gpt-4o":      {Name: "gpt-4o", Provider: ProviderOpenAI, ContextTokens: 128000},
	// Common local (Ollama) tags
	"llama3.1:8b-instruct":  {Name: "llama3.1:8b-instruct", Provider: ProviderOllama, ContextTokens: 8192},
	"mistral:7b-instruct":   {Name: "mistral:7b-instruct", Provider: ProviderOllama, ContextTokens: 8192},
	"phi3:mini-4k-instruct": {Name: "phi3:mini-4k-instruct", Provider: ProviderOllama, ContextTokens: 4096},
}

var defaultModels = map[string]string{
	ProviderGemini:     "gemini-2.5-flash",
	ProviderOpenRouter: "openai/gpt-4o-mini",
	ProviderOllama:     "llama3.1:8b-instruct",
	ProviderAnthropic:  "claude-haiku-4-5-20251001",
	ProviderOpenAI:     "gpt-4o-mini",
}

// DefaultModel returns the model used when none is configured for a provider.
func DefaultModel(provider string) string {
	return defaultModels[provider]
}

// LookupModel returns ModelInfo and ok flag.
func LookupModel(name string) (ModelInfo, bool) {
	mi, ok := models[name]
	return mi, ok
}

// Models lists known models for a provider, or every model when provider is empty,
// sorted by provider then name.
func Models(provider string) []ModelInfo {
	var out []ModelInfo
	for _, mi := range models {
		if provider == "" || mi.Provider == provider {
			out = append(out, mi)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// LoadCatalogFromJSON loads a JSON object map[string]ModelInfo from a file path.
// Example entry:
// { "gpt-4.1-mini": {"Name":"gpt-4.1-mini","Provider":"openai","ContextTokens":1000000} }
func LoadCatalogFromJSON(path string) (map[string]ModelInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var m map[string]ModelInfo
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

// MergeCatalog merges/overrides entries in the in-memory catalog.
func MergeCatalog(m map[string]ModelInfo) {
	for k, v := range m {
		if v.Name == "" {
			v.Name = k
		}
		models[k] = v
	}
}
