package ai

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeProvider(t *testing.T) {
	cases := map[string]string{
		"":           ProviderGemini,
		"Google":     ProviderGemini,
		"local":      ProviderOllama,
		"claude":     ProviderAnthropic,
		" openai ":   ProviderOpenAI,
		"openrouter": ProviderOpenRouter,
	}
	for in, want := range cases {
		got, err := NormalizeProvider(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := NormalizeProvider("watson")
	assert.ErrorContains(t, err, "unknown provider")
}

func TestNewRuntime(t *testing.T) {
	rt, err := NewRuntime(context.Background(), "local", RuntimeConfig{})
	require.NoError(t, err)
	oc, ok := rt.(*OllamaClient)
	require.True(t, ok)
	assert.Equal(t, defaultOllamaHost, oc.host)
	assert.Equal(t, 2, oc.retryMaxAttempts)

	rt, err = NewRuntime(context.Background(), ProviderOpenRouter, RuntimeConfig{APIKey: "k"})
	require.NoError(t, err)
	orc, ok := rt.(*OpenRouterClient)
	require.True(t, ok)
	assert.Equal(t, openRouterURL, orc.baseURL)
	assert.Equal(t, 3, orc.retryMaxAttempts)

	_, err = NewRuntime(context.Background(), ProviderGemini, RuntimeConfig{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestModelsCatalog(t *testing.T) {
	for _, p := range Providers() {
		def := DefaultModel(p)
		mi, ok := LookupModel(def)
		require.True(t, ok, "default model for %s should be in the catalog", p)
		assert.Equal(t, p, mi.Provider)
	}

	gem := Models(ProviderGemini)
	require.NotEmpty(t, gem)
	for _, mi := range gem {
		assert.Equal(t, ProviderGemini, mi.Provider)
	}
	all := Models("")
	assert.Greater(t, len(all), len(gem))
	assert.Equal(t, ProviderAnthropic, all[0].Provider)
}

func TestMergeCatalogFromJSON(t *testing.T) {
	path := t.TempDir() + "/models.json"
	require.NoError(t, os.WriteFile(path, []byte(`{"gpt-4.1-mini":{"Provider":"openai","ContextTokens":1000000}}`), 0o644))
	m, err := LoadCatalogFromJSON(path)
	require.NoError(t, err)
	MergeCatalog(m)
	mi, ok := LookupModel("gpt-4.1-mini")
	require.True(t, ok)
	assert.Equal(t, "gpt-4.1-mini", mi.Name)
	assert.Equal(t, 1000000, mi.ContextTokens)
}
