package factory

import (
	"context"
	"testing"

	"gymflow-be/pkg/llm/ollama"
	"gymflow-be/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	ctx := context.Background()

	p, err := NewLLMProvider(ctx, ProviderConfig{Provider: "ollama", Model: "llama3"})
	require.NoError(t, err)
	assert.IsType(t, &ollama.OllamaProvider{}, p)

	p, err = NewLLMProvider(ctx, ProviderConfig{Provider: "openai", Model: "gpt-4o-mini", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &openai.Client{}, p)

	p, err = NewLLMProvider(ctx, ProviderConfig{Provider: "huggingface", Model: "meta-llama/Llama-3.1-8B-Instruct", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &openai.Client{}, p)

	_, err = NewLLMProvider(ctx, ProviderConfig{Provider: "openai"})
	assert.Error(t, err)

	_, err = NewLLMProvider(ctx, ProviderConfig{Provider: "gemini"})
	assert.Error(t, err)

	_, err = NewLLMProvider(ctx, ProviderConfig{Provider: "bard"})
	assert.Error(t, err)
}
