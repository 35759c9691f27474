package factory

import (
	"context"
	"fmt"

	"gymflow-be/pkg/llm"
	"gymflow-be/pkg/llm/gemini"
	"gymflow-be/pkg/llm/huggingface"
	"gymflow-be/pkg/llm/ollama"
	"gymflow-be/pkg/llm/openai"
)

type ProviderConfig struct {
	Provider      string // "ollama", "openai", "huggingface", "gemini"
	Model         string
	BaseURL       string
	APIKey        string
	RetryAttempts uint
}

func NewLLMProvider(ctx context.Context, cfg ProviderConfig) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model), nil
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return openai.NewClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.RetryAttempts), nil
	case "huggingface":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("huggingface provider requires an API key")
		}
		return huggingface.NewHuggingFaceProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.RetryAttempts), nil
	case "gemini":
		return gemini.NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
