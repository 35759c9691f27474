package huggingface

import (
	"gymflow-be/pkg/llm/openai"
)

// DefaultBaseURL is the OpenAI-compatible Hugging Face inference router.
const DefaultBaseURL = "https://router.huggingface.co/v1"

// NewHuggingFaceProvider returns a chat client for the Hugging Face router,
// which speaks the OpenAI chat-completions protocol.
func NewHuggingFaceProvider(apiKey, baseURL, model string, retryAttempts uint) *openai.Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return openai.NewClient(apiKey, baseURL, model, retryAttempts)
}
