package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gymflow-be/pkg/llm"

	"github.com/avast/retry-go"
	"resty.dev/v3"
)

const DefaultBaseURL = "https://api.openai.com/v1"

// Client talks to any OpenAI-compatible /chat/completions endpoint.
type Client struct {
	httpClient       *resty.Client
	model            string
	maxRetryAttempts uint
}

var _ llm.LLMProvider = &Client{}

func NewClient(apiKey, baseURL, model string, retryAttempts uint) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Authorization", "Bearer "+apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(120 * time.Second)

	return &Client{
		httpClient:       client,
		model:            model,
		maxRetryAttempts: retryAttempts,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

func (client *Client) GetModel() string {
	return client.model
}

type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int         `json:"index"`
	Message      llm.Message `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// responseError carries the HTTP status so retry decisions don't parse strings.
type responseError struct {
	status int
	body   string
}

func (e *responseError) Error() string {
	return fmt.Sprintf("response error %d: %s", e.status, e.body)
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if re, ok := err.(*responseError); ok {
		return re.status == 429 || re.status >= 500
	}
	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "i/o timeout")
}

func (client *Client) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.ApplyOptions(llm.Options{Temperature: 0.7, Model: client.model}, opts...)
	body := ChatCompletionRequest{
		Model:       options.Model,
		Messages:    llm.LocalizeSystem(history, options.Locale),
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
	}

	var content string
	err := retry.Do(
		func() error {
			c, err := client.complete(ctx, body)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			content = c
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", err
	}
	return content, nil
}

func (client *Client) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return client.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func (client *Client) complete(ctx context.Context, body ChatCompletionRequest) (string, error) {
	var out ChatCompletionResponse
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return "", &responseError{status: response.StatusCode(), body: response.String()}
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("empty choices: %w", llm.ErrEmptyCompletion)
	}

	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", llm.ErrEmptyCompletion
	}
	return content, nil
}
