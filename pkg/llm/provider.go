package llm

import (
	"context"
	"errors"
	"strings"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrEmptyCompletion is returned when a provider answers without any text.
var ErrEmptyCompletion = errors.New("llm returned an empty completion")

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
	Locale      string // Response language, e.g. "en", "es"
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithLocale(locale string) Option {
	return func(o *Options) {
		o.Locale = locale
	}
}

// ApplyOptions folds opts over the provider defaults.
func ApplyOptions(defaults Options, opts ...Option) *Options {
	o := defaults
	for _, opt := range opts {
		opt(&o)
	}
	return &o
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// SystemAndUser builds the two-message history every AI tool sends.
func SystemAndUser(system, user string) []Message {
	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}
}

var localeNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"pt": "Portuguese",
	"it": "Italian",
	"nl": "Dutch",
	"id": "Indonesian",
}

// LocalizeSystem appends a response-language instruction to the first system
// message, or prepends a system message when there is none. English and an
// empty locale leave the history untouched.
func LocalizeSystem(history []Message, locale string) []Message {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if base, _, ok := strings.Cut(locale, "-"); ok {
		locale = base
	}
	if locale == "" || locale == "en" {
		return history
	}
	name, ok := localeNames[locale]
	if !ok {
		name = locale
	}
	instruction := "Write your entire response in " + name + "."

	out := make([]Message, len(history))
	copy(out, history)
	for i := range out {
		if out[i].Role == RoleSystem {
			out[i].Content = strings.TrimRight(out[i].Content, "\n") + "\n\n" + instruction
			return out
		}
	}
	return append([]Message{{Role: RoleSystem, Content: instruction}}, out...)
}
