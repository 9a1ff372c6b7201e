package translator

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// ChatAdapter implements Translator on top of an OpenAI-compatible chat
// completions API (OpenAI itself or Groq).
type ChatAdapter struct {
	name   string
	client *openai.Client
	model  string
}

// NewOpenAIAdapter creates a translator backed by OpenAI chat completions
func NewOpenAIAdapter(cfg Config) *ChatAdapter {
	return newChatAdapter("openai", cfg, "", "gpt-4o-mini")
}

// NewGroqAdapter creates a translator backed by Groq's OpenAI-compatible API
func NewGroqAdapter(cfg Config) *ChatAdapter {
	return newChatAdapter("groq", cfg, groqBaseURL, "llama-3.3-70b-versatile")
}

func newChatAdapter(name string, cfg Config, defaultBaseURL, defaultModel string) *ChatAdapter {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	switch {
	case cfg.BaseURL != "":
		clientConfig.BaseURL = cfg.BaseURL
	case defaultBaseURL != "":
		clientConfig.BaseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &ChatAdapter{
		name:   name,
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}
}

func (a *ChatAdapter) Name() string {
	return a.name
}

func (a *ChatAdapter) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: BuildSystemPrompt(sourceLang, targetLang)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0.2, // Low temperature keeps translations literal
	}

	start := time.Now()
	resp, err := a.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		log.Printf("%s-translator: API call failed after %v: %v", a.name, duration, err)
		return "", fmt.Errorf("%s chat completion: %w", a.name, fromOpenAIError(a.name, err))
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s chat completion: no response choices", a.name)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
