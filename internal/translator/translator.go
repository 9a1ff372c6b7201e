package translator

import (
	"context"
	"fmt"
	"time"
)

// Translator turns finalized source-language text into the target language.
// Blank input returns "" without contacting the provider.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Config holds translator configuration
type Config struct {
	Provider string // "deepl", "openai" or "groq"
	APIKey   string
	Model    string // chat model for openai/groq, ignored by deepl
	BaseURL  string // empty = provider default
	Timeout  time.Duration
	Retries  int // extra attempts for transient failures, 0 disables retrying
}

func DefaultConfig() Config {
	return Config{
		Provider: "deepl",
		Timeout:  15 * time.Second,
	}
}

// New creates a translator for the configured provider
func New(cfg Config) (Translator, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	var t Translator
	switch cfg.Provider {
	case "deepl", "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("DeepL API key required")
		}
		t = NewDeepLAdapter(cfg)
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		t = NewOpenAIAdapter(cfg)
	case "groq":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("Groq API key required")
		}
		t = NewGroqAdapter(cfg)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", cfg.Provider)
	}

	if cfg.Retries > 0 {
		t = WithRetry(t, cfg.Retries)
	}
	return t, nil
}
