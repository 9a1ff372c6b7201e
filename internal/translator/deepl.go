package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/leonardotrapani/livetranslate/internal/language"
)

const (
	deeplFreeURL = "https://api-free.deepl.com"
	deeplProURL  = "https://api.deepl.com"
)

// DeepLAdapter implements Translator for the DeepL v2 REST API
type DeepLAdapter struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

type deeplRequest struct {
	Text       []string `json:"text"`
	SourceLang string   `json:"source_lang,omitempty"`
	TargetLang string   `json:"target_lang"`
}

type deeplResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// NewDeepLAdapter creates a DeepL adapter. Free-plan keys (suffix ":fx") are
// routed to api-free.deepl.com unless cfg.BaseURL overrides the endpoint.
func NewDeepLAdapter(cfg Config) *DeepLAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = deeplBaseURL(cfg.APIKey)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}
	return &DeepLAdapter{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.APIKey,
	}
}

func deeplBaseURL(apiKey string) string {
	if strings.HasSuffix(apiKey, ":fx") {
		return deeplFreeURL
	}
	return deeplProURL
}

func (a *DeepLAdapter) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	payload, err := json.Marshal(deeplRequest{
		Text:       []string{text},
		SourceLang: language.Tag(sourceLang),
		TargetLang: language.Normalize(targetLang),
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v2/translate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := a.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		log.Printf("deepl-adapter: API call failed after %v: %v", duration, err)
		return "", fmt.Errorf("deepl request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("deepl-adapter: API returned status %d: %s", resp.StatusCode, string(bodyBytes))
		return "", &StatusError{Provider: "deepl", StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(bodyBytes))}
	}

	var result deeplResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Translations) == 0 {
		return "", fmt.Errorf("deepl: empty translations in response")
	}

	return result.Translations[0].Text, nil
}
