package recognizer

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Result is the outcome of feeding one audio block. A zero Result means the
// recognizer has nothing new to report.
type Result struct {
	IsFinal bool
	Text    string // final text when IsFinal, otherwise the current partial
}

// Recognizer turns a stream of PCM blocks into partial and final text.
// Blocks must be fed in capture order from a single goroutine.
type Recognizer interface {
	Feed(ctx context.Context, block []byte) (Result, error)
	Close() error
}

type Config struct {
	Engine    string // "whisper-cli", "whisper" or "deepgram"
	ModelPath string // ggml model file for the whisper engines
	Model     string // deepgram model name
	Language  string // ISO 639-1 code ("fr")
	Threads   int

	SampleRate int
	Channels   int

	// endpointing for the local engines
	SilenceMs       int
	MaxUtterance    time.Duration
	RMSThreshold    float64
	PartialInterval time.Duration
	Partials        bool // decode partial hypotheses while speaking

	APIKey  string // deepgram
	BaseURL string // deepgram websocket endpoint override
}

func DefaultConfig() Config {
	return Config{
		Engine:          "whisper-cli",
		Model:           "nova-3",
		Language:        "fr",
		SampleRate:      16000,
		Channels:        1,
		SilenceMs:       500,
		MaxUtterance:    10 * time.Second,
		RMSThreshold:    300,
		PartialInterval: time.Second,
	}
}

// New creates the recognizer for the configured engine
func New(cfg Config) (Recognizer, error) {
	switch cfg.Engine {
	case "whisper-cli", "":
		if err := checkModel(cfg.ModelPath); err != nil {
			return nil, err
		}
		dec, err := newWhisperCliDecoder(cfg)
		if err != nil {
			return nil, err
		}
		return newSegmented(cfg, dec), nil
	case "whisper":
		if err := checkModel(cfg.ModelPath); err != nil {
			return nil, err
		}
		dec, err := newNativeDecoder(cfg)
		if err != nil {
			return nil, err
		}
		return newSegmented(cfg, dec), nil
	case "deepgram":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("Deepgram API key required")
		}
		return NewDeepgramRecognizer(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported recognizer engine: %s", cfg.Engine)
	}
}

func checkModel(path string) error {
	if path == "" {
		return fmt.Errorf("model path not configured")
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("model file not found: %s", path)
		}
		return fmt.Errorf("stat model: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("model path is a directory: %s", path)
	}
	return nil
}
