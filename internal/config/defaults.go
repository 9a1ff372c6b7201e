package config

import (
	"runtime"
	"time"
)

const DefaultLogFile = "transcricao_fr_pt.txt"

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Audio: AudioConfig{
			Backend:    "malgo",
			SampleRate: 16000,
			BlockSize:  4000,
			Device:     "",
			QueueDepth: 64,
		},
		Recognizer: RecognizerConfig{
			Engine:          "whisper-cli",
			Model:           "base",
			Threads:         0,
			SilenceMs:       500,
			MaxUtterance:    10 * time.Second,
			RMSThreshold:    300,
			PartialInterval: time.Second,
		},
		Translation: TranslationConfig{
			Provider:   "deepl",
			SourceLang: "FR",
			TargetLang: "PT-BR",
			Timeout:    15 * time.Second,
			Retries:    0,
		},
		Output: OutputConfig{
			ShowPartial: false,
			LogFile:     DefaultLogFile,
		},
		Providers: make(map[string]ProviderConfig),
	}
}

// applyThreadsDefault sets default threads for local recognition if not explicitly set
func (c *Config) applyThreadsDefault() {
	if c.Recognizer.Threads == 0 {
		threads := runtime.NumCPU() - 1
		if threads < 1 {
			threads = 1
		}
		c.Recognizer.Threads = threads
	}
}
