package config

import "time"

// Config is the immutable application configuration. It is loaded once at
// startup and each component receives its own value copy via the To*Config
// converters.
type Config struct {
	Audio       AudioConfig               `toml:"audio"`
	Recognizer  RecognizerConfig          `toml:"recognizer"`
	Translation TranslationConfig         `toml:"translation"`
	Output      OutputConfig              `toml:"output"`
	Providers   map[string]ProviderConfig `toml:"providers"`
}

// ProviderConfig holds API key for a provider
type ProviderConfig struct {
	APIKey string `toml:"api_key"`
}

type AudioConfig struct {
	Backend    string `toml:"backend"` // "malgo" or "pipewire"
	SampleRate int    `toml:"sample_rate"`
	BlockSize  int    `toml:"block_size"` // samples per block
	Device     string `toml:"device"`     // "", "default", index or name
	QueueDepth int    `toml:"queue_depth"`
}

type RecognizerConfig struct {
	Engine          string        `toml:"engine"`     // "whisper-cli", "whisper" or "deepgram"
	Model           string        `toml:"model"`      // whisper catalogue ID or deepgram model
	ModelPath       string        `toml:"model_path"` // overrides the catalogue location
	Language        string        `toml:"language"`   // empty = derived from translation.source_lang
	Threads         int           `toml:"threads"`    // 0 = auto: NumCPU-1
	SilenceMs       int           `toml:"silence_ms"`
	MaxUtterance    time.Duration `toml:"max_utterance"`
	RMSThreshold    float64       `toml:"rms_threshold"`
	PartialInterval time.Duration `toml:"partial_interval"`
	APIKey          string        `toml:"api_key"`
	BaseURL         string        `toml:"base_url"`
}

type TranslationConfig struct {
	Provider   string        `toml:"provider"` // "deepl", "openai" or "groq"
	Model      string        `toml:"model"`
	SourceLang string        `toml:"source_lang"`
	TargetLang string        `toml:"target_lang"`
	Timeout    time.Duration `toml:"timeout"`
	Retries    int           `toml:"retries"`
	BaseURL    string        `toml:"base_url"`
	APIKey     string        `toml:"api_key"`
}

type OutputConfig struct {
	ShowPartial bool   `toml:"show_partial"`
	LogFile     string `toml:"log_file"`
}

// Overrides carries command-line values that take precedence over the file.
// Nil fields are left untouched.
type Overrides struct {
	Device      *string
	ShowPartial *bool
	LogFile     *string
	ModelPath   *string
	SourceLang  *string
	TargetLang  *string
}
