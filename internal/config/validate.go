package config

import (
	"fmt"
	"os"

	"github.com/leonardotrapani/livetranslate/internal/language"
	"github.com/leonardotrapani/livetranslate/internal/models/whisper"
)

const maxRetries = 5

func (c *Config) Validate() error {
	switch c.Audio.Backend {
	case "malgo", "pipewire":
	default:
		return fmt.Errorf("unsupported audio.backend: %s (must be malgo or pipewire)", c.Audio.Backend)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("invalid audio.sample_rate: %d", c.Audio.SampleRate)
	}
	if c.Audio.BlockSize <= 0 {
		return fmt.Errorf("invalid audio.block_size: %d", c.Audio.BlockSize)
	}
	if c.Audio.QueueDepth <= 0 {
		return fmt.Errorf("invalid audio.queue_depth: %d", c.Audio.QueueDepth)
	}

	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validateRecognizer(); err != nil {
		return err
	}

	if c.Output.LogFile == "" {
		return fmt.Errorf("invalid output.log_file: empty")
	}

	return nil
}

func (c *Config) validateTranslation() error {
	t := c.Translation

	if !language.IsValidSource(t.SourceLang) {
		return fmt.Errorf("invalid translation.source_lang: %q (use a DeepL source code like FR, EN, DE)", t.SourceLang)
	}
	if !language.IsValidTarget(t.TargetLang) {
		return fmt.Errorf("invalid translation.target_lang: %q (use a DeepL target code like PT-BR, EN-US, DE)", t.TargetLang)
	}
	if t.Timeout <= 0 {
		return fmt.Errorf("invalid translation.timeout: %v", t.Timeout)
	}
	if t.Retries < 0 || t.Retries > maxRetries {
		return fmt.Errorf("invalid translation.retries: %d (must be between 0 and %d)", t.Retries, maxRetries)
	}

	apiKey := c.resolveAPIKey(t.Provider, t.APIKey)

	switch t.Provider {
	case "deepl":
		if apiKey == "" {
			return fmt.Errorf("DeepL API key required: not found in config (providers.deepl.api_key, translation.api_key) or environment variable (DEEPL_API_KEY)")
		}
	case "openai":
		if apiKey == "" {
			return fmt.Errorf("OpenAI API key required: not found in config (providers.openai.api_key, translation.api_key) or environment variable (OPENAI_API_KEY)")
		}
	case "groq":
		if apiKey == "" {
			return fmt.Errorf("Groq API key required: not found in config (providers.groq.api_key, translation.api_key) or environment variable (GROQ_API_KEY)")
		}
	default:
		return fmt.Errorf("unsupported translation.provider: %s (must be deepl, openai, or groq)", t.Provider)
	}

	return nil
}

func (c *Config) validateRecognizer() error {
	r := c.Recognizer

	switch r.Engine {
	case "whisper-cli", "whisper":
		if r.ModelPath == "" {
			if _, ok := whisper.Get(r.Model); !ok {
				return fmt.Errorf("invalid recognizer.model: %q (set recognizer.model_path or use one of the catalogue models, e.g. base, small)", r.Model)
			}
			if err := whisper.SupportsLanguage(r.Model, c.RecognizerLanguage()); err != nil {
				return fmt.Errorf("invalid recognizer.model: %w", err)
			}
		}
		path := c.ResolveModelPath()
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("recognizer model not found: %s (run livetranslate --setup to download it, or set recognizer.model_path)", path)
		}
		if info.IsDir() {
			return fmt.Errorf("invalid recognizer.model_path: %s is a directory", path)
		}
		if r.Engine == "whisper" && c.Audio.SampleRate != 16000 {
			return fmt.Errorf("invalid audio.sample_rate: %d (the whisper engine requires 16000)", c.Audio.SampleRate)
		}

	case "deepgram":
		if c.resolveAPIKey("deepgram", r.APIKey) == "" {
			return fmt.Errorf("Deepgram API key required: not found in config (providers.deepgram.api_key, recognizer.api_key) or environment variable (DEEPGRAM_API_KEY)")
		}

	default:
		return fmt.Errorf("unsupported recognizer.engine: %s (must be whisper-cli, whisper, or deepgram)", r.Engine)
	}

	if r.Threads < 0 {
		return fmt.Errorf("invalid recognizer.threads: %d", r.Threads)
	}
	if r.SilenceMs <= 0 {
		return fmt.Errorf("invalid recognizer.silence_ms: %d", r.SilenceMs)
	}
	if r.MaxUtterance <= 0 {
		return fmt.Errorf("invalid recognizer.max_utterance: %v", r.MaxUtterance)
	}
	if r.RMSThreshold <= 0 {
		return fmt.Errorf("invalid recognizer.rms_threshold: %v", r.RMSThreshold)
	}
	if r.PartialInterval <= 0 {
		return fmt.Errorf("invalid recognizer.partial_interval: %v", r.PartialInterval)
	}

	return nil
}
