package config

import (
	"os"
	"strings"

	"github.com/leonardotrapani/livetranslate/internal/language"
	"github.com/leonardotrapani/livetranslate/internal/models/whisper"
	"github.com/leonardotrapani/livetranslate/internal/recognizer"
	"github.com/leonardotrapani/livetranslate/internal/recording"
	"github.com/leonardotrapani/livetranslate/internal/translator"
)

// envVars maps provider names to the environment variable holding their key
var envVars = map[string]string{
	"deepl":    "DEEPL_API_KEY",
	"openai":   "OPENAI_API_KEY",
	"groq":     "GROQ_API_KEY",
	"deepgram": "DEEPGRAM_API_KEY",
}

// EnvVarForProvider returns the environment variable consulted for a provider key
func EnvVarForProvider(name string) string {
	return envVars[name]
}

func (c *Config) ToCaptureConfig() recording.Config {
	return recording.Config{
		Backend:    c.Audio.Backend,
		SampleRate: c.Audio.SampleRate,
		Channels:   1,
		BlockSize:  c.Audio.BlockSize,
		Device:     c.Audio.Device,
		QueueDepth: c.Audio.QueueDepth,
	}
}

func (c *Config) ToRecognizerConfig() recognizer.Config {
	config := recognizer.Config{
		Engine:          c.Recognizer.Engine,
		ModelPath:       c.ResolveModelPath(),
		Model:           c.Recognizer.Model,
		Language:        c.RecognizerLanguage(),
		Threads:         c.Recognizer.Threads,
		SampleRate:      c.Audio.SampleRate,
		Channels:        1,
		SilenceMs:       c.Recognizer.SilenceMs,
		MaxUtterance:    c.Recognizer.MaxUtterance,
		RMSThreshold:    c.Recognizer.RMSThreshold,
		PartialInterval: c.Recognizer.PartialInterval,
		Partials:        c.Output.ShowPartial,
		BaseURL:         c.Recognizer.BaseURL,
	}
	if c.Recognizer.Engine == "deepgram" {
		config.APIKey = c.resolveAPIKey("deepgram", c.Recognizer.APIKey)
		// whisper catalogue IDs mean nothing to deepgram
		if _, ok := whisper.Get(config.Model); ok {
			config.Model = ""
		}
	}
	return config
}

func (c *Config) ToTranslatorConfig() translator.Config {
	return translator.Config{
		Provider: c.Translation.Provider,
		APIKey:   c.resolveAPIKey(c.Translation.Provider, c.Translation.APIKey),
		Model:    c.Translation.Model,
		BaseURL:  c.Translation.BaseURL,
		Timeout:  c.Translation.Timeout,
		Retries:  c.Translation.Retries,
	}
}

// RecognizerLanguage returns recognizer.language, or the base of the
// translation source language ("FR" -> "fr") when unset.
func (c *Config) RecognizerLanguage() string {
	if c.Recognizer.Language != "" {
		return strings.ToLower(c.Recognizer.Language)
	}
	return language.Base(c.Translation.SourceLang)
}

// ResolveModelPath returns recognizer.model_path, falling back to the
// catalogue location of recognizer.model for the whisper engines.
func (c *Config) ResolveModelPath() string {
	if c.Recognizer.ModelPath != "" {
		return expandHome(c.Recognizer.ModelPath)
	}
	if c.Recognizer.Engine == "deepgram" {
		return ""
	}
	return whisper.Path(c.Recognizer.Model)
}

// resolveAPIKey returns the API key for a provider from multiple sources:
// [providers.<name>], then the section key, then the environment.
func (c *Config) resolveAPIKey(providerName, sectionKey string) string {
	if c.Providers != nil {
		if pc, ok := c.Providers[providerName]; ok && strings.TrimSpace(pc.APIKey) != "" {
			return strings.TrimSpace(pc.APIKey)
		}
	}

	if strings.TrimSpace(sectionKey) != "" {
		return strings.TrimSpace(sectionKey)
	}

	if envVar := EnvVarForProvider(providerName); envVar != "" {
		return strings.TrimSpace(os.Getenv(envVar))
	}

	return ""
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	}
	return path
}
