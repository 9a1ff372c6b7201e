package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const fileHeader = `# livetranslate configuration
# Generated by "livetranslate --setup". Edit values as needed; changes take
# effect on the next start.
#
# API keys may be left empty here and provided through the environment or a
# .env file instead: DEEPL_API_KEY, OPENAI_API_KEY, GROQ_API_KEY,
# DEEPGRAM_API_KEY.
#
# Durations use Go syntax ("500ms", "10s").

`

// Save writes cfg as TOML to path, creating the parent directory
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(fileHeader); err != nil {
		return fmt.Errorf("failed to write config header: %w", err)
	}
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return file.Close()
}
