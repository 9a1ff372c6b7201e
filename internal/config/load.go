package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var ErrConfigNotFound = errors.New("config not found")

// DefaultPath returns os.UserConfigDir()/livetranslate/config.toml
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "livetranslate", "config.toml"), nil
}

// LoadDotEnv loads KEY=value pairs from the given files (".env" when none
// given) into the environment. Variables already set are kept and missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
		log.Printf("Config: loaded environment from %s", p)
	}
	return nil
}

// Load reads the TOML file at path on top of the defaults. With an empty
// path the default location is used and a missing file yields the defaults;
// an explicit path that does not exist is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	config := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		log.Printf("Config: no configuration at %s, using defaults", path)
		config.applyThreadsDefault()
		return config, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
	}

	log.Printf("Config: loading configuration from %s", path)
	meta, err := toml.DecodeFile(path, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		log.Printf("Config: ignoring unknown keys: %v", undecoded)
	}

	if config.Providers == nil {
		config.Providers = make(map[string]ProviderConfig)
	}
	config.applyThreadsDefault()

	log.Printf("Config: configuration loaded successfully")
	return config, nil
}

// WithOverrides returns a copy of c with the non-nil overrides applied.
// c itself is not modified.
func (c *Config) WithOverrides(o Overrides) *Config {
	out := *c
	out.Providers = make(map[string]ProviderConfig, len(c.Providers))
	for k, v := range c.Providers {
		out.Providers[k] = v
	}

	if o.Device != nil {
		out.Audio.Device = *o.Device
	}
	if o.ShowPartial != nil {
		out.Output.ShowPartial = *o.ShowPartial
	}
	if o.LogFile != nil {
		out.Output.LogFile = *o.LogFile
	}
	if o.ModelPath != nil {
		out.Recognizer.ModelPath = *o.ModelPath
	}
	if o.SourceLang != nil {
		out.Translation.SourceLang = *o.SourceLang
	}
	if o.TargetLang != nil {
		out.Translation.TargetLang = *o.TargetLang
	}
	return &out
}
