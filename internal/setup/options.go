package setup

import (
	"context"
	"fmt"
	"log"

	"github.com/charmbracelet/huh"

	"github.com/leonardotrapani/livetranslate/internal/language"
	"github.com/leonardotrapani/livetranslate/internal/models/whisper"
	"github.com/leonardotrapani/livetranslate/internal/recording"
)

// AllProviders is the list of supported translation providers
var AllProviders = []string{"deepl", "openai", "groq"}

var providerDisplayNames = map[string]string{
	"deepl":    "DeepL",
	"openai":   "OpenAI",
	"groq":     "Groq",
	"deepgram": "Deepgram",
}

var engineDisplayNames = map[string]string{
	"whisper-cli": "whisper.cpp (whisper-cli, local)",
	"whisper":     "whisper.cpp (built in, requires -tags whispercpp)",
	"deepgram":    "Deepgram (cloud streaming)",
}

var allEngines = []string{"whisper-cli", "whisper", "deepgram"}

func getProviderDisplayName(providerName string) string {
	if name, ok := providerDisplayNames[providerName]; ok {
		return name
	}
	return providerName
}

// maskAPIKey returns a masked version of an API key for display
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:7] + "..." + key[len(key)-4:]
}

func providerOptions() []huh.Option[string] {
	var options []huh.Option[string]
	for _, name := range AllProviders {
		options = append(options, huh.NewOption(getProviderDisplayName(name), name))
	}
	return options
}

func engineOptions() []huh.Option[string] {
	var options []huh.Option[string]
	for _, name := range allEngines {
		options = append(options, huh.NewOption(engineDisplayNames[name], name))
	}
	return options
}

func languageOptions(langs []language.Language) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(langs))
	for _, l := range langs {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", l.Name, l.Code), l.Code))
	}
	return options
}

// modelOptions lists the whisper models able to transcribe lang, marking the
// ones already on disk.
func modelOptions(lang string) []huh.Option[string] {
	var options []huh.Option[string]
	for _, m := range whisper.ForLanguage(lang) {
		label := fmt.Sprintf("%s (%s)", m.ID, m.Size)
		if whisper.IsInstalled(m.ID) {
			label += " [installed]"
		}
		options = append(options, huh.NewOption(label, m.ID))
	}
	return options
}

// deviceOptions lists capture devices, always starting with the system default.
// Enumeration failures only shrink the list.
func deviceOptions(ctx context.Context, backend string) []huh.Option[string] {
	options := []huh.Option[string]{huh.NewOption("System default", "")}

	devices, err := recording.ListDevices(ctx, backend)
	if err != nil {
		log.Printf("Setup: could not list %s devices: %v", backend, err)
		return options
	}
	for _, d := range devices {
		label := fmt.Sprintf("%d: %s", d.Index, d.Name)
		if d.Default {
			label += " (default)"
		}
		options = append(options, huh.NewOption(label, d.Name))
	}
	return options
}
