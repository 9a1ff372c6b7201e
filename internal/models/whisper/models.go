package whisper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ModelInfo describes a ggml whisper model published by whisper.cpp
type ModelInfo struct {
	ID           string // catalogue identifier ("base", "small.en")
	Filename     string // file name on disk and on the mirror
	Size         string // human readable size
	SizeBytes    int64  // expected size, used when the server omits Content-Length
	Multilingual bool   // false for the English-only ".en" variants
}

var models = []ModelInfo{
	{ID: "tiny", Filename: "ggml-tiny.bin", Size: "75MB", SizeBytes: 75_000_000, Multilingual: true},
	{ID: "base", Filename: "ggml-base.bin", Size: "142MB", SizeBytes: 142_000_000, Multilingual: true},
	{ID: "small", Filename: "ggml-small.bin", Size: "466MB", SizeBytes: 466_000_000, Multilingual: true},
	{ID: "medium", Filename: "ggml-medium.bin", Size: "1.5GB", SizeBytes: 1_500_000_000, Multilingual: true},
	{ID: "large-v3-turbo", Filename: "ggml-large-v3-turbo.bin", Size: "1.6GB", SizeBytes: 1_600_000_000, Multilingual: true},
	{ID: "large-v3", Filename: "ggml-large-v3.bin", Size: "3GB", SizeBytes: 3_000_000_000, Multilingual: true},

	{ID: "tiny.en", Filename: "ggml-tiny.en.bin", Size: "75MB", SizeBytes: 75_000_000},
	{ID: "base.en", Filename: "ggml-base.en.bin", Size: "142MB", SizeBytes: 142_000_000},
	{ID: "small.en", Filename: "ggml-small.en.bin", Size: "466MB", SizeBytes: 466_000_000},
}

var modelByID = func() map[string]ModelInfo {
	m := make(map[string]ModelInfo, len(models))
	for _, model := range models {
		m[model.ID] = model
	}
	return m
}()

// DefaultModel is used when no model is configured
const DefaultModel = "base"

// downloadBaseURL points at the whisper.cpp model mirror on huggingface
var downloadBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"

// Dir returns ~/.local/share/livetranslate/models/whisper
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "livetranslate", "models", "whisper"), nil
}

// Path returns where the model with the given ID lives on disk,
// or "" for unknown IDs.
func Path(modelID string) string {
	info, ok := modelByID[modelID]
	if !ok {
		return ""
	}
	dir, err := Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, info.Filename)
}

func Get(modelID string) (ModelInfo, bool) {
	info, ok := modelByID[modelID]
	return info, ok
}

// ForLanguage returns the models able to transcribe lang (ISO 639-1)
func ForLanguage(lang string) []ModelInfo {
	var result []ModelInfo
	for _, m := range models {
		if m.Multilingual || strings.EqualFold(lang, "en") {
			result = append(result, m)
		}
	}
	return result
}

// SupportsLanguage reports whether modelID can transcribe lang
func SupportsLanguage(modelID, lang string) error {
	info, ok := modelByID[modelID]
	if !ok {
		return fmt.Errorf("unknown whisper model: %s", modelID)
	}
	if !info.Multilingual && !strings.EqualFold(lang, "en") {
		return fmt.Errorf("model %s is English-only, pick a multilingual model for %q", modelID, lang)
	}
	return nil
}

// IsInstalled reports whether the model file exists and is non-empty
func IsInstalled(modelID string) bool {
	path := Path(modelID)
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}
