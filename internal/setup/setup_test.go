package setup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/huh"

	"github.com/leonardotrapani/livetranslate/internal/config"
	"github.com/leonardotrapani/livetranslate/internal/language"
	"github.com/leonardotrapani/livetranslate/internal/models/whisper"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{key: "short", want: "***"},
		{key: "12345678", want: "***"},
		{key: "sk-proj-abcdefghijkl", want: "sk-proj...ijkl"},
	}
	for _, tt := range tests {
		if got := maskAPIKey(tt.key); got != tt.want {
			t.Errorf("maskAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestLanguageOptions(t *testing.T) {
	sources := languageOptions(language.Sources())
	targets := languageOptions(language.Targets())

	hasValue := func(opts []string, v string) bool {
		for _, o := range opts {
			if o == v {
				return true
			}
		}
		return false
	}

	var sourceValues, targetValues []string
	for _, o := range sources {
		sourceValues = append(sourceValues, o.Value)
		if o.Value == "FR" && o.Key != "French (FR)" {
			t.Errorf("unexpected label for FR: %q", o.Key)
		}
	}
	for _, o := range targets {
		targetValues = append(targetValues, o.Value)
	}

	if !hasValue(sourceValues, "FR") || hasValue(sourceValues, "PT-BR") {
		t.Errorf("source options should contain FR and not PT-BR: %v", sourceValues)
	}
	if !hasValue(targetValues, "PT-BR") {
		t.Errorf("target options should contain PT-BR: %v", targetValues)
	}
}

func TestModelOptions_MarksInstalled(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir, err := whisper.Dir()
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ggml-base.bin"), []byte("model"), 0644); err != nil {
		t.Fatal(err)
	}

	options := modelOptions("fr")
	for _, o := range options {
		if strings.HasSuffix(o.Value, ".en") {
			t.Errorf("english-only model %s offered for French", o.Value)
		}
		installed := strings.Contains(o.Key, "[installed]")
		if o.Value == "base" && !installed {
			t.Errorf("base should be marked installed: %q", o.Key)
		}
		if o.Value != "base" && installed {
			t.Errorf("%s should not be marked installed", o.Value)
		}
	}

	if len(modelOptions("en")) <= len(options) {
		t.Error("english should also offer the .en models")
	}
}

func TestAnswersApply(t *testing.T) {
	base := config.DefaultConfig()
	base.Providers["deepl"] = config.ProviderConfig{APIKey: "existing-key"}

	t.Run("blank key keeps existing", func(t *testing.T) {
		a := newAnswers(base)
		a.SourceLang = "de"
		a.TargetLang = "en-us"
		a.Device = "USB Mic"
		a.ShowPartial = true

		cfg := a.apply(base)
		if cfg.Providers["deepl"].APIKey != "existing-key" {
			t.Errorf("existing key lost: %+v", cfg.Providers)
		}
		if cfg.Translation.SourceLang != "DE" || cfg.Translation.TargetLang != "EN-US" {
			t.Errorf("languages not normalized: %s -> %s", cfg.Translation.SourceLang, cfg.Translation.TargetLang)
		}
		if cfg.Audio.Device != "USB Mic" || !cfg.Output.ShowPartial {
			t.Errorf("answers not applied: %+v %+v", cfg.Audio, cfg.Output)
		}
		if base.Audio.Device != "" || base.Translation.SourceLang != "FR" {
			t.Error("apply modified the original config")
		}
	})

	t.Run("new provider key", func(t *testing.T) {
		a := newAnswers(base)
		a.Provider = "groq"
		a.APIKey = "  gsk_new  "

		cfg := a.apply(base)
		if cfg.Translation.Provider != "groq" || cfg.Providers["groq"].APIKey != "gsk_new" {
			t.Errorf("groq key not stored: %+v", cfg.Providers)
		}
		if _, ok := base.Providers["groq"]; ok {
			t.Error("apply leaked into the original providers map")
		}
	})

	t.Run("deepgram engine", func(t *testing.T) {
		a := newAnswers(base)
		a.Engine = "deepgram"
		a.DeepgramKey = "dg-key"
		a.Model = "small"

		cfg := a.apply(base)
		if cfg.Recognizer.Model != defaultDeepgramModel {
			t.Errorf("expected %s, got %s", defaultDeepgramModel, cfg.Recognizer.Model)
		}
		if cfg.Providers["deepgram"].APIKey != "dg-key" {
			t.Errorf("deepgram key not stored: %+v", cfg.Providers)
		}
	})

	t.Run("blank log file keeps default", func(t *testing.T) {
		a := newAnswers(base)
		a.LogFile = "  "
		if cfg := a.apply(base); cfg.Output.LogFile != config.DefaultLogFile {
			t.Errorf("expected default log file, got %q", cfg.Output.LogFile)
		}
	})
}

func TestNewAnswers_UnknownModelFallsBack(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Recognizer.Model = "nova-3"
	if a := newAnswers(cfg); a.Model != whisper.DefaultModel {
		t.Errorf("expected %s, got %s", whisper.DefaultModel, a.Model)
	}
}

func TestSummaryLines(t *testing.T) {
	cfg := config.DefaultConfig()
	summary := strings.Join(summaryLines(cfg), "\n")

	for _, expected := range []string{"DeepL", "FR -> PT-BR", "model base", "system default", "hidden", config.DefaultLogFile} {
		if !strings.Contains(summary, expected) {
			t.Errorf("summary missing %q:\n%s", expected, summary)
		}
	}
}

func TestEnsureModel_SkipsWhenNotNeeded(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *config.Config)
	}{
		{name: "deepgram", modify: func(c *config.Config) { c.Recognizer.Engine = "deepgram" }},
		{name: "explicit model path", modify: func(c *config.Config) { c.Recognizer.ModelPath = "/models/custom.bin" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.modify(cfg)
			var out bytes.Buffer
			if err := EnsureModel(context.Background(), cfg, &out); err != nil {
				t.Errorf("EnsureModel: %v", err)
			}
			if out.Len() != 0 {
				t.Errorf("expected no output, got %q", out.String())
			}
		})
	}
}

func TestEnsureModel_UnknownModel(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := config.DefaultConfig()
	cfg.Recognizer.Model = "huge"

	if err := EnsureModel(context.Background(), cfg, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown model")
	}
}

func TestEnsureModel_AlreadyInstalled(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := whisper.Path("tiny")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("model"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Recognizer.Model = "tiny"

	var out bytes.Buffer
	if err := EnsureModel(context.Background(), cfg, &out); err != nil {
		t.Errorf("EnsureModel: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no download, got %q", out.String())
	}
}

func TestFormFailed(t *testing.T) {
	noTTY := errors.New("could not open a new TTY: open /dev/tty: no such device or address")

	tests := []struct {
		name          string
		err           error
		wantCancelled bool
	}{
		{name: "user aborted", err: huh.ErrUserAborted, wantCancelled: true},
		{name: "interrupted", err: fmt.Errorf("run form: %w", context.Canceled), wantCancelled: true},
		{name: "no terminal", err: noTTY},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := formFailed(tc.err)
			if tc.wantCancelled {
				if err != nil || result == nil || !result.Cancelled {
					t.Errorf("formFailed() = (%+v, %v), want cancelled result", result, err)
				}
				return
			}
			if !errors.Is(err, tc.err) {
				t.Errorf("formFailed() error = %v, want %v", err, tc.err)
			}
			if result != nil {
				t.Errorf("formFailed() result = %+v, want nil", result)
			}
		})
	}
}
