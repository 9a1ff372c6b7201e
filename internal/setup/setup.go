package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/leonardotrapani/livetranslate/internal/config"
	"github.com/leonardotrapani/livetranslate/internal/language"
	"github.com/leonardotrapani/livetranslate/internal/models/whisper"
)

const defaultDeepgramModel = "nova-3"

// Result holds the outcome of the setup form
type Result struct {
	Config    *config.Config
	Cancelled bool
}

// answers is the flat set of values edited by the form
type answers struct {
	Provider    string
	APIKey      string
	SourceLang  string
	TargetLang  string
	Engine      string
	Model       string
	DeepgramKey string
	Device      string
	ShowPartial bool
	LogFile     string
}

func newAnswers(cfg *config.Config) *answers {
	a := &answers{
		Provider:    cfg.Translation.Provider,
		SourceLang:  cfg.Translation.SourceLang,
		TargetLang:  cfg.Translation.TargetLang,
		Engine:      cfg.Recognizer.Engine,
		Model:       cfg.Recognizer.Model,
		Device:      cfg.Audio.Device,
		ShowPartial: cfg.Output.ShowPartial,
		LogFile:     cfg.Output.LogFile,
	}
	if _, ok := whisper.Get(a.Model); !ok {
		a.Model = whisper.DefaultModel
	}
	return a
}

// apply returns a copy of cfg with the answers written into it. Blank keys
// leave whatever was configured before.
func (a *answers) apply(cfg *config.Config) *config.Config {
	out := cfg.WithOverrides(config.Overrides{})

	out.Translation.Provider = a.Provider
	out.Translation.SourceLang = language.Normalize(a.SourceLang)
	out.Translation.TargetLang = language.Normalize(a.TargetLang)
	if key := strings.TrimSpace(a.APIKey); key != "" {
		out.Providers[a.Provider] = config.ProviderConfig{APIKey: key}
	}

	out.Recognizer.Engine = a.Engine
	if a.Engine == "deepgram" {
		out.Recognizer.Model = defaultDeepgramModel
		if key := strings.TrimSpace(a.DeepgramKey); key != "" {
			out.Providers["deepgram"] = config.ProviderConfig{APIKey: key}
		}
	} else {
		out.Recognizer.Model = a.Model
	}

	out.Audio.Device = a.Device
	out.Output.ShowPartial = a.ShowPartial
	if strings.TrimSpace(a.LogFile) != "" {
		out.Output.LogFile = strings.TrimSpace(a.LogFile)
	}
	return out
}

// Run shows the setup form seeded from existing and returns the edited
// configuration. existing is not modified.
func Run(ctx context.Context, existing *config.Config) (*Result, error) {
	if existing == nil {
		existing = config.DefaultConfig()
	}

	fmt.Println(StyleHeader.Render("livetranslate setup"))
	fmt.Println(StyleMuted.Render("Live speech translation for the terminal"))
	fmt.Println()

	a := newAnswers(existing)
	form := buildForm(ctx, existing, a)
	if err := form.RunWithContext(ctx); err != nil {
		return formFailed(err)
	}

	cfg := a.apply(existing)

	confirmed, err := showSummary(ctx, cfg)
	if err != nil {
		return formFailed(err)
	}
	if !confirmed {
		return &Result{Cancelled: true}, nil
	}
	return &Result{Config: cfg}, nil
}

// formFailed turns an abort by the user into a cancelled result and
// reports anything else, such as a missing terminal.
func formFailed(err error) (*Result, error) {
	if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
		return &Result{Cancelled: true}, nil
	}
	return nil, fmt.Errorf("setup form: %w", err)
}

func buildForm(ctx context.Context, existing *config.Config, a *answers) *huh.Form {
	keyDescription := func(provider string) string {
		if pc, ok := existing.Providers[provider]; ok && pc.APIKey != "" {
			return fmt.Sprintf("Leave empty to keep %s", maskAPIKey(pc.APIKey))
		}
		if env := config.EnvVarForProvider(provider); env != "" {
			return fmt.Sprintf("Leave empty to use $%s", env)
		}
		return ""
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Translation provider").
				Options(providerOptions()...).
				Value(&a.Provider),
			huh.NewInput().
				Title("API key").
				DescriptionFunc(func() string { return keyDescription(a.Provider) }, &a.Provider).
				EchoMode(huh.EchoModePassword).
				Value(&a.APIKey),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Spoken language").
				Options(languageOptions(language.Sources())...).
				Height(10).
				Value(&a.SourceLang),
			huh.NewSelect[string]().
				Title("Translate into").
				Options(languageOptions(language.Targets())...).
				Height(10).
				Value(&a.TargetLang),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Speech recognition").
				Options(engineOptions()...).
				Value(&a.Engine),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Whisper model").
				Description("Larger models are more accurate and slower").
				OptionsFunc(func() []huh.Option[string] {
					return modelOptions(language.Base(a.SourceLang))
				}, &a.SourceLang).
				Value(&a.Model),
		).WithHideFunc(func() bool { return a.Engine == "deepgram" }),
		huh.NewGroup(
			huh.NewInput().
				Title("Deepgram API key").
				Description(keyDescription("deepgram")).
				EchoMode(huh.EchoModePassword).
				Value(&a.DeepgramKey),
		).WithHideFunc(func() bool { return a.Engine != "deepgram" }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Microphone").
				Options(deviceOptions(ctx, existing.Audio.Backend)...).
				Value(&a.Device),
			huh.NewConfirm().
				Title("Show partial results while speaking?").
				Value(&a.ShowPartial),
			huh.NewInput().
				Title("Transcript file").
				Value(&a.LogFile).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("transcript file is required")
					}
					return nil
				}),
		),
	).WithTheme(getTheme())
}

// summaryLines renders the configuration summary shown before saving
func summaryLines(cfg *config.Config) []string {
	lines := []string{
		fmt.Sprintf("%s %s", StyleLabel.Render("Translation:"), getProviderDisplayName(cfg.Translation.Provider)),
		fmt.Sprintf("%s %s -> %s", StyleLabel.Render("Languages:"), cfg.Translation.SourceLang, cfg.Translation.TargetLang),
	}

	recognition := engineDisplayNames[cfg.Recognizer.Engine]
	if cfg.Recognizer.Engine != "deepgram" {
		recognition += ", model " + cfg.Recognizer.Model
	}
	lines = append(lines, fmt.Sprintf("%s %s", StyleLabel.Render("Recognition:"), recognition))

	device := cfg.Audio.Device
	if device == "" {
		device = "system default"
	}
	lines = append(lines, fmt.Sprintf("%s %s", StyleLabel.Render("Microphone:"), device))

	partials := "hidden"
	if cfg.Output.ShowPartial {
		partials = "shown"
	}
	lines = append(lines,
		fmt.Sprintf("%s %s", StyleLabel.Render("Partials:"), partials),
		fmt.Sprintf("%s %s", StyleLabel.Render("Transcript:"), cfg.Output.LogFile),
	)
	return lines
}

func showSummary(ctx context.Context, cfg *config.Config) (bool, error) {
	fmt.Println()
	fmt.Println(StyleHeader.Render("Configuration Summary"))
	for _, line := range summaryLines(cfg) {
		fmt.Println("  " + line)
	}
	fmt.Println()

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save this configuration?").
				Affirmative("Save").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(getTheme())

	if err := form.RunWithContext(ctx); err != nil {
		return false, err
	}
	return confirmed, nil
}

// EnsureModel downloads the configured whisper model when it is missing.
// Explicit model paths and the deepgram engine need nothing.
func EnsureModel(ctx context.Context, cfg *config.Config, w io.Writer) error {
	if cfg.Recognizer.Engine == "deepgram" || cfg.Recognizer.ModelPath != "" {
		return nil
	}
	if whisper.IsInstalled(cfg.Recognizer.Model) {
		return nil
	}

	info, ok := whisper.Get(cfg.Recognizer.Model)
	if !ok {
		return fmt.Errorf("unknown whisper model: %s", cfg.Recognizer.Model)
	}

	fmt.Fprintf(w, "Downloading whisper model %s (%s)...\n", info.ID, info.Size)
	lastPercent := -1
	path, err := whisper.Download(ctx, info.ID, func(downloaded, total int64) {
		if total <= 0 {
			return
		}
		percent := int(downloaded * 100 / total)
		if percent != lastPercent {
			lastPercent = percent
			fmt.Fprintf(w, "\r  %3d%%", percent)
		}
	})
	fmt.Fprintln(w)
	if err != nil {
		fmt.Fprintln(w, StyleError.Render("Download failed: "+err.Error()))
		return err
	}

	fmt.Fprintln(w, StyleSuccess.Render("Model saved to "+path))
	return nil
}
