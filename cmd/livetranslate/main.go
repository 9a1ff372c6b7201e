package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leonardotrapani/livetranslate/internal/config"
	"github.com/leonardotrapani/livetranslate/internal/pipeline"
	"github.com/leonardotrapani/livetranslate/internal/recording"
	"github.com/leonardotrapani/livetranslate/internal/setup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	device      string
	listDevices bool
	setup       bool
	showPartial bool
	logFile     string
	modelPath   string
	source      string
	target      string
}

func newRootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "livetranslate",
		Short: "Live speech transcription and translation in the terminal",
		Long: `livetranslate listens to the microphone, transcribes speech as it is
spoken and prints every finished sentence next to its translation.
Both are appended to a transcript file.

API keys are read from the config file, the environment or a .env file
in the working directory (DEEPL_API_KEY, OPENAI_API_KEY, GROQ_API_KEY,
DEEPGRAM_API_KEY).`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), o, cmd.Flags().Changed)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/livetranslate/config.toml)")
	flags.StringVar(&o.device, "device", "", "input device: index, name or \"default\"")
	flags.BoolVar(&o.listDevices, "list-devices", false, "list input devices and exit")
	flags.BoolVar(&o.setup, "setup", false, "run the interactive setup and exit")
	flags.BoolVar(&o.showPartial, "show-partial", false, "show partial results while speaking")
	flags.StringVar(&o.logFile, "log-file", "", "transcript file (default "+config.DefaultLogFile+")")
	flags.StringVar(&o.modelPath, "model", "", "path to the whisper model file")
	flags.StringVar(&o.source, "source", "", "spoken language code (default FR)")
	flags.StringVar(&o.target, "target", "", "translation language code (default PT-BR)")

	return cmd
}

// overrides turns the flags the user actually set into config overrides
func (o *options) overrides(changed func(name string) bool) config.Overrides {
	var ov config.Overrides
	if changed("device") {
		ov.Device = &o.device
	}
	if changed("show-partial") {
		ov.ShowPartial = &o.showPartial
	}
	if changed("log-file") {
		ov.LogFile = &o.logFile
	}
	if changed("model") {
		ov.ModelPath = &o.modelPath
	}
	if changed("source") {
		ov.SourceLang = &o.source
	}
	if changed("target") {
		ov.TargetLang = &o.target
	}
	return ov
}

func run(ctx context.Context, out io.Writer, o *options, changed func(string) bool) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if o.setup {
		return runSetup(ctx, out, o.configPath, cfg)
	}

	cfg = cfg.WithOverrides(o.overrides(changed))

	if o.listDevices {
		return runListDevices(ctx, out, cfg.Audio.Backend)
	}

	return pipeline.New(cfg, pipeline.WithOutput(out)).Run(ctx)
}

func runListDevices(ctx context.Context, out io.Writer, backend string) error {
	devices, err := recording.ListDevices(ctx, backend)
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}
	printDevices(out, devices)
	return nil
}

func printDevices(out io.Writer, devices []recording.Device) {
	fmt.Fprintln(out, "\n=== Dispositivos de entrada disponíveis ===")
	if len(devices) == 0 {
		fmt.Fprintln(out, "  (nenhum dispositivo encontrado)")
		return
	}
	for _, d := range devices {
		marker := "  "
		if d.Default {
			marker = "> "
		}
		fmt.Fprintf(out, "%s%2d  %s\n", marker, d.Index, d.Name)
	}
	fmt.Fprintln(out, "\nUse --device <índice ou nome> para escolher um dispositivo.")
}

func runSetup(ctx context.Context, out io.Writer, path string, cfg *config.Config) error {
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	result, err := setup.Run(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setup error: %w", err)
	}
	if result.Cancelled {
		fmt.Fprintln(out, "Setup cancelled.")
		return nil
	}

	if err := config.Save(path, result.Config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(out, "\nConfiguration saved to %s\n\n", path)

	if err := setup.EnsureModel(ctx, result.Config, out); err != nil {
		return fmt.Errorf("failed to download model: %w", err)
	}

	if err := result.Config.Validate(); err != nil {
		fmt.Fprintf(out, "Warning: %v\n", err)
		return nil
	}

	fmt.Fprintln(out, "Ready. Run: livetranslate")
	return nil
}
