package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/leonardotrapani/livetranslate/internal/config"
	"github.com/leonardotrapani/livetranslate/internal/console"
	"github.com/leonardotrapani/livetranslate/internal/language"
	"github.com/leonardotrapani/livetranslate/internal/recognizer"
	"github.com/leonardotrapani/livetranslate/internal/recording"
	"github.com/leonardotrapani/livetranslate/internal/transcript"
	"github.com/leonardotrapani/livetranslate/internal/translator"
)

type Status string

const (
	Idle        Status = "idle"
	Listening   Status = "listening"
	Translating Status = "translating"
)

type (
	SourceFactory     func(cfg recording.Config) (recording.Source, error)
	RecognizerFactory func(cfg recognizer.Config) (recognizer.Recognizer, error)
	TranslatorFactory func(cfg translator.Config) (translator.Translator, error)
)

type Option func(*Driver)

func WithSourceFactory(f SourceFactory) Option {
	return func(d *Driver) { d.newSource = f }
}

func WithRecognizerFactory(f RecognizerFactory) Option {
	return func(d *Driver) { d.newRecognizer = f }
}

func WithTranslatorFactory(f TranslatorFactory) Option {
	return func(d *Driver) { d.newTranslator = f }
}

// WithOutput sets where utterances, partials and banners are printed
func WithOutput(w io.Writer) Option {
	return func(d *Driver) { d.out = w }
}

// WithClock sets the clock used for transcript timestamps
func WithClock(now func() time.Time) Option {
	return func(d *Driver) { d.now = now }
}

// Driver runs one capture session: it pulls blocks from the source, feeds
// the recognizer, translates each finalized utterance and reports it on the
// console and in the transcript log. Everything after capture runs on the
// goroutine that called Run.
type Driver struct {
	cfg *config.Config

	newSource     SourceFactory
	newRecognizer RecognizerFactory
	newTranslator TranslatorFactory
	out           io.Writer
	now           func() time.Time

	mu     sync.Mutex
	status Status
}

func New(cfg *config.Config, opts ...Option) *Driver {
	d := &Driver{
		cfg:           cfg,
		newSource:     recording.New,
		newRecognizer: recognizer.New,
		newTranslator: translator.New,
		out:           os.Stdout,
		now:           time.Now,
		status:        Idle,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Driver) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

func (d *Driver) setStatus(s Status) {
	d.mu.Lock()
	d.status = s
	d.mu.Unlock()
}

// session holds the state of a single Run
type session struct {
	rec     recognizer.Recognizer
	tr      translator.Translator
	log     *transcript.Log
	console *console.Printer

	srcLang, dstLang string
	srcTag, dstTag   string

	lastPartial string
	utterances  int
}

// Run validates the configuration, opens the microphone and processes audio
// until ctx is cancelled, the source ends or a fatal error occurs. An
// interruption through ctx is a normal shutdown and returns nil.
func (d *Driver) Run(ctx context.Context) (err error) {
	if err := d.cfg.Validate(); err != nil {
		return &ConfigError{Err: err}
	}

	tr, err := d.newTranslator(d.cfg.ToTranslatorConfig())
	if err != nil {
		return &ConfigError{Err: fmt.Errorf("translator: %w", err)}
	}

	rec, err := d.newRecognizer(d.cfg.ToRecognizerConfig())
	if err != nil {
		return &ConfigError{Err: fmt.Errorf("recognizer: %w", err)}
	}
	defer func() {
		if cerr := rec.Close(); cerr != nil {
			log.Printf("Pipeline: error closing recognizer: %v", cerr)
		}
	}()

	printer := console.New(d.out)
	captureCfg := d.cfg.ToCaptureConfig()
	captureCfg.Warn = printer.Warn
	src, err := d.newSource(captureCfg)
	if err != nil {
		return &ConfigError{Err: fmt.Errorf("audio source: %w", err)}
	}

	s := &session{
		rec:     rec,
		tr:      tr,
		log:     transcript.New(d.cfg.Output.LogFile, transcript.WithClock(d.now)),
		console: printer,
		srcLang: d.cfg.Translation.SourceLang,
		dstLang: d.cfg.Translation.TargetLang,
		srcTag:  language.Tag(d.cfg.Translation.SourceLang),
		dstTag:  language.Tag(d.cfg.Translation.TargetLang),
	}

	s.console.Banner(
		fmt.Sprintf("=== TRADUTOR SIMULTÂNEO %s->%s ===", s.srcTag, s.dstTag),
		"Fale perto do microfone. Pressione Ctrl+C para encerrar.",
		"Salvando transcrição em: "+s.log.Path(),
	)

	if err := s.log.SessionStarted(); err != nil {
		return &LogError{Path: s.log.Path(), Err: err}
	}
	defer func() {
		if lerr := s.log.SessionEnded(); lerr != nil {
			log.Printf("Pipeline: failed to write session end marker: %v", lerr)
			if err == nil {
				err = &LogError{Path: s.log.Path(), Err: lerr}
			}
		}
		log.Printf("Pipeline: session finished, %d utterances translated", s.utterances)
	}()

	s.console.Info("Abrindo microfone...")
	blocks, errs, err := src.Start(ctx)
	if err != nil {
		return &DeviceError{Err: err}
	}
	defer func() {
		if serr := src.Stop(); serr != nil {
			log.Printf("Pipeline: error stopping audio source: %v", serr)
		}
		d.setStatus(Idle)
	}()

	d.setStatus(Listening)
	log.Printf("Pipeline: listening (%s -> %s)", s.srcLang, s.dstLang)

	for {
		if ctx.Err() != nil {
			return d.interrupted(s)
		}

		select {
		case <-ctx.Done():
			return d.interrupted(s)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				if ctx.Err() != nil {
					return d.interrupted(s)
				}
				return &DeviceError{Err: err}
			}

		case block, ok := <-blocks:
			if !ok {
				if ctx.Err() != nil {
					return d.interrupted(s)
				}
				if err := pendingError(errs); err != nil {
					return &DeviceError{Err: err}
				}
				log.Printf("Pipeline: audio source closed")
				return nil
			}
			if err := d.process(ctx, s, block); err != nil {
				if ctx.Err() != nil {
					return d.interrupted(s)
				}
				return err
			}
		}
	}
}

// pendingError returns an error the source queued before closing its block
// channel, if any.
func pendingError(errs <-chan error) error {
	if errs == nil {
		return nil
	}
	select {
	case err := <-errs:
		return err
	default:
		return nil
	}
}

func (d *Driver) interrupted(s *session) error {
	log.Printf("Pipeline: context cancelled, stopping")
	s.console.Info("\nEncerrando...")
	return nil
}

// process feeds one block and reports whatever the recognizer produced
func (d *Driver) process(ctx context.Context, s *session, block recording.Block) error {
	res, err := s.rec.Feed(ctx, block.Data)
	if err != nil {
		return &RecognitionError{Err: err}
	}

	if res.IsFinal {
		s.lastPartial = ""
		text := strings.TrimSpace(res.Text)
		if text == "" {
			return nil
		}
		return d.handleFinal(ctx, s, text)
	}

	if !d.cfg.Output.ShowPartial {
		return nil
	}
	partial := strings.TrimSpace(res.Text)
	if partial == "" || partial == s.lastPartial {
		return nil
	}
	s.lastPartial = partial
	s.console.Partial(partial)
	return nil
}

func (d *Driver) handleFinal(ctx context.Context, s *session, text string) error {
	d.setStatus(Translating)
	start := time.Now()
	translated, err := s.tr.Translate(ctx, text, s.srcLang, s.dstLang)
	d.setStatus(Listening)
	if err != nil {
		return &TranslationError{Text: text, Err: err}
	}
	log.Printf("Pipeline: translated %d chars in %v", len(text), time.Since(start))

	s.console.Utterance(s.srcTag, text, s.dstTag, translated)

	if err := s.log.Utterance(s.srcTag, text); err != nil {
		return &LogError{Path: s.log.Path(), Err: err}
	}
	if err := s.log.Utterance(s.dstTag, translated); err != nil {
		return &LogError{Path: s.log.Path(), Err: err}
	}
	s.utterances++
	return nil
}
