//go:build whispercpp

// Native engine backed by the whisper.cpp CGO bindings. libwhisper.a and
// whisper.h must be reachable through LIBRARY_PATH and C_INCLUDE_PATH.

package recognizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

const nativeSampleRate = 16000

// nativeDecoder loads the model once and creates a fresh context per decode
type nativeDecoder struct {
	model    whisperlib.Model
	language string
	threads  int
	channels int
}

func newNativeDecoder(cfg Config) (decoder, error) {
	if cfg.SampleRate != nativeSampleRate {
		return nil, fmt.Errorf("whisper: sample rate must be %d, got %d", nativeSampleRate, cfg.SampleRate)
	}
	model, err := whisperlib.New(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("whisper: load model %q: %w", cfg.ModelPath, err)
	}
	return &nativeDecoder{
		model:    model,
		language: cfg.Language,
		threads:  cfg.Threads,
		channels: cfg.Channels,
	}, nil
}

func (d *nativeDecoder) Decode(ctx context.Context, pcm []byte) (string, error) {
	if len(pcm) == 0 {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	samples := pcmToFloat32Mono(pcm, d.channels)

	wctx, err := d.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("whisper: create context: %w", err)
	}
	if d.language != "" {
		if err := wctx.SetLanguage(d.language); err != nil {
			log.Printf("whisper: failed to set language %q, using model default: %v", d.language, err)
		}
	}
	if d.threads > 0 {
		wctx.SetThreads(uint(d.threads))
	}

	start := time.Now()
	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("whisper: process audio: %w", err)
	}

	var parts []string
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("whisper: read segment: %w", err)
		}
		if text := strings.TrimSpace(segment.Text); text != "" {
			parts = append(parts, text)
		}
	}

	text := strings.Join(parts, " ")
	log.Printf("whisper: transcribed %d samples in %v: %q", len(samples), time.Since(start), text)
	return text, nil
}

func (d *nativeDecoder) Close() error {
	return d.model.Close()
}
