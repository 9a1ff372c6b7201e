package recognizer

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/leonardotrapani/livetranslate/internal/deps"
)

// whisperCliDecoder transcribes utterances with a whisper-cli child process
type whisperCliDecoder struct {
	binary     string
	modelPath  string
	language   string
	threads    int
	sampleRate int
	channels   int
}

func newWhisperCliDecoder(cfg Config) (*whisperCliDecoder, error) {
	status := deps.CheckWhisperCli()
	if err := deps.Require("whisper-cli", status, "install whisper.cpp first"); err != nil {
		return nil, err
	}
	return &whisperCliDecoder{
		binary:     status.Path,
		modelPath:  cfg.ModelPath,
		language:   cfg.Language,
		threads:    cfg.Threads,
		sampleRate: cfg.SampleRate,
		channels:   cfg.Channels,
	}, nil
}

func (d *whisperCliDecoder) Decode(ctx context.Context, pcm []byte) (string, error) {
	if len(pcm) == 0 {
		return "", nil
	}

	tmp, err := os.CreateTemp("", "livetranslate-*.wav")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpFile := tmp.Name()
	defer os.Remove(tmpFile)

	_, err = tmp.Write(convertToWAV(pcm, d.sampleRate, d.channels))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}

	args := d.buildArgs(tmpFile)

	cmd := exec.CommandContext(ctx, d.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	duration := time.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Printf("whisper-cli: command failed after %v: %v\nstderr: %s", duration, err, stderr.String())
		return "", fmt.Errorf("whisper-cli failed: %w", err)
	}

	// with -nt the transcription is printed as plain lines
	text := strings.Join(strings.Fields(stdout.String()), " ")

	log.Printf("whisper-cli: transcribed %d bytes in %v: %q", len(pcm), duration, text)
	return text, nil
}

func (d *whisperCliDecoder) buildArgs(wavPath string) []string {
	lang := d.language
	if lang == "" {
		lang = "auto"
	}
	args := []string{
		"-m", d.modelPath,
		"-l", lang,
		"-nt", // no timestamps
		"-np", // no progress
		"-f", wavPath,
	}
	if d.threads > 0 {
		args = append(args, "-t", strconv.Itoa(d.threads))
	}
	return args
}

func (d *whisperCliDecoder) Close() error {
	return nil
}
