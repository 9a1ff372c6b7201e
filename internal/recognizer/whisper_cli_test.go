package recognizer

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

// installFakeWhisperCli puts a whisper-cli script on PATH that records its
// arguments next to itself and prints output.
func installFakeWhisperCli(t *testing.T, output string, exitCode int) string {
	t.Helper()
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	script := "#!/bin/sh\n" +
		"if [ \"$1\" = \"--version\" ]; then echo 'whisper-cli test'; exit 0; fi\n" +
		"echo \"$@\" > " + argsFile + "\n" +
		"printf '%s' '" + output + "'\n" +
		"exit " + strconv.Itoa(exitCode) + "\n"
	if err := os.WriteFile(filepath.Join(dir, "whisper-cli"), []byte(script), 0755); err != nil {
		t.Fatalf("write fake whisper-cli: %v", err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return argsFile
}

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ggml-base.bin")
	if err := os.WriteFile(path, []byte("model"), 0644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return path
}

func TestWhisperCliDecoder_Decode(t *testing.T) {
	argsFile := installFakeWhisperCli(t, "\n Bonjour à tous.\n  Ça va ?\n", 0)

	cfg := testConfig()
	cfg.ModelPath = writeModel(t)
	cfg.Threads = 4

	dec, err := newWhisperCliDecoder(cfg)
	if err != nil {
		t.Fatalf("newWhisperCliDecoder: %v", err)
	}

	text, err := dec.Decode(context.Background(), pcmBlock(2000))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if text != "Bonjour à tous. Ça va ?" {
		t.Errorf("got %q", text)
	}

	raw, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	args := string(raw)
	for _, want := range []string{"-m " + cfg.ModelPath, "-l fr", "-nt", "-np", "-t 4", "-f "} {
		if !strings.Contains(args, want) {
			t.Errorf("args %q missing %q", args, want)
		}
	}
}

func TestWhisperCliDecoder_EmptyAudio(t *testing.T) {
	installFakeWhisperCli(t, "never", 0)
	dec, err := newWhisperCliDecoder(testConfig())
	if err != nil {
		t.Fatalf("newWhisperCliDecoder: %v", err)
	}
	if text, err := dec.Decode(context.Background(), nil); err != nil || text != "" {
		t.Errorf("got (%q, %v), want empty", text, err)
	}
}

func TestWhisperCliDecoder_Failure(t *testing.T) {
	installFakeWhisperCli(t, "", 1)
	dec, err := newWhisperCliDecoder(testConfig())
	if err != nil {
		t.Fatalf("newWhisperCliDecoder: %v", err)
	}
	if _, err := dec.Decode(context.Background(), pcmBlock(2000)); err == nil {
		t.Error("expected error when whisper-cli fails")
	}
}

func TestWhisperCliDecoder_BuildArgs(t *testing.T) {
	dec := &whisperCliDecoder{modelPath: "/m.bin"}
	got := dec.buildArgs("/tmp/a.wav")
	want := []string{"-m", "/m.bin", "-l", "auto", "-nt", "-np", "-f", "/tmp/a.wav"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNew(t *testing.T) {
	installFakeWhisperCli(t, "", 0)
	model := writeModel(t)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "whisper-cli", mutate: func(c *Config) { c.ModelPath = model }},
		{name: "missing model", mutate: func(c *Config) { c.ModelPath = filepath.Join(t.TempDir(), "nope.bin") }, wantErr: "model file not found"},
		{name: "model not configured", mutate: func(c *Config) {}, wantErr: "model path not configured"},
		{name: "model is directory", mutate: func(c *Config) { c.ModelPath = t.TempDir() }, wantErr: "directory"},
		{name: "deepgram", mutate: func(c *Config) { c.Engine = "deepgram"; c.APIKey = "k" }},
		{name: "deepgram without key", mutate: func(c *Config) { c.Engine = "deepgram" }, wantErr: "API key"},
		{name: "unknown engine", mutate: func(c *Config) { c.Engine = "vosk" }, wantErr: "unsupported"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			rec, err := New(cfg)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			rec.Close()
		})
	}
}

func TestNew_WhisperCliMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	cfg := testConfig()
	cfg.ModelPath = writeModel(t)
	if _, err := New(cfg); err == nil {
		t.Error("expected error when whisper-cli is not installed")
	}
}
