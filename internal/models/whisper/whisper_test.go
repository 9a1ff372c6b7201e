package whisper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error = %v", err)
	}
	want := filepath.Join(home, ".local", "share", "livetranslate", "models", "whisper")
	if dir != want {
		t.Errorf("Dir() = %s, want %s", dir, want)
	}
}

func TestPath(t *testing.T) {
	tests := []struct {
		modelID string
		wantEnd string
	}{
		{"base", "ggml-base.bin"},
		{"large-v3-turbo", "ggml-large-v3-turbo.bin"},
		{"small.en", "ggml-small.en.bin"},
		{"unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.modelID, func(t *testing.T) {
			got := Path(tt.modelID)
			if tt.wantEnd == "" {
				if got != "" {
					t.Errorf("Path(%q) = %s, want empty", tt.modelID, got)
				}
				return
			}
			if !strings.HasSuffix(got, tt.wantEnd) {
				t.Errorf("Path(%q) = %s, want ending with %s", tt.modelID, got, tt.wantEnd)
			}
		})
	}
}

func TestForLanguage(t *testing.T) {
	for _, m := range ForLanguage("fr") {
		if !m.Multilingual {
			t.Errorf("ForLanguage(fr) returned English-only model %s", m.ID)
		}
	}
	if len(ForLanguage("en")) != len(models) {
		t.Error("ForLanguage(en) should include every model")
	}
}

func TestSupportsLanguage(t *testing.T) {
	tests := []struct {
		model   string
		lang    string
		wantErr bool
	}{
		{"base", "fr", false},
		{"base.en", "en", false},
		{"base.en", "fr", true},
		{"nope", "fr", true},
	}
	for _, tt := range tests {
		if err := SupportsLanguage(tt.model, tt.lang); (err != nil) != tt.wantErr {
			t.Errorf("SupportsLanguage(%s, %s) error = %v, wantErr %v", tt.model, tt.lang, err, tt.wantErr)
		}
	}
}

func TestDownload(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ggml-tiny.bin" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("fake-model-bytes"))
	}))
	defer server.Close()

	orig := downloadBaseURL
	downloadBaseURL = server.URL
	defer func() { downloadBaseURL = orig }()

	if IsInstalled("tiny") {
		t.Fatal("model should not be installed yet")
	}

	var lastDownloaded int64
	path, err := Download(context.Background(), "tiny", func(downloaded, total int64) {
		lastDownloaded = downloaded
	})
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "fake-model-bytes" {
		t.Errorf("unexpected model content %q (%v)", data, err)
	}
	if lastDownloaded != int64(len("fake-model-bytes")) {
		t.Errorf("progress reported %d bytes", lastDownloaded)
	}
	if !IsInstalled("tiny") {
		t.Error("model should be installed after download")
	}
	if _, err := os.Stat(path + ".downloading"); !os.IsNotExist(err) {
		t.Error("temporary file should be removed")
	}
}

func TestDownload_Failures(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	orig := downloadBaseURL
	downloadBaseURL = server.URL
	defer func() { downloadBaseURL = orig }()

	if _, err := Download(context.Background(), "tiny", nil); err == nil {
		t.Error("expected error on 404")
	}
	if IsInstalled("tiny") {
		t.Error("failed download must not install the model")
	}
	if _, err := Download(context.Background(), "nope", nil); err == nil {
		t.Error("expected error for unknown model")
	}
}
