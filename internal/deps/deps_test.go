package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFakeTool(t *testing.T, dir, name, script string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("write fake %s: %v", name, err)
	}
}

func TestCheckWhisperCli_Installed(t *testing.T) {
	dir := t.TempDir()
	writeFakeTool(t, dir, "whisper-cli", "#!/bin/sh\necho 'whisper-cli 1.7.4'\necho extra\n")
	t.Setenv("PATH", dir)

	status := CheckWhisperCli()
	if !status.Installed {
		t.Fatal("expected Installed=true")
	}
	if status.Path != filepath.Join(dir, "whisper-cli") {
		t.Errorf("unexpected path %q", status.Path)
	}
	if status.Version != "whisper-cli 1.7.4" {
		t.Errorf("unexpected version %q", status.Version)
	}
}

func TestCheckWhisperCli_NotInstalled(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	status := CheckWhisperCli()
	if status.Installed {
		t.Error("expected Installed=false when whisper-cli not in PATH")
	}
	if status.Path != "" {
		t.Error("expected empty path when not installed")
	}
}

func TestCheckPwRecord_VersionFailure(t *testing.T) {
	dir := t.TempDir()
	writeFakeTool(t, dir, "pw-record", "#!/bin/sh\nexit 1\n")
	t.Setenv("PATH", dir)

	status := CheckPwRecord()
	if !status.Installed {
		t.Fatal("expected Installed=true")
	}
	if status.Version != "" {
		t.Errorf("expected empty version when --version fails, got %q", status.Version)
	}
}

func TestRequire(t *testing.T) {
	if err := Require("pw-record", Status{Installed: true}, "install pipewire"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Require("pw-record", Status{}, "install pipewire"); err == nil {
		t.Error("expected error for missing tool")
	}
}
