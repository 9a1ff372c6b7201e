//go:build !whispercpp

package recognizer

import (
	"strings"
	"testing"
)

func TestNew_NativeWithoutBuildTag(t *testing.T) {
	cfg := testConfig()
	cfg.Engine = "whisper"
	cfg.ModelPath = writeModel(t)

	_, err := New(cfg)
	if err == nil || !strings.Contains(err.Error(), "whispercpp") {
		t.Errorf("expected build tag hint, got %v", err)
	}
}
