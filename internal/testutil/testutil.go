package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/leonardotrapani/livetranslate/internal/config"
	"github.com/leonardotrapani/livetranslate/internal/recognizer"
	"github.com/leonardotrapani/livetranslate/internal/recording"
	"github.com/leonardotrapani/livetranslate/internal/translator"
)

// TestConfig returns a valid configuration whose model file and transcript
// live in a per-test temporary directory.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	modelPath := filepath.Join(dir, "ggml-base.bin")
	if err := os.WriteFile(modelPath, []byte("model"), 0644); err != nil {
		t.Fatalf("Failed to create fake model: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Recognizer.ModelPath = modelPath
	cfg.Recognizer.Threads = 1
	cfg.Translation.APIKey = "test-api-key"
	cfg.Output.LogFile = filepath.Join(dir, "transcricao.txt")
	return cfg
}

// CreateTempConfigFile creates a temporary config file for testing
func CreateTempConfigFile(t *testing.T, configContent string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}
	return configPath
}

// TestContext returns a context with timeout for testing
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// WaitForCondition waits for a condition to be true or times out
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("Condition not met within %v", timeout)
		default:
			if condition() {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// MockBlock creates a test audio block of the given sample count
func MockBlock(samples int) recording.Block {
	return recording.Block{
		Data:      make([]byte, samples*2),
		Samples:   samples,
		Timestamp: time.Now(),
	}
}

// MockBlocks creates n silent blocks
func MockBlocks(n, samples int) []recording.Block {
	blocks := make([]recording.Block, n)
	for i := range blocks {
		blocks[i] = MockBlock(samples)
	}
	return blocks
}

// MockSource implements recording.Source for testing. It delivers Blocks in
// order, then Err if set, then either closes its channels or, with KeepOpen,
// waits for Stop or ctx cancellation. A source with Err set stays open unless
// CloseOnError is set, in which case both channels close right after the
// error is queued, the way the capture backends fail.
type MockSource struct {
	Blocks       []recording.Block
	Err          error
	StartError   error
	KeepOpen     bool
	CloseOnError bool

	mu         sync.Mutex
	startCalls int
	stopCalls  int
	delivered  int
	stopCh     chan struct{}
}

func NewMockSource(blocks ...recording.Block) *MockSource {
	return &MockSource{Blocks: blocks}
}

func (m *MockSource) Start(ctx context.Context) (<-chan recording.Block, <-chan error, error) {
	m.mu.Lock()
	m.startCalls++
	if m.StartError != nil {
		m.mu.Unlock()
		return nil, nil, m.StartError
	}
	stopCh := make(chan struct{})
	m.stopCh = stopCh
	m.mu.Unlock()

	blockCh := make(chan recording.Block)
	errCh := make(chan error, 1)

	go func() {
		defer close(blockCh)
		defer close(errCh)

		for _, block := range m.Blocks {
			select {
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			case blockCh <- block:
				m.mu.Lock()
				m.delivered++
				m.mu.Unlock()
			}
		}

		if m.Err != nil {
			errCh <- m.Err
		}

		if m.KeepOpen || (m.Err != nil && !m.CloseOnError) {
			select {
			case <-ctx.Done():
			case <-stopCh:
			}
		}
	}()

	return blockCh, errCh, nil
}

func (m *MockSource) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	if m.stopCh != nil {
		close(m.stopCh)
		m.stopCh = nil
	}
	return nil
}

func (m *MockSource) StartCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startCalls
}

func (m *MockSource) StopCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalls
}

// Delivered returns how many blocks have been handed to the consumer
func (m *MockSource) Delivered() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.delivered
}

// MockRecognizer implements recognizer.Recognizer for testing. The n-th Feed
// returns Results[n]; once the script is exhausted Feed returns a zero Result.
type MockRecognizer struct {
	Results   []recognizer.Result
	FeedError error

	mu     sync.Mutex
	feeds  int
	closed bool
}

func NewMockRecognizer(results ...recognizer.Result) *MockRecognizer {
	return &MockRecognizer{Results: results}
}

func (m *MockRecognizer) Feed(ctx context.Context, block []byte) (recognizer.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.feeds
	m.feeds++
	if m.FeedError != nil {
		return recognizer.Result{}, m.FeedError
	}
	if i < len(m.Results) {
		return m.Results[i], nil
	}
	return recognizer.Result{}, nil
}

func (m *MockRecognizer) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

func (m *MockRecognizer) Feeds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.feeds
}

func (m *MockRecognizer) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// TranslateCall records the arguments of one Translate call
type TranslateCall struct {
	Text       string
	SourceLang string
	TargetLang string
}

// MockTranslator implements translator.Translator for testing
type MockTranslator struct {
	TranslateFunc func(ctx context.Context, text string) (string, error)
	Translation   string
	Error         error

	mu    sync.Mutex
	calls []TranslateCall
}

func NewMockTranslator(translation string) *MockTranslator {
	return &MockTranslator{Translation: translation}
}

func (m *MockTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, TranslateCall{Text: text, SourceLang: sourceLang, TargetLang: targetLang})
	m.mu.Unlock()

	if m.TranslateFunc != nil {
		return m.TranslateFunc(ctx, text)
	}
	if m.Error != nil {
		return "", m.Error
	}
	return m.Translation, nil
}

func (m *MockTranslator) Calls() []TranslateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]TranslateCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// Factory helpers for pipeline testing

// MockSourceFactory returns a factory that creates the given mock source
func MockSourceFactory(mock *MockSource) func(cfg recording.Config) (recording.Source, error) {
	return func(cfg recording.Config) (recording.Source, error) {
		return mock, nil
	}
}

// MockRecognizerFactory returns a factory that creates the given mock recognizer
func MockRecognizerFactory(mock *MockRecognizer) func(cfg recognizer.Config) (recognizer.Recognizer, error) {
	return func(cfg recognizer.Config) (recognizer.Recognizer, error) {
		return mock, nil
	}
}

// MockTranslatorFactory returns a factory that creates the given mock translator
func MockTranslatorFactory(mock *MockTranslator) func(cfg translator.Config) (translator.Translator, error) {
	return func(cfg translator.Config) (translator.Translator, error) {
		return mock, nil
	}
}
