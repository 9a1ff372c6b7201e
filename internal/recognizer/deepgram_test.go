package recognizer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestDeepgramRecognizer_BuildURL(t *testing.T) {
	tests := []struct {
		name     string
		language string
		want     []string
		absent   []string
	}{
		{
			name:     "french",
			language: "fr",
			want:     []string{"model=nova-3", "language=fr", "encoding=linear16", "sample_rate=16000", "interim_results=true", "endpointing=500", "utterance_end_ms=1000"},
		},
		{name: "english", language: "en", want: []string{"language=en-US"}},
		{name: "brazilian", language: "pt_br", want: []string{"language=pt-BR"}},
		{name: "no language", language: "", absent: []string{"language="}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Language = tt.language
			cfg.APIKey = "test-key"

			url, err := NewDeepgramRecognizer(cfg).buildURL()
			if err != nil {
				t.Fatalf("buildURL() error = %v", err)
			}
			if !strings.HasPrefix(url, deepgramURL+"?") {
				t.Errorf("buildURL() = %q, want default endpoint", url)
			}
			for _, want := range tt.want {
				if !strings.Contains(url, want) {
					t.Errorf("buildURL() = %q, want to contain %q", url, want)
				}
			}
			for _, absent := range tt.absent {
				if strings.Contains(url, absent) {
					t.Errorf("buildURL() = %q, must not contain %q", url, absent)
				}
			}
		})
	}
}

func TestDeepgramRecognizer_Apply(t *testing.T) {
	r := NewDeepgramRecognizer(Config{APIKey: "k"})

	steps := []struct {
		msg         dgMessage
		wantFinal   string
		wantPartial string
	}{
		{msg: results("Bon", false, false), wantPartial: "Bon"},
		{msg: results("Bonjour", true, false), wantPartial: "Bonjour"},
		{msg: results("à", false, false), wantPartial: "Bonjour à"},
		{msg: results("à tous", true, true), wantFinal: "Bonjour à tous"},
		{msg: results("Merci", true, false), wantPartial: "Merci"},
		{msg: dgMessage{Type: "UtteranceEnd"}, wantFinal: "Merci"},
		{msg: dgMessage{Type: "UtteranceEnd"}},
	}

	for i, step := range steps {
		got := r.apply(step.msg)
		if got != step.wantFinal {
			t.Errorf("step %d: final = %q, want %q", i, got, step.wantFinal)
		}
		if got == "" && r.partial() != step.wantPartial {
			t.Errorf("step %d: partial = %q, want %q", i, r.partial(), step.wantPartial)
		}
	}
}

func TestDeepgramRecognizer_CloseNotStarted(t *testing.T) {
	r := NewDeepgramRecognizer(Config{APIKey: "k"})
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v, want nil", err)
	}
}

// mockDeepgramServer creates a mock WebSocket server for testing
func mockDeepgramServer(t *testing.T, handler func(*websocket.Conn)) *httptest.Server {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token test-key" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer conn.Close()

		handler(conn)
	}))
	t.Cleanup(server.Close)
	return server
}

func results(text string, isFinal, speechFinal bool) dgMessage {
	var msg dgMessage
	msg.Type = "Results"
	msg.IsFinal = isFinal
	msg.SpeechFinal = speechFinal
	msg.Channel.Alternatives = append(msg.Channel.Alternatives, struct {
		Transcript string  `json:"transcript"`
		Confidence float64 `json:"confidence"`
	}{Transcript: text, Confidence: 0.9})
	return msg
}

// drainUntilClosed reads until the client hangs up or sends CloseStream
func drainUntilClosed(conn *websocket.Conn) {
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if mt == websocket.TextMessage && strings.Contains(string(data), "CloseStream") {
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func newTestDeepgram(server *httptest.Server) *DeepgramRecognizer {
	cfg := testConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = "ws" + strings.TrimPrefix(server.URL, "http")
	return NewDeepgramRecognizer(cfg)
}

// feedUntil feeds silence until accept returns true or the deadline passes
func feedUntil(t *testing.T, r *DeepgramRecognizer, accept func(Result) bool) []Result {
	t.Helper()
	var seen []Result
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		res, err := r.Feed(context.Background(), pcmBlock(0))
		if err != nil {
			t.Fatalf("Feed: %v", err)
		}
		if res != (Result{}) {
			seen = append(seen, res)
			if accept(res) {
				return seen
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out, results so far: %+v", seen)
	return nil
}

func TestDeepgramRecognizer_InterimThenFinal(t *testing.T) {
	server := mockDeepgramServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"Metadata","request_id":"test-123"}`))

		// wait for the first audio block
		if mt, _, err := conn.ReadMessage(); err != nil || mt != websocket.BinaryMessage {
			return
		}
		conn.WriteJSON(results("Bon", false, false))
		time.Sleep(50 * time.Millisecond)
		conn.WriteJSON(results("Bonjour", true, false))
		conn.WriteJSON(results("à tous", true, true))

		drainUntilClosed(conn)
	})

	r := newTestDeepgram(server)
	defer r.Close()

	seen := feedUntil(t, r, func(res Result) bool { return res.IsFinal })

	if final := seen[len(seen)-1]; final.Text != "Bonjour à tous" {
		t.Errorf("final = %q, want %q", final.Text, "Bonjour à tous")
	}
	for _, res := range seen[:len(seen)-1] {
		if res.IsFinal || (res.Text != "Bon" && res.Text != "Bonjour") {
			t.Errorf("unexpected interim %+v", res)
		}
	}
}

func TestDeepgramRecognizer_UtterancesStaySeparate(t *testing.T) {
	server := mockDeepgramServer(t, func(conn *websocket.Conn) {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		conn.WriteJSON(results("Bonjour", true, true))
		conn.WriteJSON(results("Merci", true, true))
		drainUntilClosed(conn)
	})

	r := newTestDeepgram(server)
	defer r.Close()

	var finals []string
	feedUntil(t, r, func(res Result) bool {
		if res.IsFinal {
			finals = append(finals, res.Text)
		}
		return len(finals) == 2
	})

	if finals[0] != "Bonjour" || finals[1] != "Merci" {
		t.Errorf("finals = %q, want [Bonjour Merci]", finals)
	}
}

func TestDeepgramRecognizer_ErrorMessage(t *testing.T) {
	server := mockDeepgramServer(t, func(conn *websocket.Conn) {
		conn.ReadMessage()
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"Error","description":"bad audio"}`))
		drainUntilClosed(conn)
	})

	r := newTestDeepgram(server)
	defer r.Close()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := r.Feed(context.Background(), pcmBlock(0)); err != nil {
			if !strings.Contains(err.Error(), "bad audio") {
				t.Errorf("unexpected error %v", err)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expected deepgram error to surface from Feed")
}

func TestDeepgramRecognizer_ConnectionLost(t *testing.T) {
	server := mockDeepgramServer(t, func(conn *websocket.Conn) {
		conn.ReadMessage()
		// drop the TCP connection without a close frame
		conn.UnderlyingConn().Close()
	})

	r := newTestDeepgram(server)
	defer r.Close()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := r.Feed(context.Background(), pcmBlock(0)); err != nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expected Feed to fail once the connection dropped")
}

func TestDeepgramRecognizer_Unauthorized(t *testing.T) {
	server := mockDeepgramServer(t, func(conn *websocket.Conn) {})

	cfg := testConfig()
	cfg.APIKey = "wrong"
	cfg.BaseURL = "ws" + strings.TrimPrefix(server.URL, "http")
	r := NewDeepgramRecognizer(cfg)
	defer r.Close()

	_, err := r.Feed(context.Background(), pcmBlock(0))
	if err == nil {
		t.Fatal("expected dial error with a bad key")
	}
	if !strings.Contains(err.Error(), fmt.Sprintf("HTTP %d", http.StatusUnauthorized)) {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestDeepgramRecognizer_CanceledContext(t *testing.T) {
	r := NewDeepgramRecognizer(Config{APIKey: "k"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Feed(ctx, pcmBlock(0)); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
