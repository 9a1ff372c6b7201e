package recognizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	deepgramURL = "wss://api.deepgram.com/v1/listen"

	// Deepgram rejects utterance_end_ms below one second
	deepgramUtteranceEndMs = 1000
	deepgramCloseTimeout   = 2 * time.Second
)

// DeepgramRecognizer streams blocks to Deepgram's live API. Finalized
// segments are collected until Deepgram marks the end of speech, so one
// final Result covers one spoken utterance. The socket is opened on the
// first Feed.
type DeepgramRecognizer struct {
	endpoint   string
	apiKey     string
	model      string
	language   string
	sampleRate int
	channels   int
	endpointMs int
	dialer     *websocket.Dialer

	mu     sync.Mutex // guards stream
	stream *deepgramStream

	// owned by the Feed caller
	segments []string
	interim  string
}

// dgMessage is the subset of Deepgram's server messages we read
type dgMessage struct {
	Type        string `json:"type"`
	IsFinal     bool   `json:"is_final"`
	SpeechFinal bool   `json:"speech_final"`
	Channel     struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"channel"`
	RequestID   string `json:"request_id"`
	Description string `json:"description"`
	Message     string `json:"message"`
	ErrCode     string `json:"err_code"`
	ErrMsg      string `json:"err_msg"`
}

func (m dgMessage) transcript() string {
	if len(m.Channel.Alternatives) == 0 {
		return ""
	}
	return strings.TrimSpace(m.Channel.Alternatives[0].Transcript)
}

func (m dgMessage) errorText() string {
	for _, s := range []string{m.ErrMsg, m.Description, m.Message} {
		if s != "" {
			return s
		}
	}
	return "unknown error"
}

// deepgramStream is one websocket session
type deepgramStream struct {
	conn     *websocket.Conn
	writeMu  sync.Mutex
	messages chan dgMessage
	quit     chan struct{} // closed by Close to release a blocked reader
	done     chan struct{}
	err      error // set before done is closed
}

func NewDeepgramRecognizer(cfg Config) *DeepgramRecognizer {
	endpoint := cfg.BaseURL
	if endpoint == "" {
		endpoint = deepgramURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultConfig().Model
	}
	return &DeepgramRecognizer{
		endpoint:   endpoint,
		apiKey:     cfg.APIKey,
		model:      model,
		language:   cfg.Language,
		sampleRate: cfg.SampleRate,
		channels:   cfg.Channels,
		endpointMs: cfg.SilenceMs,
		dialer:     &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
	}
}

func (r *DeepgramRecognizer) buildURL() (string, error) {
	u, err := url.Parse(r.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse deepgram endpoint: %w", err)
	}

	q := u.Query()
	q.Set("model", r.model)
	q.Set("encoding", "linear16")
	q.Set("sample_rate", strconv.Itoa(r.sampleRate))
	q.Set("channels", strconv.Itoa(r.channels))
	q.Set("interim_results", "true")
	q.Set("punctuate", "true")
	q.Set("smart_format", "true")
	q.Set("utterance_end_ms", strconv.Itoa(deepgramUtteranceEndMs))
	if r.endpointMs > 0 {
		q.Set("endpointing", strconv.Itoa(r.endpointMs))
	}
	if lang := deepgramLanguage(r.language); lang != "" {
		q.Set("language", lang)
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}

// deepgramLanguage maps ISO 639-1 codes to the tags Deepgram expects
func deepgramLanguage(code string) string {
	switch strings.ToLower(strings.ReplaceAll(code, "_", "-")) {
	case "":
		return ""
	case "en", "en-us":
		return "en-US"
	case "pt-br":
		return "pt-BR"
	default:
		return code
	}
}

func (r *DeepgramRecognizer) open(ctx context.Context) (*deepgramStream, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stream != nil {
		return r.stream, nil
	}

	wsURL, err := r.buildURL()
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Authorization", "Token "+r.apiKey)

	conn, resp, err := r.dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("deepgram dial: %w (HTTP %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("deepgram dial: %w", err)
	}

	s := &deepgramStream{
		conn:     conn,
		messages: make(chan dgMessage, 64),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.read()

	log.Printf("deepgram: connected, model=%s, language=%s", r.model, r.language)
	r.stream = s
	return s, nil
}

// read decodes server messages until the socket fails or closes
func (s *deepgramStream) read() {
	defer close(s.done)
	defer close(s.messages)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				s.err = err
			}
			return
		}

		var msg dgMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("deepgram: ignoring undecodable message: %v", err)
			continue
		}
		if msg.Type == "Metadata" {
			log.Printf("deepgram: session started, request_id=%s", msg.RequestID)
			continue
		}
		select {
		case s.messages <- msg:
		case <-s.quit:
			return
		}
	}
}

func (s *deepgramStream) write(messageType int, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteMessage(messageType, data)
}

// Feed sends the block, then applies the messages that have already
// arrived. It stops at the first message that closes an utterance, so later
// utterances wait for the next Feed. It never waits for the server.
func (r *DeepgramRecognizer) Feed(ctx context.Context, block []byte) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	s, err := r.open(ctx)
	if err != nil {
		return Result{}, err
	}

	if err := s.write(websocket.BinaryMessage, block); err != nil {
		return Result{}, fmt.Errorf("deepgram send audio: %w", err)
	}

	for {
		select {
		case msg, ok := <-s.messages:
			if !ok {
				<-s.done
				if s.err != nil {
					return Result{}, fmt.Errorf("deepgram connection lost: %w", s.err)
				}
				return Result{}, errors.New("deepgram closed the stream")
			}
			if msg.Type == "Error" {
				return Result{}, fmt.Errorf("deepgram: %s", msg.errorText())
			}
			if text := r.apply(msg); text != "" {
				return Result{IsFinal: true, Text: text}, nil
			}
		default:
			return Result{Text: r.partial()}, nil
		}
	}
}

// apply folds one message into the pending utterance and returns its text
// when the message closes it.
func (r *DeepgramRecognizer) apply(msg dgMessage) string {
	switch msg.Type {
	case "Results":
		text := msg.transcript()
		if !msg.IsFinal {
			r.interim = text
			return ""
		}
		r.interim = ""
		if text != "" {
			r.segments = append(r.segments, text)
		}
		if msg.SpeechFinal {
			return r.takeUtterance()
		}
	case "UtteranceEnd":
		return r.takeUtterance()
	}
	return ""
}

func (r *DeepgramRecognizer) takeUtterance() string {
	text := strings.Join(r.segments, " ")
	r.segments = nil
	r.interim = ""
	return text
}

// partial is the utterance heard so far, finalized segments included
func (r *DeepgramRecognizer) partial() string {
	parts := r.segments
	if r.interim != "" {
		parts = append(parts[:len(parts):len(parts)], r.interim)
	}
	return strings.Join(parts, " ")
}

// Close asks Deepgram to flush and waits briefly for it to hang up.
func (r *DeepgramRecognizer) Close() error {
	r.mu.Lock()
	s := r.stream
	r.stream = nil
	r.mu.Unlock()

	if s == nil {
		return nil
	}

	if err := s.write(websocket.TextMessage, []byte(`{"type":"CloseStream"}`)); err != nil {
		log.Printf("deepgram: CloseStream failed: %v", err)
	}

	close(s.quit)
	select {
	case <-s.done:
	case <-time.After(deepgramCloseTimeout):
		log.Printf("deepgram: no close from server after %v", deepgramCloseTimeout)
	}

	if len(r.segments) > 0 {
		log.Printf("deepgram: discarding unfinished utterance %q", strings.Join(r.segments, " "))
		r.segments = nil
	}

	_ = s.conn.Close()
	<-s.done
	log.Printf("deepgram: closed")
	return nil
}
