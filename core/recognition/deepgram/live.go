// Package deepgram implements the recognition engine contract over Deepgram's
// live transcription websocket API.
package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"github.com/omnifolio/assistant-core/core/audio"
	"github.com/omnifolio/assistant-core/core/recognition"
)

const keepAliveInterval = 5 * time.Second

// Recognizer opens live transcription sessions against Deepgram. The zero
// value is usable; the API key is read from DEEPGRAM_API_KEY.
type Recognizer struct{}

func NewRecognizer() *Recognizer { return &Recognizer{} }

// Listen dials the live transcription endpoint and returns the session. A
// Deepgram utterance-end closes the session, so each Listen call captures one
// utterance, matching the orchestrator's single-turn capture model.
func (r *Recognizer) Listen(ctx context.Context, opts ...recognition.SessionOption) (recognition.Session, error) {
	options := recognition.SessionOptions{EncodingInfo: audio.GetDefaultEncodingInfo()}
	for _, opt := range opts {
		opt(&options)
	}

	encoding, err := convertEncoding(options.EncodingInfo)
	if err != nil {
		return nil, fmt.Errorf("invalid encoding: %w", err)
	}

	conn, err := connectWebsocket(connectionOptions{
		sampleRate: encoding.SampleRate,
		encoding:   encoding.Format.Name(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open websocket: %w", err)
	}

	session := &liveSession{conn: conn, options: options}
	go session.readAndProcessMessages(ctx, conn)
	go session.keepAlive(ctx)

	return session, nil
}

type connectionOptions struct {
	sampleRate int
	encoding   string
}

func connectWebsocket(options connectionOptions) (*websocket.Conn, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	listenUrl, _ := url.Parse("wss://api.deepgram.com/v1/listen")
	queryParams := listenUrl.Query()
	queryParams.Set("encoding", options.encoding)
	queryParams.Set("sample_rate", strconv.Itoa(options.sampleRate))
	queryParams.Set("channels", "1")
	queryParams.Set("model", "nova-3")
	queryParams.Set("language", "en-US")
	queryParams.Set("smart_format", "true")
	queryParams.Set("interim_results", "true")
	queryParams.Set("utterance_end_ms", "1000")
	queryParams.Set("endpointing", "300")
	queryParams.Set("vad_events", "true")

	listenUrl.RawQuery = queryParams.Encode()
	conn, _, err := websocket.DefaultDialer.Dial(listenUrl.String(),
		http.Header{"Authorization": {"Token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, err
}

type liveSession struct {
	connMu sync.Mutex
	conn   *websocket.Conn

	options recognition.SessionOptions

	lastMsgTs time.Time
	aborted   atomic.Bool
	endOnce   sync.Once
}

func (s *liveSession) SendAudio(audio []byte) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.conn == nil {
		return fmt.Errorf("session closed")
	}

	s.lastMsgTs = time.Now()
	if err := s.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("failed to write to deepgram client: %w", err)
	}
	return nil
}

// Stop asks Deepgram to flush and close the stream; remaining final results
// arrive before the read loop ends the session.
func (s *liveSession) Stop() error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.conn != nil {
		if err := s.conn.WriteJSON(struct {
			Type string `json:"type"`
		}{Type: string(api.TypeCloseStreamResponse)}); err != nil {
			return fmt.Errorf("failed to close deepgram stream through websocket: %w", err)
		}
	}
	return nil
}

func (s *liveSession) Abort() error {
	s.aborted.Store(true)

	s.connMu.Lock()
	conn := s.conn
	s.conn = nil
	s.connMu.Unlock()

	if conn != nil {
		if err := conn.Close(); err != nil {
			return fmt.Errorf("failed to close deepgram websocket: %w", err)
		}
	}

	s.fireEnded()
	return nil
}

func (s *liveSession) keepAlive(ctx context.Context) {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.connMu.Lock()
			if s.conn == nil {
				s.connMu.Unlock()
				return
			}
			if time.Since(s.lastMsgTs) >= keepAliveInterval {
				if err := s.conn.WriteJSON(struct {
					Type string `json:"type"`
				}{Type: "KeepAlive"}); err != nil {
					log.Println("Failed to write to deepgram client", "error", err)
				}
			}
			s.connMu.Unlock()
		}
	}
}

func (s *liveSession) readAndProcessMessages(ctx context.Context, conn *websocket.Conn) {
	defer s.fireEnded()

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			s.connMu.Lock()
			s.conn = nil
			s.connMu.Unlock()
			conn.Close()

			if s.aborted.Load() || err.Error() == "websocket: close 1000 (normal)" {
				return
			}

			s.fireError(recognition.EngineError{Reason: recognition.ReasonNetwork, Err: err})
			return
		}
		if msgType != websocket.BinaryMessage {
			if done := s.processMessage(ctx, msg); done {
				s.connMu.Lock()
				s.conn = nil
				s.connMu.Unlock()
				conn.Close()
				return
			}
		}
	}
}

// processMessage translates one Deepgram control message into recognition
// callbacks. It reports true when the utterance is complete.
func (s *liveSession) processMessage(_ context.Context, msg []byte) bool {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		log.Println("Failed to unmarshal deepgram message", "error", err)
		return false
	}

	switch api.TypeResponse(parsedMsg.Type) {
	case api.TypeMessageResponse:
		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return false
		}

		if len(msgResp.Channel.Alternatives) == 0 {
			return false
		}

		alternatives := make([]string, 0, len(msgResp.Channel.Alternatives))
		for _, alternative := range msgResp.Channel.Alternatives {
			alternatives = append(alternatives, strings.TrimSpace(alternative.Transcript))
		}
		if alternatives[0] == "" {
			return false
		}

		s.fireResult(recognition.Result{
			Transcript:   alternatives[0],
			Alternatives: alternatives,
			IsFinal:      msgResp.IsFinal,
		})

	case api.TypeUtteranceEndResponse:
		var msgResp api.UtteranceEndResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return false
		}

		_ = s.Stop()
		return true

	case api.TypeSpeechStartedResponse:
		var msgResp api.SpeechStartedResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return false
		}

		s.fireStarted()
	}

	return false
}

func (s *liveSession) fireStarted() {
	if s.options.StartedCallback != nil {
		s.options.StartedCallback()
	}
}

func (s *liveSession) fireResult(result recognition.Result) {
	if s.options.ResultCallback != nil {
		s.options.ResultCallback(result)
	}
}

func (s *liveSession) fireError(engineErr recognition.EngineError) {
	if s.options.ErrorCallback != nil {
		s.options.ErrorCallback(engineErr)
	}
}

func (s *liveSession) fireEnded() {
	s.endOnce.Do(func() {
		if s.options.EndedCallback != nil {
			s.options.EndedCallback()
		}
	})
}
