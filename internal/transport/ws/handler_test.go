package ws

import (
	"encoding/binary"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"ai-voice-dialog-service/internal/config"
	"ai-voice-dialog-service/internal/events"
	"ai-voice-dialog-service/internal/observability/metrics"
	"ai-voice-dialog-service/internal/service/intent"
	"ai-voice-dialog-service/internal/service/segmenter"
	sttmock "ai-voice-dialog-service/internal/service/stt/mock"
	ttsmock "ai-voice-dialog-service/internal/service/tts/mock"
)

const testFrameBytes = 3200

func testHandlerConfig() *config.Config {
	return &config.Config{
		STTProvider: "mock",
		TTSProvider: "mock",
		Audio: config.AudioConfig{
			SampleRate:      16000,
			FrameBytes:      testFrameBytes,
			SpeechThreshold: 100,
			MinSpeechFrames: 2,
			SilenceFrames:   2,
			StartDelay:      0,
			PostSpeechDelay: time.Millisecond,
		},
		Dialog: config.DialogConfig{
			RetryCeiling: 2,
			MinWords:     3,
			Language:     "en-IN",
		},
	}
}

func newTestHandler(transcripts ...string) *Handler {
	return &Handler{
		Cfg:       testHandlerConfig(),
		Logger:    zerolog.Nop(),
		STT:       sttmock.New(transcripts...),
		TTS:       ttsmock.New(),
		Publisher: events.New(&events.Config{Enabled: false}),
		Metrics:   metrics.DefaultMetrics,
		IDs:       segmenter.NewIDGenerator(),
		Tables:    intent.Default(),
	}
}

func dialTest(t *testing.T, h *Handler) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(h)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial failed: %v", err)
	}
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

// readAudio collects outbound media envelopes until want PCM bytes arrived.
func readAudio(t *testing.T, conn *websocket.Conn, streamSID string, want int) []byte {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var pcm []byte
	for len(pcm) < want {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("read failed after %d/%d bytes: %v", len(pcm), want, err)
		}
		if env.Event != EventMedia {
			t.Fatalf("expected a media envelope, got %q", env.Event)
		}
		if env.StreamSID != streamSID {
			t.Errorf("expected stream_sid %q, got %q", streamSID, env.StreamSID)
		}
		frame, err := env.PCM()
		if err != nil {
			t.Fatalf("bad outbound payload: %v", err)
		}
		if len(frame) > testFrameBytes {
			t.Errorf("outbound frame exceeds the frame size: %d", len(frame))
		}
		pcm = append(pcm, frame...)
	}
	return pcm
}

func speechFrame() []byte {
	f := make([]byte, testFrameBytes)
	for i := 0; i < testFrameBytes; i += 2 {
		binary.LittleEndian.PutUint16(f[i:], 2000)
	}
	return f
}

// sendUtterance pushes one full utterance (speech then silence) as media
// envelopes.
func sendUtterance(t *testing.T, conn *websocket.Conn, streamSID string) {
	t.Helper()
	frames := [][]byte{speechFrame(), speechFrame(), make([]byte, testFrameBytes), make([]byte, testFrameBytes)}
	for _, f := range frames {
		if err := conn.WriteJSON(MediaEnvelope(streamSID, f)); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
}

func TestHandler_PitchThenDeclineHangsUp(t *testing.T) {
	h := newTestHandler("not interested")
	conn, cleanup := dialTest(t, h)
	defer cleanup()

	if err := conn.WriteJSON(Envelope{Event: EventStart, StreamSID: "stream-1"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	tables := intent.Default()
	pitch := readAudio(t, conn, "stream-1", len(tables.Pitch)*ttsmock.BytesPerChar)
	if len(pitch) != len(tables.Pitch)*ttsmock.BytesPerChar {
		t.Errorf("pitch audio length mismatch: %d", len(pitch))
	}

	sendUtterance(t, conn, "stream-1")
	readAudio(t, conn, "stream-1", len(tables.Closing)*ttsmock.BytesPerChar)

	// The dialogue decided to hang up: a normal close frame follows.
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var env Envelope
	err := conn.ReadJSON(&env)
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("expected a normal close, got %v (envelope %+v)", err, env)
	}
}

func TestHandler_IgnoresMalformedAndUnknownEvents(t *testing.T) {
	h := newTestHandler()
	conn, cleanup := dialTest(t, h)
	defer cleanup()

	// None of these may kill the connection or start a call.
	bad := []string{
		`{"event":`,
		`{"event":"mark","name":"checkpoint"}`,
		`{"event":"media","media":{"payload":"AAAA"}}`,
		`{"event":"media","media":{"payload":"!!!"}}`,
	}
	for _, msg := range bad {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	if err := conn.WriteJSON(Envelope{Event: EventStart, StreamSID: "stream-2"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	readAudio(t, conn, "stream-2", len(intent.Default().Pitch)*ttsmock.BytesPerChar)
}

func TestHandler_StopEndsTheCall(t *testing.T) {
	h := newTestHandler()
	conn, cleanup := dialTest(t, h)
	defer cleanup()

	if err := conn.WriteJSON(Envelope{Event: EventStart, StreamSID: "stream-3"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	readAudio(t, conn, "stream-3", len(intent.Default().Pitch)*ttsmock.BytesPerChar)

	if err := conn.WriteJSON(Envelope{Event: EventStop, StreamSID: "stream-3"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected the server to close the connection after stop")
	}
}

func TestHandler_DuplicateStartIsIgnored(t *testing.T) {
	h := newTestHandler()
	conn, cleanup := dialTest(t, h)
	defer cleanup()

	if err := conn.WriteJSON(Envelope{Event: EventStart, StreamSID: "stream-4"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := conn.WriteJSON(Envelope{Event: EventStart, StreamSID: "stream-4"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	want := len(intent.Default().Pitch) * ttsmock.BytesPerChar
	readAudio(t, conn, "stream-4", want)

	// No second pitch: the next read times out instead of delivering audio.
	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var env Envelope
	if err := conn.ReadJSON(&env); err == nil {
		t.Errorf("unexpected extra envelope after duplicate start: %+v", env)
	}
}
