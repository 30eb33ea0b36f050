package ws

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"ai-voice-dialog-service/internal/config"
	"ai-voice-dialog-service/internal/events"
	"ai-voice-dialog-service/internal/observability/metrics"
	"ai-voice-dialog-service/internal/service/intent"
	"ai-voice-dialog-service/internal/service/segmenter"
	"ai-voice-dialog-service/internal/service/stt"
	"ai-voice-dialog-service/internal/service/tts"
	"ai-voice-dialog-service/internal/session"
)

// Handler upgrades bridge connections and runs one session per call.
type Handler struct {
	Cfg       *config.Config
	Logger    zerolog.Logger
	STT       stt.Transcriber
	TTS       tts.Synthesizer
	Publisher *events.Publisher
	Metrics   *metrics.Metrics
	IDs       *segmenter.IDGenerator
	Tables    *intent.Tables
}

// connSink adapts one websocket connection to the playback sink. The write
// mutex keeps frame writes whole; gorilla connections allow one concurrent
// writer only.
type connSink struct {
	mu        sync.Mutex
	conn      *websocket.Conn
	streamSID string
}

func (s *connSink) WriteFrame(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(MediaEnvelope(s.streamSID, frame))
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	sink := &connSink{conn: conn}
	log := h.Logger.With().Str("remoteAddr", r.RemoteAddr).Logger()
	log.Info().Msg("Bridge connected")

	var sess *session.Session
	ctx := r.Context()

	defer func() {
		if sess != nil {
			sess.Close("disconnected")
		}
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Msg("Bridge read failed")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		env, err := DecodeEnvelope(data)
		if err != nil {
			h.Metrics.RecordMalformedEvent()
			log.Debug().Err(err).Msg("Malformed bridge event dropped")
			continue
		}

		switch env.Event {
		case EventStart:
			if sess == nil {
				callID := env.StreamSID
				if callID == "" {
					callID = "call-" + randHex(8)
				}
				sink.streamSID = env.StreamSID
				sess = h.newSession(callID, sink)
				log = log.With().Str("callId", callID).Logger()
			}
			if err := sess.HandleStart(ctx); err != nil {
				h.hangup(conn, sess, err, log)
				return
			}

		case EventMedia:
			if sess == nil {
				// Media before start has no session to belong to.
				continue
			}
			pcm, err := env.PCM()
			if err != nil {
				h.Metrics.RecordMalformedEvent()
				log.Debug().Err(err).Msg("Bad media payload dropped")
				continue
			}
			if err := sess.HandleMedia(ctx, pcm); err != nil {
				h.hangup(conn, sess, err, log)
				return
			}

		case EventStop:
			if sess != nil {
				sess.Close("disconnected")
				sess = nil
			}
			return

		default:
			log.Debug().Str("event", env.Event).Msg("Unknown bridge event ignored")
		}
	}
}

func (h *Handler) newSession(callID string, sink *connSink) *session.Session {
	cfg := session.Config{
		SampleRate:      h.Cfg.Audio.SampleRate,
		FrameBytes:      h.Cfg.Audio.FrameBytes,
		SpeechThreshold: h.Cfg.Audio.SpeechThreshold,
		MinSpeechFrames: h.Cfg.Audio.MinSpeechFrames,
		SilenceFrames:   h.Cfg.Audio.SilenceFrames,
		StartDelay:      h.Cfg.Audio.StartDelay,
		PostSpeechDelay: h.Cfg.Audio.PostSpeechDelay,
		RetryCeiling:    h.Cfg.Dialog.RetryCeiling,
		MinWords:        h.Cfg.Dialog.MinWords,
		Language:        h.Cfg.Dialog.Language,
		Accumulate:      h.Cfg.Dialog.AccumulateTranscripts,
		STTProvider:     h.Cfg.STTProvider,
		TTSProvider:     h.Cfg.TTSProvider,
	}
	return session.New(callID, cfg, session.Deps{
		Sink:      sink,
		STT:       h.STT,
		TTS:       h.TTS,
		Publisher: h.Publisher,
		Metrics:   h.Metrics,
		IDs:       h.IDs,
		Tables:    h.Tables,
	}, h.Logger.With().Str("callId", callID).Logger())
}

// hangup closes the websocket after the dialogue (or a write failure) ended
// the call. A deliberate hang-up gets a normal close frame.
func (h *Handler) hangup(conn *websocket.Conn, sess *session.Session, err error, log zerolog.Logger) {
	if err == session.ErrCallEnded {
		log.Info().Msg("Dialogue complete, hanging up")
		deadline := time.Now().Add(2 * time.Second)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "call ended"), deadline)
		return
	}
	log.Warn().Err(err).Msg("Session failed")
	sess.Close("disconnected")
}

func randHex(nbytes int) string {
	b := make([]byte, nbytes)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
