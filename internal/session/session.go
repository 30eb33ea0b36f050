// Package session ties the per-call pipeline together: turn gate, utterance
// segmentation, transcription, intent classification, dialogue state machine
// and paced playback. One Session exists per connected call and is owned by
// that connection's event loop.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ai-voice-dialog-service/internal/audio"
	"ai-voice-dialog-service/internal/events"
	"ai-voice-dialog-service/internal/models"
	"ai-voice-dialog-service/internal/observability/metrics"
	"ai-voice-dialog-service/internal/service/dialog"
	"ai-voice-dialog-service/internal/service/intent"
	"ai-voice-dialog-service/internal/service/playback"
	"ai-voice-dialog-service/internal/service/segmenter"
	"ai-voice-dialog-service/internal/service/stt"
	"ai-voice-dialog-service/internal/service/tts"
	"ai-voice-dialog-service/internal/service/turn"
)

// ErrCallEnded signals the transport that the dialogue decided to hang up.
// It is a normal termination, not a failure.
var ErrCallEnded = errors.New("call ended")

// Config holds the per-session tunables, supplied at construction time.
type Config struct {
	SampleRate      int
	FrameBytes      int
	SpeechThreshold float64
	MinSpeechFrames int
	SilenceFrames   int
	StartDelay      time.Duration
	PostSpeechDelay time.Duration

	RetryCeiling int
	MinWords     int
	Language     string

	// Accumulate combines incomplete utterances into a pending text buffer
	// before classification instead of classifying each independently.
	Accumulate bool

	// Provider labels for metrics.
	STTProvider string
	TTSProvider string
}

// Deps are the collaborators a session consumes through narrow interfaces.
type Deps struct {
	Sink      playback.Sink
	STT       stt.Transcriber
	TTS       tts.Synthesizer
	Publisher *events.Publisher
	Metrics   *metrics.Metrics
	IDs       *segmenter.IDGenerator
	Tables    *intent.Tables
}

// Session is the state of one call.
//
// All methods except the turn gate must be called from a single event loop;
// the transcription/synthesis round trip happens inline, so a new inbound
// frame is never processed while a collaborator call is outstanding.
type Session struct {
	id  string
	cfg Config
	log zerolog.Logger

	sink playback.Sink
	sttp stt.Transcriber
	ttsp tts.Synthesizer
	pub  *events.Publisher
	met  *metrics.Metrics
	ids  *segmenter.IDGenerator

	gate    *turn.Gate
	seg     *segmenter.Segmenter
	clf     *intent.Classifier
	machine *dialog.Machine
	sched   *playback.Scheduler

	inbound    []byte // partial transport frame assembly
	pending    string // accumulated normalized text awaiting completion
	utterances int
	startedAt  time.Time
	closed     bool
}

// New creates a session for one accepted connection.
func New(id string, cfg Config, deps Deps, logger zerolog.Logger) *Session {
	vad := audio.NewDetector(cfg.SpeechThreshold)
	return &Session{
		id:   id,
		cfg:  cfg,
		log:  logger,
		sink: deps.Sink,
		sttp: deps.STT,
		ttsp: deps.TTS,
		pub:  deps.Publisher,
		met:  deps.Metrics,
		ids:  deps.IDs,
		gate: turn.NewGate(),
		seg: segmenter.New(vad, segmenter.Config{
			MinSpeechFrames:    cfg.MinSpeechFrames,
			SilenceFramesToEnd: cfg.SilenceFrames,
		}),
		clf: intent.NewClassifier(deps.Tables, intent.Config{
			MinWords:      cfg.MinWords,
			MinWordLength: 2,
		}),
		machine:   dialog.New(deps.Tables, cfg.RetryCeiling),
		sched:     playback.New(cfg.FrameBytes, cfg.PostSpeechDelay),
		startedAt: time.Now(),
	}
}

// ID returns the call ID.
func (s *Session) ID() string { return s.id }

// Speaking reports whether the turn gate is currently closed.
func (s *Session) Speaking() bool { return s.gate.Speaking() }

// HandleStart reacts to the transport's start signal: speak the pitch once
// and begin listening. Duplicate start signals are a no-op.
func (s *Session) HandleStart(ctx context.Context) error {
	lines, ok := s.machine.Start()
	if !ok {
		s.log.Debug().Msg("Duplicate start signal ignored")
		return nil
	}

	s.met.RecordCallStart()
	s.publishLifecycle(ctx, models.CallStarted{
		EventType: "call.started",
		CallID:    s.id,
		Campaign:  "default",
		Timestamp: time.Now().UnixMilli(),
	})
	s.log.Info().Msg("Call started, speaking pitch")

	// Let the bridge's media channel open before the first audio.
	if s.cfg.StartDelay > 0 {
		select {
		case <-time.After(s.cfg.StartDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return s.speak(ctx, lines)
}

// HandleMedia reacts to one inbound media payload. Payloads are reassembled
// into fixed-size frames before segmentation; frames arriving while the bot
// is speaking are discarded, never segmented.
func (s *Session) HandleMedia(ctx context.Context, payload []byte) error {
	if s.machine.State() == dialog.StateEnded {
		return nil
	}
	s.met.RecordFrameReceived(len(payload))

	if s.gate.Speaking() {
		s.met.RecordFrameDiscarded()
		return nil
	}

	s.inbound = append(s.inbound, payload...)
	for len(s.inbound) >= s.cfg.FrameBytes {
		frame := s.inbound[:s.cfg.FrameBytes]
		s.inbound = s.inbound[s.cfg.FrameBytes:]

		d := s.seg.Observe(frame)
		switch d.Kind {
		case segmenter.KindReady:
			s.met.RecordUtterance()
			if err := s.onUtterance(ctx, d.Utterance); err != nil {
				return err
			}
		case segmenter.KindDiscard:
			s.met.RecordUtteranceDiscarded()
		}
	}
	return nil
}

// Close tears the session down. Safe to call more than once; only the first
// reason is published.
func (s *Session) Close(reason string) {
	if s.closed {
		return
	}
	s.closed = true
	s.machine.End()

	duration := time.Since(s.startedAt)
	s.met.RecordCallEnd(reason, duration.Seconds())
	s.publishLifecycle(context.Background(), models.CallEnded{
		EventType:  "call.ended",
		CallID:     s.id,
		Reason:     reason,
		Utterances: s.utterances,
		StepIndex:  s.machine.StepIndex(),
		DurationMs: duration.Milliseconds(),
		Timestamp:  time.Now().UnixMilli(),
	})
	s.log.Info().
		Str("reason", reason).
		Int("utterances", s.utterances).
		Dur("duration", duration).
		Msg("Call ended")
}

// onUtterance runs the transcription round trip and dialogue reaction for
// one complete utterance.
func (s *Session) onUtterance(ctx context.Context, pcm []byte) error {
	s.utterances++
	utteranceID := s.ids.Next(s.id)
	ulog := s.log.With().Str("utteranceId", utteranceID).Logger()

	text := s.transcribe(ctx, pcm)

	var res intent.Result
	if text == "" {
		// Transient recognition failure: recovered via the retry ceiling.
		res = intent.Result{Intent: intent.Unmatched}
	} else {
		if s.cfg.Accumulate && s.pending != "" {
			text = s.pending + " " + text
		}
		res = s.clf.Classify(text)
		if res.Intent == intent.Incomplete && s.cfg.Accumulate {
			s.pending = s.clf.Normalize(text)
		} else {
			s.pending = ""
		}
		ulog.Info().Str("text", text).Str("intent", res.Intent.String()).Msg("USER")
	}

	s.met.RecordIntent(res.Intent.String())
	s.publishTranscript(ctx, models.CallTranscript{
		EventType:   "call.transcript",
		CallID:      s.id,
		UtteranceID: utteranceID,
		Text:        text,
		Intent:      res.Intent.String(),
		StepIndex:   s.machine.StepIndex(),
		Timestamp:   time.Now().UnixMilli(),
	})

	act := s.machine.React(res)
	if res.Intent == intent.Unmatched && s.machine.RetryCount() >= s.cfg.RetryCeiling {
		s.met.RecordRetriesExhausted()
	}

	if len(act.Lines) > 0 {
		if err := s.speak(ctx, act.Lines); err != nil {
			return err
		}
	}
	if act.End {
		s.Close("declined")
		return ErrCallEnded
	}
	return nil
}

// speak synthesizes and plays the lines in order, holding the turn gate
// closed until the last frame and the trailing pacing delay are done. A
// synthesis failure skips that line; a sink failure tears the session down.
func (s *Session) speak(ctx context.Context, lines []string) error {
	if err := s.gate.BeginSpeaking(); err != nil {
		return err
	}
	defer s.gate.EndSpeaking()

	// Drop any partial segmentation window: it predates our own audio and
	// can no longer be trusted.
	s.seg.Reset()

	for _, line := range lines {
		s.log.Info().Str("text", line).Msg("BOT")

		start := time.Now()
		pcm, err := s.ttsp.Synthesize(ctx, line, s.cfg.Language)
		s.met.RecordTTS(s.cfg.TTSProvider, err, time.Since(start).Seconds())
		if err != nil {
			// Skip the line rather than crash the call.
			s.log.Warn().Err(err).Msg("Synthesis failed, skipping line")
			continue
		}

		frames, err := s.sched.Play(ctx, s.sink, pcm)
		s.met.RecordPlayback(frames)
		if err != nil {
			return err
		}
	}
	return nil
}

// transcribe wraps the utterance in a WAV container and sends it to the STT
// collaborator. Failures are absorbed: they come back as empty text.
func (s *Session) transcribe(ctx context.Context, pcm []byte) string {
	wav := audio.EncodeWAV(pcm, s.cfg.SampleRate)

	start := time.Now()
	text, err := s.sttp.Transcribe(ctx, wav, s.cfg.Language)
	s.met.RecordSTT(s.cfg.STTProvider, err, time.Since(start).Seconds())
	if err != nil {
		s.log.Warn().Err(err).Msg("Transcription failed, treating as not understood")
		return ""
	}
	return strings.TrimSpace(text)
}

func (s *Session) publishTranscript(ctx context.Context, ev models.CallTranscript) {
	if err := s.pub.PublishTranscript(ctx, s.id, ev); err != nil {
		s.log.Warn().Err(err).Str("utteranceId", ev.UtteranceID).Msg("Failed to publish transcript")
	}
}

func (s *Session) publishLifecycle(ctx context.Context, ev any) {
	if err := s.pub.PublishLifecycle(ctx, s.id, ev); err != nil {
		s.log.Warn().Err(err).Msg("Failed to publish lifecycle event")
	}
}
