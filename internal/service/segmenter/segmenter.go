// Package segmenter turns a continuous stream of PCM frames into discrete
// utterances using voice activity detection and consecutive-frame counters.
package segmenter

import "fmt"

// Kind is the outcome of observing one frame.
type Kind int

const (
	// KindContinue - Nothing to do yet, keep feeding frames.
	KindContinue Kind = iota
	// KindReady - An utterance boundary was found; Decision.Utterance holds
	// the accumulated speech bytes.
	KindReady
	// KindDiscard - Trailing silence confirmed a boundary, but the window
	// never accumulated enough speech. Buffered noise was dropped.
	// "Silence > bad data"
	KindDiscard
)

// String returns the string representation of the decision kind.
func (k Kind) String() string {
	switch k {
	case KindContinue:
		return "CONTINUE"
	case KindReady:
		return "READY"
	case KindDiscard:
		return "DISCARD"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", k)
	}
}

// Decision is the result of Segmenter.Observe for a single frame.
type Decision struct {
	Kind      Kind
	Utterance []byte // set only when Kind == KindReady
}

// SpeechDetector classifies a single PCM frame as speech or silence.
type SpeechDetector interface {
	IsSpeech(frame []byte) bool
}

// Config holds the boundary thresholds, in frames.
type Config struct {
	// MinSpeechFrames is the number of speech frames an utterance must
	// accumulate before a boundary may be emitted.
	MinSpeechFrames int
	// SilenceFramesToEnd is the number of consecutive silence frames that
	// confirm the speaker has paused.
	SilenceFramesToEnd int
}

// Segmenter accumulates speech frames until trailing silence confirms an
// utterance boundary.
//
// The two counters are independent on purpose: silence after speech does NOT
// reset the speech counter, because trailing silence is the expected
// end-of-utterance signal. Short noise bursts never reach MinSpeechFrames and
// are absorbed at the next confirmed boundary.
//
// Not safe for concurrent use; each session owns exactly one Segmenter.
type Segmenter struct {
	vad SpeechDetector
	cfg Config

	speech        []byte
	speechFrames  int
	silenceFrames int
}

// New creates a Segmenter with the given detector and thresholds.
func New(vad SpeechDetector, cfg Config) *Segmenter {
	return &Segmenter{vad: vad, cfg: cfg}
}

// Observe feeds one frame and returns the boundary decision.
func (s *Segmenter) Observe(frame []byte) Decision {
	if s.vad.IsSpeech(frame) {
		s.speech = append(s.speech, frame...)
		s.speechFrames++
		s.silenceFrames = 0
		return Decision{Kind: KindContinue}
	}

	s.silenceFrames++
	if s.silenceFrames < s.cfg.SilenceFramesToEnd {
		return Decision{Kind: KindContinue}
	}

	// Boundary confirmed by trailing silence.
	if s.speechFrames >= s.cfg.MinSpeechFrames {
		utterance := s.speech
		s.Reset()
		return Decision{Kind: KindReady, Utterance: utterance}
	}

	hadAudio := len(s.speech) > 0
	s.Reset()
	if hadAudio {
		return Decision{Kind: KindDiscard}
	}
	return Decision{Kind: KindContinue}
}

// Buffered returns the number of speech bytes accumulated in the current
// window. Exposed for observability.
func (s *Segmenter) Buffered() int {
	return len(s.speech)
}

// Reset clears the accumulator and both counters. Called after every emitted
// or discarded boundary, and when a session's turn gate closes.
func (s *Segmenter) Reset() {
	s.speech = nil
	s.speechFrames = 0
	s.silenceFrames = 0
}
