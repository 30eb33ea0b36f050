// Package mock provides a mock TTS adapter for testing without API
// credentials.
package mock

import (
	"context"
	"sync"
)

// BytesPerChar controls how much PCM the mock emits per character of input,
// so playback tests get deterministic, text-proportional buffers.
const BytesPerChar = 64

// Synthesizer implements tts.Synthesizer with deterministic fake PCM.
type Synthesizer struct {
	mu    sync.Mutex
	lines []string

	// Err, when set, is returned by every Synthesize call. Used to test
	// the skip-this-line failure path.
	Err error
}

// New creates a mock synthesizer.
func New() *Synthesizer {
	return &Synthesizer{}
}

// Synthesize records the line and returns a buffer proportional to its
// length.
func (s *Synthesizer) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	s.lines = append(s.lines, text)

	pcm := make([]byte, len(text)*BytesPerChar)
	for i := range pcm {
		pcm[i] = byte(i)
	}
	return pcm, nil
}

// Lines returns every line synthesized so far, in order.
func (s *Synthesizer) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

// Reset clears the recorded lines.
func (s *Synthesizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}
