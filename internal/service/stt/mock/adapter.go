// Package mock provides a mock STT adapter for testing without API
// credentials. It returns scripted transcripts in sequence, so a whole call
// can be driven without a recognizer.
package mock

import (
	"context"
	"sync"
)

// DefaultTranscripts is the scripted caller side of a demo call.
var DefaultTranscripts = []string{
	"what is the interest rate",
	"yes please guide me",
	"yes",
	"yes",
	"not interested",
}

// Adapter implements stt.Transcriber with scripted responses.
type Adapter struct {
	mu          sync.Mutex
	transcripts []string
	next        int

	// Err, when set, is returned by every Transcribe call. Used to test
	// the transient-failure path.
	Err error
}

// New creates a mock adapter cycling through the given transcripts, or
// DefaultTranscripts when none are supplied.
func New(transcripts ...string) *Adapter {
	if len(transcripts) == 0 {
		transcripts = DefaultTranscripts
	}
	return &Adapter{transcripts: transcripts}
}

// Transcribe ignores the audio and returns the next scripted transcript.
func (a *Adapter) Transcribe(ctx context.Context, wav []byte, language string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.Err != nil {
		return "", a.Err
	}
	if len(a.transcripts) == 0 {
		return "", nil
	}
	text := a.transcripts[a.next%len(a.transcripts)]
	a.next++
	return text, nil
}
