// Package turn provides the per-session mutual-exclusion gate between the
// bot speaking and the caller being listened to.
package turn

import (
	"errors"
	"sync"
)

// Errors for invalid gate transitions.
var (
	ErrAlreadySpeaking = errors.New("gate is already closed for speaking")
	ErrNotSpeaking     = errors.New("gate is not closed")
)

// Gate is the binary turn state of one session.
//
// While closed (bot speaking), inbound frames must be discarded rather than
// segmented: the bot must not hear itself, and caller speech overlapping a
// response must not corrupt an in-flight utterance. The gate is strictly
// binary - no nested or concurrent speaking for one session.
//
// Thread-safe: playback completion may be signalled from a different
// goroutine than frame ingestion.
type Gate struct {
	mu       sync.Mutex
	speaking bool
}

// NewGate creates an open gate.
func NewGate() *Gate {
	return &Gate{}
}

// BeginSpeaking closes the gate for a speaking turn. Returns
// ErrAlreadySpeaking if a turn is already in progress.
func (g *Gate) BeginSpeaking() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.speaking {
		return ErrAlreadySpeaking
	}
	g.speaking = true
	return nil
}

// EndSpeaking reopens the gate. Must only be called after every frame of the
// response has been scheduled and the trailing pacing delay has elapsed.
func (g *Gate) EndSpeaking() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.speaking {
		return ErrNotSpeaking
	}
	g.speaking = false
	return nil
}

// Speaking reports whether the gate is closed.
func (g *Gate) Speaking() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.speaking
}
