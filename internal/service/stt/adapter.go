// Package stt defines the interface for Speech-to-Text adapters.
package stt

import "context"

// Transcriber converts a finite WAV buffer into text. A failed or empty
// recognition returns ("", err) or ("", nil); callers treat both as "no
// speech understood" and must never surface them as fatal.
type Transcriber interface {
	// Transcribe returns the best-effort transcript for the buffer.
	Transcribe(ctx context.Context, wav []byte, language string) (string, error)
}
