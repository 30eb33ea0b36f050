// Package tts defines the interface for Text-to-Speech adapters.
package tts

import "context"

// Synthesizer converts text into raw 16-bit mono PCM at the session sample
// rate. A failure means the line is skipped, never that the call dies.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}
