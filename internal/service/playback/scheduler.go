// Package playback paces synthesized audio back onto the transport in
// fixed-size frames.
package playback

import (
	"context"
	"fmt"
	"time"
)

// Sink receives outbound PCM frames, in order. The transport implementation
// wraps each frame in the wire envelope.
type Sink interface {
	WriteFrame(frame []byte) error
}

// Scheduler splits a synthesized buffer into transport-sized frames and
// emits them strictly in order, then holds for a trailing pacing delay so
// the far end finishes hearing the line before the gate reopens.
type Scheduler struct {
	frameBytes int
	pacing     time.Duration
}

// New creates a scheduler emitting frames of frameBytes with the given
// trailing delay.
func New(frameBytes int, pacing time.Duration) *Scheduler {
	return &Scheduler{frameBytes: frameBytes, pacing: pacing}
}

// Play emits the buffer and returns the number of frames written. A sink
// error abandons the remaining frames: the connection is gone and there is
// nothing to retry. The pacing delay runs only after a fully played buffer
// and is cut short by context cancellation.
func (s *Scheduler) Play(ctx context.Context, sink Sink, pcm []byte) (int, error) {
	frames := 0
	for off := 0; off < len(pcm); off += s.frameBytes {
		end := off + s.frameBytes
		if end > len(pcm) {
			end = len(pcm)
		}
		if err := sink.WriteFrame(pcm[off:end]); err != nil {
			return frames, fmt.Errorf("write frame %d: %w", frames, err)
		}
		frames++
	}

	if len(pcm) > 0 {
		select {
		case <-time.After(s.pacing):
		case <-ctx.Done():
			return frames, ctx.Err()
		}
	}
	return frames, nil
}

// FrameCount returns how many frames Play would emit for a buffer.
func (s *Scheduler) FrameCount(n int) int {
	return (n + s.frameBytes - 1) / s.frameBytes
}
