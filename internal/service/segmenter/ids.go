package segmenter

import (
	"fmt"
	"sync/atomic"
)

// IDGenerator issues process-unique utterance IDs for event tagging.
type IDGenerator struct {
	counter uint64
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns the next utterance ID for a call.
func (g *IDGenerator) Next(callID string) string {
	n := atomic.AddUint64(&g.counter, 1)
	return fmt.Sprintf("%s-utt-%d", callID, n)
}
