// Package audio provides PCM frame utilities: energy-based voice activity
// detection and the WAV container codec used when handing audio to STT.
package audio

// Detector is an energy-based voice activity detector for little-endian
// 16-bit signed mono PCM frames. It is stateless; one Detector can be shared
// across sessions.
type Detector struct {
	threshold float64
}

// NewDetector creates a detector that classifies a frame as speech when the
// mean absolute sample amplitude exceeds threshold.
func NewDetector(threshold float64) *Detector {
	return &Detector{threshold: threshold}
}

// IsSpeech reports whether the frame contains speech. An odd trailing byte is
// ignored rather than treated as an error.
func (d *Detector) IsSpeech(frame []byte) bool {
	samples := len(frame) / 2
	if samples == 0 {
		return false
	}

	var energy int64
	for i := 0; i+1 < len(frame); i += 2 {
		s := int16(uint16(frame[i]) | uint16(frame[i+1])<<8)
		if s < 0 {
			energy -= int64(s)
		} else {
			energy += int64(s)
		}
	}

	return float64(energy)/float64(samples) > d.threshold
}
