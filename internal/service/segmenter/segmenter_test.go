package segmenter

import (
	"bytes"
	"sync"
	"testing"
)

// stubDetector classifies frames by their first byte: 1 = speech, 0 = silence.
type stubDetector struct{}

func (stubDetector) IsSpeech(frame []byte) bool {
	return len(frame) > 0 && frame[0] == 1
}

func speechFrame(fill byte) []byte { return []byte{1, fill, fill, fill} }
func silenceFrame() []byte         { return []byte{0, 0, 0, 0} }

func newTestSegmenter() *Segmenter {
	return New(stubDetector{}, Config{MinSpeechFrames: 3, SilenceFramesToEnd: 4})
}

func TestObserve_SilenceNeverEmits(t *testing.T) {
	s := newTestSegmenter()

	for i := 0; i < 100; i++ {
		d := s.Observe(silenceFrame())
		if d.Kind == KindReady {
			t.Fatalf("frame %d: silence-only stream emitted an utterance", i)
		}
	}
}

func TestObserve_SpeechThenSilenceEmitsOnce(t *testing.T) {
	s := newTestSegmenter()

	var want []byte
	for i := 0; i < 5; i++ {
		f := speechFrame(byte(i))
		want = append(want, f...)
		if d := s.Observe(f); d.Kind != KindContinue {
			t.Fatalf("speech frame %d: expected CONTINUE, got %s", i, d.Kind)
		}
	}

	var ready int
	var got []byte
	for i := 0; i < 10; i++ {
		d := s.Observe(silenceFrame())
		if d.Kind == KindReady {
			ready++
			got = d.Utterance
		}
	}

	if ready != 1 {
		t.Fatalf("expected exactly one READY, got %d", ready)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("utterance bytes mismatch: got %d bytes, want %d", len(got), len(want))
	}
}

func TestObserve_EmitsOnExactThresholds(t *testing.T) {
	s := newTestSegmenter()

	for i := 0; i < 3; i++ { // exactly MinSpeechFrames
		s.Observe(speechFrame(0xaa))
	}
	for i := 0; i < 3; i++ { // one short of SilenceFramesToEnd
		if d := s.Observe(silenceFrame()); d.Kind != KindContinue {
			t.Fatalf("silence frame %d: expected CONTINUE, got %s", i, d.Kind)
		}
	}
	if d := s.Observe(silenceFrame()); d.Kind != KindReady {
		t.Fatalf("expected READY at silence threshold, got %s", d.Kind)
	}
}

func TestObserve_SilenceDoesNotResetSpeechCounter(t *testing.T) {
	s := newTestSegmenter()

	// Speech interleaved with sub-threshold pauses still accumulates.
	s.Observe(speechFrame(1))
	s.Observe(silenceFrame())
	s.Observe(speechFrame(2))
	s.Observe(silenceFrame())
	s.Observe(speechFrame(3))

	var ready bool
	for i := 0; i < 4; i++ {
		if d := s.Observe(silenceFrame()); d.Kind == KindReady {
			ready = true
			if len(d.Utterance) != 12 {
				t.Errorf("expected 3 speech frames (12 bytes), got %d bytes", len(d.Utterance))
			}
		}
	}
	if !ready {
		t.Error("interleaved pauses must not reset the speech counter")
	}
}

func TestObserve_ShortNoiseBurstDiscarded(t *testing.T) {
	s := newTestSegmenter()

	// Two speech frames: below MinSpeechFrames.
	s.Observe(speechFrame(0xff))
	s.Observe(speechFrame(0xff))

	var discards, readies int
	for i := 0; i < 8; i++ {
		switch s.Observe(silenceFrame()).Kind {
		case KindDiscard:
			discards++
		case KindReady:
			readies++
		}
	}

	if readies != 0 {
		t.Error("noise burst below MinSpeechFrames must never be emitted")
	}
	if discards != 1 {
		t.Errorf("expected exactly one DISCARD, got %d", discards)
	}
}

func TestObserve_ResetBetweenUtterances(t *testing.T) {
	s := newTestSegmenter()

	emit := func(fill byte) []byte {
		t.Helper()
		for i := 0; i < 3; i++ {
			s.Observe(speechFrame(fill))
		}
		for i := 0; i < 4; i++ {
			if d := s.Observe(silenceFrame()); d.Kind == KindReady {
				return d.Utterance
			}
		}
		t.Fatal("no utterance emitted")
		return nil
	}

	first := emit(0x11)
	second := emit(0x22)

	if bytes.Contains(second, first[:4]) {
		t.Error("second utterance contains bytes from the first; accumulator not reset")
	}
	if s.Buffered() != 0 {
		t.Errorf("expected empty accumulator after boundary, got %d bytes", s.Buffered())
	}
}

func TestIDGenerator_Next(t *testing.T) {
	gen := NewIDGenerator()

	if got := gen.Next("call-123"); got != "call-123-utt-1" {
		t.Errorf("expected 'call-123-utt-1', got %s", got)
	}
	if got := gen.Next("call-123"); got != "call-123-utt-2" {
		t.Errorf("expected 'call-123-utt-2', got %s", got)
	}
}

func TestIDGenerator_ThreadSafety(t *testing.T) {
	gen := NewIDGenerator()
	numGoroutines := 100
	resultsPerGoroutine := 10

	var wg sync.WaitGroup
	results := make(chan string, numGoroutines*resultsPerGoroutine)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < resultsPerGoroutine; j++ {
				results <- gen.Next("call-concurrent")
			}
		}()
	}

	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for id := range results {
		if seen[id] {
			t.Errorf("duplicate utterance ID generated: %s", id)
		}
		seen[id] = true
	}
	if len(seen) != numGoroutines*resultsPerGoroutine {
		t.Errorf("expected %d unique IDs, got %d", numGoroutines*resultsPerGoroutine, len(seen))
	}
}
