package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestEncodeWAV_Header(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6}
	wav := EncodeWAV(pcm, 16000)

	if len(wav) != wavHeaderSize+len(pcm) {
		t.Fatalf("expected %d bytes, got %d", wavHeaderSize+len(pcm), len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Error("missing RIFF/WAVE markers")
	}
	if got := binary.LittleEndian.Uint32(wav[4:8]); got != uint32(36+len(pcm)) {
		t.Errorf("riff size: expected %d, got %d", 36+len(pcm), got)
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != 16000 {
		t.Errorf("sample rate: expected 16000, got %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != uint32(len(pcm)) {
		t.Errorf("data size: expected %d, got %d", len(pcm), got)
	}
	if !bytes.Equal(wav[wavHeaderSize:], pcm) {
		t.Error("payload does not match input PCM")
	}
}

func TestDecodeWAV_RoundTrip(t *testing.T) {
	pcm := pcmFrame(1234, 800)
	info, payload, err := DecodeWAV(EncodeWAV(pcm, 8000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.SampleRate != 8000 || info.Channels != 1 || info.BitsPerSample != 16 {
		t.Errorf("unexpected format info: %+v", info)
	}
	if !bytes.Equal(payload, pcm) {
		t.Error("payload does not round-trip")
	}
}

func TestDecodeWAV_Invalid(t *testing.T) {
	if _, _, err := DecodeWAV([]byte("too short")); err == nil {
		t.Error("expected error for short input")
	}

	bogus := make([]byte, wavHeaderSize)
	copy(bogus, "JUNK")
	if _, _, err := DecodeWAV(bogus); err == nil {
		t.Error("expected error for missing RIFF marker")
	}
}
