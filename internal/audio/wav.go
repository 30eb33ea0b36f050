package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// wavHeaderSize is the size of a standard PCM WAV header.
const wavHeaderSize = 44

var ErrNotWAV = errors.New("not a valid WAV file")

// EncodeWAV wraps raw 16-bit mono PCM in a minimal WAV container so finite
// buffers can be posted to STT providers that expect a file upload.
func EncodeWAV(pcm []byte, sampleRate int) []byte {
	buf := make([]byte, 0, wavHeaderSize+len(pcm))

	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+len(pcm)))
	buf = append(buf, "WAVEfmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16) // fmt chunk size
	buf = binary.LittleEndian.AppendUint16(buf, 1)  // PCM
	buf = binary.LittleEndian.AppendUint16(buf, 1)  // mono
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate*2)) // byte rate
	buf = binary.LittleEndian.AppendUint16(buf, 2)                    // block align
	buf = binary.LittleEndian.AppendUint16(buf, 16)                   // bits per sample
	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(pcm)))
	buf = append(buf, pcm...)

	return buf
}

// WAVInfo describes the format of a parsed WAV header.
type WAVInfo struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// DecodeWAV validates a WAV header and returns the format info plus the raw
// PCM payload. Only uncompressed PCM is supported.
func DecodeWAV(data []byte) (WAVInfo, []byte, error) {
	if len(data) < wavHeaderSize {
		return WAVInfo{}, nil, ErrNotWAV
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return WAVInfo{}, nil, ErrNotWAV
	}

	format := binary.LittleEndian.Uint16(data[20:22])
	if format != 1 {
		return WAVInfo{}, nil, fmt.Errorf("unsupported WAV format %d: only PCM is supported", format)
	}

	info := WAVInfo{
		SampleRate:    int(binary.LittleEndian.Uint32(data[24:28])),
		Channels:      int(binary.LittleEndian.Uint16(data[22:24])),
		BitsPerSample: int(binary.LittleEndian.Uint16(data[34:36])),
	}
	return info, data[wavHeaderSize:], nil
}
