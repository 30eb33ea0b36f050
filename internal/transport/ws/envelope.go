// Package ws implements the telephony bridge endpoint: a websocket carrying
// JSON event envelopes with base64-encoded 16-bit mono PCM payloads.
package ws

import (
	"encoding/base64"
	"encoding/json"
)

// Event names on the bridge.
const (
	EventStart = "start"
	EventMedia = "media"
	EventStop  = "stop"
)

// MediaPayload carries one base64-encoded PCM chunk.
type MediaPayload struct {
	Payload string `json:"payload"`
}

// Envelope is the JSON event envelope exchanged with the telephony bridge.
// Unknown event types are ignored by the handler; additional fields the
// bridge sends are dropped on decode.
type Envelope struct {
	Event     string        `json:"event"`
	StreamSID string        `json:"stream_sid,omitempty"`
	Media     *MediaPayload `json:"media,omitempty"`
}

// DecodeEnvelope parses one inbound text message.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(data, &env)
	return env, err
}

// PCM decodes the envelope's media payload. Returns nil when the envelope
// has no media block.
func (e Envelope) PCM() ([]byte, error) {
	if e.Media == nil {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(e.Media.Payload)
}

// MediaEnvelope builds an outbound media envelope for one playback frame.
func MediaEnvelope(streamSID string, pcm []byte) Envelope {
	return Envelope{
		Event:     EventMedia,
		StreamSID: streamSID,
		Media:     &MediaPayload{Payload: base64.StdEncoding.EncodeToString(pcm)},
	}
}
