// Package models defines the data structures for call events.
package models

// CallStarted is published when a call connects and the pitch is queued.
type CallStarted struct {
	EventType string `json:"eventType"`
	CallID    string `json:"callId"`
	Campaign  string `json:"campaign"`
	Timestamp int64  `json:"timestamp"`
}

// CallTranscript is published for every classified utterance.
type CallTranscript struct {
	EventType   string `json:"eventType"`
	CallID      string `json:"callId"`
	UtteranceID string `json:"utteranceId"`
	Text        string `json:"text"`
	Intent      string `json:"intent"`
	StepIndex   int    `json:"stepIndex"`
	Timestamp   int64  `json:"timestamp"`
}

// CallEnded is published when a call finishes, whatever the reason.
type CallEnded struct {
	EventType  string `json:"eventType"`
	CallID     string `json:"callId"`
	Reason     string `json:"reason"` // "completed", "declined", "disconnected"
	Utterances int    `json:"utterances"`
	StepIndex  int    `json:"stepIndex"`
	DurationMs int64  `json:"durationMs"`
	Timestamp  int64  `json:"timestamp"`
}
