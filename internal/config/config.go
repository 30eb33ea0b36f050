// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// AudioConfig holds the tunables of the audio pipeline. Frame size and rate
// must match what the telephony bridge sends.
type AudioConfig struct {
	SampleRate      int           // Hz, 16-bit mono PCM
	FrameBytes      int           // transport frame size in bytes
	SpeechThreshold float64       // mean absolute amplitude above which a frame is speech
	MinSpeechFrames int           // speech frames required before a boundary may emit
	SilenceFrames   int           // consecutive silence frames confirming a boundary
	StartDelay      time.Duration // settle time before the pitch, lets the media channel open
	PostSpeechDelay time.Duration // trailing pacing delay after the last playback frame
}

// DialogConfig holds the tunables of the conversation logic.
type DialogConfig struct {
	RetryCeiling          int    // failed recognitions before the clarifying menu
	MinWords              int    // substantive words required for a complete utterance
	Language              string // language tag passed to STT and TTS
	TablesPath            string // YAML campaign tables; empty = built-in default
	AccumulateTranscripts bool   // combine incomplete utterances before classifying
}

// KafkaConfig holds event publishing configuration.
type KafkaConfig struct {
	Enabled         bool
	Brokers         []string
	TopicTranscript string
	TopicLifecycle  string
	Principal       string
}

// Config is the process configuration.
type Config struct {
	Port        string // websocket bridge + health
	MetricsAddr string // observability HTTP server

	STTProvider string // "sarvam", "google", "mock"
	TTSProvider string // "sarvam", "mock"

	SarvamAPIKey  string
	SarvamBaseURL string

	Kafka  KafkaConfig
	Audio  AudioConfig
	Dialog DialogConfig
}

// Load reads configuration from the environment with production defaults.
func Load() *Config {
	return &Config{
		Port:        envOrDefault("PORT", "10000"),
		MetricsAddr: envOrDefault("METRICS_ADDR", ":9090"),

		STTProvider: envOrDefault("STT_PROVIDER", "sarvam"),
		TTSProvider: envOrDefault("TTS_PROVIDER", "sarvam"),

		SarvamAPIKey:  os.Getenv("SARVAM_API_KEY"),
		SarvamBaseURL: os.Getenv("SARVAM_BASE_URL"),

		Kafka: KafkaConfig{
			Enabled:         envBool("KAFKA_ENABLED", false),
			Brokers:         envList("KAFKA_BROKERS"),
			TopicTranscript: envOrDefault("KAFKA_TOPIC_TRANSCRIPT", "call.transcript"),
			TopicLifecycle:  envOrDefault("KAFKA_TOPIC_LIFECYCLE", "call.lifecycle"),
			Principal:       envOrDefault("KAFKA_PRINCIPAL", "svc-voice-dialog"),
		},

		Audio: AudioConfig{
			SampleRate:      envInt("AUDIO_SAMPLE_RATE", 16000),
			FrameBytes:      envInt("AUDIO_FRAME_BYTES", 3200),
			SpeechThreshold: envFloat("VAD_SPEECH_THRESHOLD", 520),
			MinSpeechFrames: envInt("MIN_SPEECH_FRAMES", 6),
			SilenceFrames:   envInt("SILENCE_FRAMES_TO_END", 10),
			StartDelay:      envDuration("START_DELAY", 300*time.Millisecond),
			PostSpeechDelay: envDuration("POST_SPEECH_DELAY", 600*time.Millisecond),
		},

		Dialog: DialogConfig{
			RetryCeiling:          envInt("DIALOG_RETRY_CEILING", 2),
			MinWords:              envInt("DIALOG_MIN_WORDS", 3),
			Language:              envOrDefault("DIALOG_LANGUAGE", "en-IN"),
			TablesPath:            os.Getenv("DIALOG_TABLES_PATH"),
			AccumulateTranscripts: envBool("DIALOG_ACCUMULATE_TRANSCRIPTS", false),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
