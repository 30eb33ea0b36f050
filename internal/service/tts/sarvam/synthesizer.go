// Package sarvam provides a Sarvam AI text-to-speech adapter.
package sarvam

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the Sarvam API endpoint.
const DefaultBaseURL = "https://api.sarvam.ai"

var httpClient = &http.Client{
	Timeout: 10 * time.Second,
	Transport: &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 50,
		IdleConnTimeout:     60 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   3 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

// Synthesizer implements tts.Synthesizer against the Sarvam text-to-speech
// API, which returns base64 PCM at the requested sample rate.
type Synthesizer struct {
	apiKey     string
	baseURL    string
	sampleRate int
}

// New creates a Sarvam TTS adapter. baseURL may be empty to use the default.
func New(apiKey, baseURL string, sampleRate int) *Synthesizer {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Synthesizer{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		sampleRate: sampleRate,
	}
}

// Synthesize returns raw PCM for the given line.
func (s *Synthesizer) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{
		"text":                 text,
		"target_language_code": language,
		"speech_sample_rate":   strconv.Itoa(s.sampleRate),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/text-to-speech", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("api-subscription-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sarvam tts request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sarvam tts response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sarvam tts: status %d", resp.StatusCode)
	}

	var parsed struct {
		Audios []string `json:"audios"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("sarvam tts response: %w", err)
	}
	if len(parsed.Audios) == 0 {
		return nil, fmt.Errorf("sarvam tts: empty audio response")
	}

	pcm, err := base64.StdEncoding.DecodeString(parsed.Audios[0])
	if err != nil {
		return nil, fmt.Errorf("sarvam tts: decode audio: %w", err)
	}
	return pcm, nil
}
