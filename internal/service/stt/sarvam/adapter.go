// Package sarvam provides a Sarvam AI speech-to-text adapter over the HTTP
// file-upload API.
package sarvam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"ai-voice-dialog-service/internal/observability/logging"
)

// DefaultBaseURL is the Sarvam API endpoint.
const DefaultBaseURL = "https://api.sarvam.ai"

// httpClient is shared across sessions; transcription calls are short and
// frequent, so connections are pooled.
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

// Adapter implements stt.Transcriber against the Sarvam speech-to-text API.
type Adapter struct {
	apiKey  string
	baseURL string
}

// New creates a Sarvam STT adapter. baseURL may be empty to use the default.
func New(apiKey, baseURL string) *Adapter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Adapter{apiKey: apiKey, baseURL: strings.TrimRight(baseURL, "/")}
}

// Transcribe uploads the WAV buffer and returns the transcript.
func (a *Adapter) Transcribe(ctx context.Context, wav []byte, language string) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := part.Write(wav); err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}
	if err := w.WriteField("language_code", language); err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/speech-to-text", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("api-subscription-key", a.apiKey)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sarvam stt request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("sarvam stt response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		logger := logging.WithComponent("stt.sarvam")
		logger.Warn().
			Int("status", resp.StatusCode).
			Msg("STT request rejected")
		return "", fmt.Errorf("sarvam stt: status %d", resp.StatusCode)
	}

	var parsed struct {
		Transcript string `json:"transcript"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("sarvam stt response: %w", err)
	}
	return strings.TrimSpace(parsed.Transcript), nil
}
