// Package google provides a Google Cloud Speech-to-Text adapter.
package google

import (
	"context"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"

	"ai-voice-dialog-service/internal/audio"
)

// Adapter implements stt.Transcriber using Google Cloud Speech-to-Text.
// Utterances are short and already bounded by the segmenter, so the
// synchronous Recognize call is used rather than a streaming session.
type Adapter struct {
	client     *speech.Client
	sampleRate int
}

// New creates a new Google STT adapter.
// Requires GOOGLE_APPLICATION_CREDENTIALS environment variable to be set.
func New(ctx context.Context, sampleRate int) (*Adapter, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Adapter{client: c, sampleRate: sampleRate}, nil
}

// Transcribe recognizes a finite WAV buffer and returns the top alternative.
func (a *Adapter) Transcribe(ctx context.Context, wav []byte, language string) (string, error) {
	// Google expects raw samples; strip the container.
	_, pcm, err := audio.DecodeWAV(wav)
	if err != nil {
		return "", err
	}

	resp, err := a.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: int32(a.sampleRate),
			LanguageCode:    language,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: pcm},
		},
	})
	if err != nil {
		return "", err
	}

	for _, r := range resp.Results {
		if len(r.Alternatives) > 0 {
			return r.Alternatives[0].Transcript, nil
		}
	}
	return "", nil
}

// Close releases the underlying client.
func (a *Adapter) Close() error {
	return a.client.Close()
}
