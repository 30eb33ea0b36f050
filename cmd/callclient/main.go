package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"ai-voice-dialog-service/internal/audio"
	"ai-voice-dialog-service/internal/transport/ws"
)

// Stream audio in frame-sized chunks to simulate a live call.
// At 16kHz 16-bit mono = 32000 bytes/second, a 3200-byte frame is 100ms.
const frameBytes = 3200
const frameIntervalMs = 100

// Trailing silence pushed after the file so the utterance boundary fires.
const silenceFrames = 12

func main() {
	audioFile := flag.String("audio", "testdata/sample-16khz.wav", "Path to WAV file (16kHz 16-bit mono)")
	serverURL := flag.String("url", "ws://localhost:10000/ws", "Bridge websocket URL")
	streamSID := flag.String("stream", "client-"+time.Now().Format("150405"), "Stream SID")
	flag.Parse()

	data, err := os.ReadFile(*audioFile)
	if err != nil {
		log.Fatalf("Failed to read audio file: %v", err)
	}
	info, pcm, err := audio.DecodeWAV(data)
	if err != nil {
		log.Fatalf("Not a valid WAV file: %v", err)
	}
	log.Printf("WAV file: channels=%d sampleRate=%d bitsPerSample=%d bytes=%d",
		info.Channels, info.SampleRate, info.BitsPerSample, len(pcm))
	if info.SampleRate != 16000 {
		log.Printf("Warning: Sample rate is %d Hz, expected 16000 Hz", info.SampleRate)
	}

	conn, _, err := websocket.DefaultDialer.Dial(*serverURL, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()
	log.Printf("Connected to %s", *serverURL)

	// Reader side: count the bot's audio as it arrives.
	done := make(chan struct{})
	go func() {
		defer close(done)
		var botBytes int
		for {
			var env ws.Envelope
			if err := conn.ReadJSON(&env); err != nil {
				log.Printf("Connection closed: %v (received %d bot audio bytes)", err, botBytes)
				return
			}
			if env.Event != ws.EventMedia {
				continue
			}
			frame, err := env.PCM()
			if err != nil {
				log.Printf("Bad bot payload: %v", err)
				continue
			}
			botBytes += len(frame)
			log.Printf("Bot audio: %d bytes (%d total)", len(frame), botBytes)
		}
	}()

	if err := conn.WriteJSON(ws.Envelope{Event: ws.EventStart, StreamSID: *streamSID}); err != nil {
		log.Fatalf("Failed to send start: %v", err)
	}
	log.Printf("Streaming call: streamSid=%s", *streamSID)

	var totalBytes int
	var frameNum int
	startTime := time.Now()

	sendFrame := func(frame []byte) {
		if err := conn.WriteJSON(ws.MediaEnvelope(*streamSID, frame)); err != nil {
			log.Fatalf("Failed to send frame: %v", err)
		}
		time.Sleep(frameIntervalMs * time.Millisecond)
	}

	for off := 0; off < len(pcm); off += frameBytes {
		end := off + frameBytes
		if end > len(pcm) {
			end = len(pcm)
		}
		frameNum++
		totalBytes += end - off
		sendFrame(pcm[off:end])

		if frameNum%10 == 0 {
			log.Printf("Sent frame %d (%d bytes total)", frameNum, totalBytes)
		}
	}

	// Silence tail lets the segmenter confirm the utterance.
	silence := make([]byte, frameBytes)
	for i := 0; i < silenceFrames; i++ {
		sendFrame(silence)
	}

	log.Printf("Finished streaming: %d frames, %d bytes in %v", frameNum, totalBytes, time.Since(startTime))

	// Wait for the bot's reply, then hang up.
	select {
	case <-done:
	case <-time.After(15 * time.Second):
		log.Println("Timed out waiting for the bot, hanging up")
	}
	_ = conn.WriteJSON(ws.Envelope{Event: ws.EventStop, StreamSID: *streamSID})
}
