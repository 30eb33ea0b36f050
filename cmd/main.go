package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-voice-dialog-service/internal/app"
	"ai-voice-dialog-service/internal/config"
	"ai-voice-dialog-service/internal/events"
	appHTTP "ai-voice-dialog-service/internal/http"
	"ai-voice-dialog-service/internal/observability"
	"ai-voice-dialog-service/internal/observability/metrics"
	"ai-voice-dialog-service/internal/service/intent"
	"ai-voice-dialog-service/internal/service/segmenter"
	"ai-voice-dialog-service/internal/service/stt"
	googlestt "ai-voice-dialog-service/internal/service/stt/google"
	sttmock "ai-voice-dialog-service/internal/service/stt/mock"
	sarvamstt "ai-voice-dialog-service/internal/service/stt/sarvam"
	"ai-voice-dialog-service/internal/service/tts"
	ttsmock "ai-voice-dialog-service/internal/service/tts/mock"
	sarvamtts "ai-voice-dialog-service/internal/service/tts/sarvam"
	"ai-voice-dialog-service/internal/transport/ws"
)

func main() {
	cfg := config.Load()
	application := app.New(cfg)
	logger := application.Logger

	if err := application.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Application start failed")
	}

	// Kafka publisher with separate topics for transcripts and call lifecycle
	publisher := events.New(&events.Config{
		Enabled:         cfg.Kafka.Enabled,
		Brokers:         cfg.Kafka.Brokers,
		TopicTranscript: cfg.Kafka.TopicTranscript,
		TopicLifecycle:  cfg.Kafka.TopicLifecycle,
		Principal:       cfg.Kafka.Principal,
	})
	defer publisher.Close()

	tables, err := loadTables(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Dialog.TablesPath).Msg("Failed to load campaign tables")
	}

	transcriber, err := newTranscriber(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.STTProvider).Msg("Failed to build STT provider")
	}
	synthesizer, err := newSynthesizer(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.TTSProvider).Msg("Failed to build TTS provider")
	}

	bridge := &ws.Handler{
		Cfg:       cfg,
		Logger:    logger.With().Str("component", "bridge").Logger(),
		STT:       transcriber,
		TTS:       synthesizer,
		Publisher: publisher,
		Metrics:   metrics.DefaultMetrics,
		IDs:       segmenter.NewIDGenerator(),
		Tables:    tables,
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: appHTTP.NewRouter(application, bridge),
	}

	obs := observability.NewServer(cfg.MetricsAddr)
	obs.Start()

	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("sttProvider", cfg.STTProvider).
			Str("ttsProvider", cfg.TTSProvider).
			Msg("Voice dialog service listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP serve failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("HTTP shutdown incomplete")
	}
	if err := obs.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("Observability shutdown incomplete")
	}
	application.Shutdown()
}

func loadTables(cfg *config.Config) (*intent.Tables, error) {
	if cfg.Dialog.TablesPath == "" {
		return intent.Default(), nil
	}
	return intent.Load(cfg.Dialog.TablesPath)
}

func newTranscriber(cfg *config.Config) (stt.Transcriber, error) {
	switch cfg.STTProvider {
	case "google":
		return googlestt.New(context.Background(), cfg.Audio.SampleRate)
	case "mock":
		return sttmock.New(), nil
	default:
		return sarvamstt.New(cfg.SarvamAPIKey, cfg.SarvamBaseURL), nil
	}
}

func newSynthesizer(cfg *config.Config) (tts.Synthesizer, error) {
	switch cfg.TTSProvider {
	case "mock":
		return ttsmock.New(), nil
	default:
		return sarvamtts.New(cfg.SarvamAPIKey, cfg.SarvamBaseURL, cfg.Audio.SampleRate), nil
	}
}
