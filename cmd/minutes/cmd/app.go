package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
	"google.golang.org/genai"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/media"
	"github.com/nguyentantai21042004/minutes-flow/internal/session"
	"github.com/nguyentantai21042004/minutes-flow/internal/speech"
	"github.com/nguyentantai21042004/minutes-flow/internal/summarizer"
	"github.com/nguyentantai21042004/minutes-flow/internal/transcriber"
	"github.com/nguyentantai21042004/minutes-flow/pkg/executor"
)

// app holds the process-wide dependencies, built once and shared by every session
type app struct {
	cfg          *config.Config
	log          logger.Logger
	orchestrator session.Orchestrator
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info(ctx, "System: %s/%s, CPU cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	log.Info(ctx, "Transcription backend: %s (chunk %ds, workers %d), summary: %s/%s",
		cfg.Transcribe.Backend, cfg.Transcribe.ChunkLengthSec, cfg.Transcribe.Workers,
		cfg.Summary.Provider, cfg.Summary.Model)

	keys, err := cfg.APIKeys()
	if err != nil {
		return nil, err
	}

	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	exec := executor.New()

	var openaiClient *openai.Client
	if keys.OpenAI != "" {
		openaiClient = openai.NewClient(keys.OpenAI)
	}

	var recognizer speech.Recognizer
	switch cfg.Transcribe.Backend {
	case config.BackendOpenAI:
		recognizer = speech.NewOpenAI(openaiClient, cfg.Transcribe.OpenAIModel)
	default:
		if _, err := os.Stat(cfg.Transcribe.ModelPath); err != nil {
			log.Warn(ctx, "Speech model not found at %s: %v", cfg.Transcribe.ModelPath, err)
		}
		recognizer = speech.NewWhisperCPP(cfg.Transcribe, exec, log)
	}

	var sum summarizer.Summarizer
	switch cfg.Summary.Provider {
	case config.ProviderOpenAI:
		sum = summarizer.NewOpenAI(openaiClient, cfg.Summary, log)
	default:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  keys.Gemini,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		sum = summarizer.NewGemini(client, cfg.Summary, log)
	}

	orch := session.New(
		cfg,
		media.New(cfg.FFmpeg, exec, log),
		transcriber.New(recognizer, cfg.Transcribe, cfg.Paths.Temp, log),
		sum,
		log,
	)

	return &app{cfg: cfg, log: log, orchestrator: orch}, nil
}

// loadConfig reads the config file; a missing default file falls back to built-in defaults
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err == nil {
		return cfg, nil
	}
	if f := cmd.Flag("config"); !errors.Is(err, os.ErrNotExist) || (f != nil && f.Changed) {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg = &config.Config{}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
		cfg.Paths.Temp,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
