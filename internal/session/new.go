package session

import (
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/nguyentantai21042004/minutes-flow/internal/audio"
	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

type implOrchestrator struct {
	cfg         *config.Config
	normalizer  Normalizer
	transcriber Transcriber
	summarizer  Summarizer
	logger      logger.Logger
	sem         *semaphore.Weighted
	newID       func() string
	// probe reports whether an audio upload can be transcribed without conversion
	probe func(path string) error
}

// New creates an Orchestrator. At most cfg.Performance.MaxConcurrent sessions run at once.
func New(cfg *config.Config, norm Normalizer, tr Transcriber, sum Summarizer, log logger.Logger) Orchestrator {
	maxConcurrent := cfg.Performance.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return &implOrchestrator{
		cfg:         cfg,
		normalizer:  norm,
		transcriber: tr,
		summarizer:  sum,
		logger:      log,
		sem:         semaphore.NewWeighted(int64(maxConcurrent)),
		newID:       func() string { return uuid.NewString() },
		probe:       audio.Probe,
	}
}
