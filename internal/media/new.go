package media

import (
	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/pkg/executor"
)

type implNormalizer struct {
	cfg      config.FFmpegConfig
	executor executor.Executor
	logger   logger.Logger
}

// New creates a Normalizer backed by the ffmpeg binary in cfg
func New(cfg config.FFmpegConfig, exec executor.Executor, log logger.Logger) Normalizer {
	return &implNormalizer{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}
