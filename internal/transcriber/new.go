package transcriber

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/speech"
)

type implTranscriber struct {
	recognizer speech.Recognizer
	logger     logger.Logger
	tempDir    string
	workers    int
	cache      *memo
	inflight   singleflight.Group

	mu      sync.Mutex
	flights map[string]*flight
}

// flight is the context of one shared transcription run and the number of callers waiting on it
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// New creates a Transcriber. Chunk files are written below tempDir and
// cfg.Workers chunks are recognized at once.
func New(rec speech.Recognizer, cfg config.TranscribeConfig, tempDir string, log logger.Logger) Transcriber {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &implTranscriber{
		recognizer: rec,
		logger:     log,
		tempDir:    tempDir,
		workers:    workers,
		cache:      newMemo(cfg.CacheEntries),
		flights:    make(map[string]*flight),
	}
}
