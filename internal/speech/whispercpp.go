package speech

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/pkg/executor"
)

type whisperCPP struct {
	cfg      config.TranscribeConfig
	executor executor.Executor
	logger   logger.Logger
}

// NewWhisperCPP creates a Recognizer that shells out to the whisper.cpp CLI
func NewWhisperCPP(cfg config.TranscribeConfig, exec executor.Executor, log logger.Logger) Recognizer {
	return &whisperCPP{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}

// Recognize runs whisper.cpp and returns the transcript it prints on stdout
func (w *whisperCPP) Recognize(ctx context.Context, audioPath string) (string, error) {
	// -nt: no timestamps, -np: print only the results
	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", audioPath,
		"-l", w.cfg.Language,
		"-t", strconv.Itoa(w.cfg.Threads),
		"-nt",
		"-np",
	}

	w.logger.Debug(ctx, "whisper.cpp: %s %s", w.cfg.BinaryPath, strings.Join(args, " "))

	out, err := w.executor.Execute(ctx, w.cfg.BinaryPath, args...)
	if err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	return joinLines(out), nil
}

// joinLines flattens whisper's one-segment-per-line output
func joinLines(out string) string {
	return strings.Join(strings.Fields(out), " ")
}
