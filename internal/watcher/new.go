package watcher

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

const defaultSettle = 500 * time.Millisecond

// New watches inputDir for recordings whose extension is in exts.
// At most maxConcurrent handlers run at once.
func New(inputDir string, exts []string, handler EventHandler, log logger.Logger, maxConcurrent int) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsw.Add(inputDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	accepted := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		accepted[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	return &implWatcher{
		inputDir:      inputDir,
		exts:          accepted,
		handler:       handler,
		logger:        log,
		watcher:       fsw,
		maxConcurrent: maxConcurrent,
		semaphore:     make(chan struct{}, maxConcurrent),
		settle:        defaultSettle,
		inflight:      make(map[string]struct{}),
	}, nil
}
