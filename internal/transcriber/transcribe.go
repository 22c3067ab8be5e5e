package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/minutes-flow/internal/audio"
	"github.com/nguyentantai21042004/minutes-flow/internal/failure"
	"github.com/nguyentantai21042004/minutes-flow/internal/metrics"
)

// maxJoinAttempts bounds how often a caller re-joins after the run it shared was
// cancelled by callers that have all gone away
const maxJoinAttempts = 3

// Transcribe returns the transcript of audioPath, serving repeats from the cache.
// Concurrent calls for the same content share one run. The run is detached from
// any single caller's context and only cancelled once every caller waiting on it has left.
func (t *implTranscriber) Transcribe(ctx context.Context, audioPath string, chunkLengthSec int) (string, error) {
	if chunkLengthSec <= 0 {
		return "", fmt.Errorf("%w: chunk length must be positive, got %d", failure.ErrInvalidArgument, chunkLengthSec)
	}

	digest, err := fileDigest(audioPath)
	if err != nil {
		return "", err
	}
	key := cacheKey(digest, chunkLengthSec)

	if text, ok := t.cache.get(key); ok {
		metrics.TranscriptCache.WithLabelValues("hit").Inc()
		t.logger.Info(ctx, "Transcript cache hit: %s (sha256 %s)", filepath.Base(audioPath), digest[:12])
		return text, nil
	}

	for attempt := 1; ; attempt++ {
		text, err := t.share(ctx, key, audioPath, chunkLengthSec)
		if err == nil || ctx.Err() != nil || !errors.Is(err, context.Canceled) || attempt == maxJoinAttempts {
			return text, err
		}
		t.logger.Debug(ctx, "Shared transcription of %s was cancelled by its other callers, retrying", filepath.Base(audioPath))
	}
}

// share runs or joins the transcription for key and waits for it or for ctx
func (t *implTranscriber) share(ctx context.Context, key, audioPath string, chunkLengthSec int) (string, error) {
	f := t.join(ctx, key)
	defer t.leave(key, f)

	ch := t.inflight.DoChan(key, func() (interface{}, error) {
		if text, ok := t.cache.get(key); ok {
			return text, nil
		}
		metrics.TranscriptCache.WithLabelValues("miss").Inc()

		text, err := t.transcribeChunks(f.ctx, audioPath, chunkLengthSec)
		if err != nil {
			return "", err
		}
		t.cache.add(key, text)
		return text, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			metrics.TranscriptCache.WithLabelValues("shared").Inc()
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// join registers the caller on the flight for key, starting one if none is open
func (t *implTranscriber) join(ctx context.Context, key string) *flight {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, ok := t.flights[key]
	if !ok {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel}
		t.flights[key] = f
	}
	f.waiters++
	return f
}

// leave drops the caller; the last one out cancels the flight
func (t *implTranscriber) leave(key string, f *flight) {
	t.mu.Lock()
	defer t.mu.Unlock()

	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if t.flights[key] == f {
		delete(t.flights, key)
	}
}

// transcribeChunks decodes the file, recognizes every window and joins the results
func (t *implTranscriber) transcribeChunks(ctx context.Context, audioPath string, chunkLengthSec int) (string, error) {
	startTime := time.Now()

	stream, err := audio.Decode(audioPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", failure.ErrMediaDecode, err)
	}

	windows := audio.Partition(stream.Frames(), chunkLengthSec*stream.SampleRate)
	if len(windows) == 0 {
		t.logger.Warn(ctx, "No audio samples in %s, transcript is empty", audioPath)
		return "", nil
	}

	t.logger.Info(ctx, "Transcribing %s: %s of audio in %d chunks of %ds (%d workers)",
		filepath.Base(audioPath), stream.Duration(), len(windows), chunkLengthSec, t.workers)

	if err := os.MkdirAll(t.tempDir, 0755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	chunkDir, err := os.MkdirTemp(t.tempDir, "chunks-*")
	if err != nil {
		return "", fmt.Errorf("create chunk dir: %w", err)
	}
	defer t.removeAll(ctx, chunkDir)

	// Each window writes only its own slot, so the order of texts follows start
	// offsets no matter which worker finishes first.
	texts := make([]string, len(windows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.workers)
	for _, w := range windows {
		g.Go(func() error {
			text, err := t.transcribeWindow(gctx, stream, w, chunkDir)
			if err != nil {
				return &failure.ChunkError{
					Index:  w.Index,
					Offset: w.Offset(stream.SampleRate),
					Err:    err,
				}
			}
			texts[w.Index] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.logger.Error(ctx, "Transcription of %s failed: %v", filepath.Base(audioPath), err)
		return "", err
	}

	t.logger.Info(ctx, "Transcription completed: %d chunks in %s", len(windows), time.Since(startTime))
	return Assemble(texts), nil
}

// transcribeWindow materializes one window as a WAV file, recognizes it and removes the file
func (t *implTranscriber) transcribeWindow(ctx context.Context, stream *audio.Stream, w audio.Window, dir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	chunkPath := filepath.Join(dir, fmt.Sprintf("chunk_%d_%d.wav", w.Index, w.Start))
	defer t.cleanupChunk(ctx, chunkPath)

	if err := stream.WriteWindow(chunkPath, w); err != nil {
		return "", fmt.Errorf("write chunk: %w", err)
	}

	t.logger.Debug(ctx, "Recognizing chunk %d at %s (%s)",
		w.Index, w.Offset(stream.SampleRate), audio.FramesToDuration(w.Len(), stream.SampleRate))

	text, err := t.recognizer.Recognize(ctx, chunkPath)
	metrics.Chunks.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}

// Assemble joins chunk texts in order with single spaces, trimming every piece and the result
func Assemble(texts []string) string {
	pieces := make([]string, len(texts))
	for i, text := range texts {
		pieces[i] = strings.TrimSpace(text)
	}
	return strings.TrimSpace(strings.Join(pieces, " "))
}

func (t *implTranscriber) cleanupChunk(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		t.logger.Warn(ctx, "Failed to cleanup chunk file %s: %v", path, err)
	}
}

func (t *implTranscriber) removeAll(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		t.logger.Warn(ctx, "Failed to cleanup chunk dir %s: %v", dir, err)
	}
}
