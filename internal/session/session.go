package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/media"
	"github.com/nguyentantai21042004/minutes-flow/internal/metrics"
	"github.com/nguyentantai21042004/minutes-flow/internal/summarizer"
)

// Process orchestrates the entire session pipeline
func (p *implOrchestrator) Process(ctx context.Context, filename string, r io.Reader) (*Result, error) {
	if err := p.Validate(filename, -1); err != nil {
		metrics.Sessions.WithLabelValues(string(StageUpload), "error").Inc()
		return nil, &StageError{Stage: StageUpload, Err: err}
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, &StageError{Stage: StageUpload, Err: err}
	}
	defer p.sem.Release(1)

	startTime := time.Now()
	res := &Result{ID: p.newID(), Filename: filepath.Base(filename)}
	log := p.logger.With("session_id", res.ID)

	log.Info(ctx, "========================================")
	log.Info(ctx, "Starting session: %s", res.Filename)
	log.Info(ctx, "========================================")

	stage, err := p.run(ctx, log, filename, r, res)
	res.Duration = time.Since(startTime)
	metrics.Sessions.WithLabelValues(string(stage), metrics.Result(err)).Inc()

	if err != nil {
		log.Error(ctx, "Session failed at %s stage after %s: %v", stage, res.Duration, err)
		return res, &StageError{Stage: stage, Err: err}
	}

	log.Info(ctx, "========================================")
	log.Info(ctx, "Session completed successfully!")
	log.Info(ctx, "Transcript: %d chars, summary: %d bullets", len(res.Transcript), len(res.Bullets))
	log.Info(ctx, "Processing time: %s", res.Duration)
	log.Info(ctx, "========================================")

	return res, nil
}

// ProcessFile runs a session for a recording already on disk
func (p *implOrchestrator) ProcessFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &StageError{Stage: StageUpload, Err: fmt.Errorf("open recording: %w", err)}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &StageError{Stage: StageUpload, Err: fmt.Errorf("stat recording: %w", err)}
	}
	if err := p.Validate(path, info.Size()); err != nil {
		metrics.Sessions.WithLabelValues(string(StageUpload), "error").Inc()
		return nil, &StageError{Stage: StageUpload, Err: err}
	}

	return p.Process(ctx, filepath.Base(path), f)
}

// run executes the stages in order and reports the stage it stopped at.
// Every temporary artifact lives in a per-session directory removed on return.
func (p *implOrchestrator) run(ctx context.Context, log logger.Logger, filename string, r io.Reader, res *Result) (Stage, error) {
	sessionDir := filepath.Join(p.cfg.Paths.Temp, "session-"+res.ID)
	if err := os.MkdirAll(sessionDir, 0700); err != nil {
		return StageUpload, fmt.Errorf("create session dir: %w", err)
	}
	defer p.cleanupSessionDir(ctx, sessionDir)

	// Step 1: Persist the upload under its original extension
	inputPath := filepath.Join(sessionDir, "input."+media.Ext(filename))
	defer p.cleanupTempFile(ctx, inputPath)
	if _, err := p.persistUpload(ctx, r, inputPath); err != nil {
		return StageUpload, err
	}

	// Step 2: Extract audio from video containers and from audio the decoder cannot read
	audioPath := inputPath
	convert := media.IsVideo(filename, p.cfg.Upload.VideoExtensions)
	if !convert {
		if err := p.probe(inputPath); err != nil {
			log.Info(ctx, "%s cannot be decoded directly (%v), converting with ffmpeg", res.Filename, err)
			convert = true
		}
	}
	if convert {
		stageStart := time.Now()
		normalizedPath := filepath.Join(sessionDir, "audio.wav")
		defer p.cleanupTempFile(ctx, normalizedPath)

		out, err := p.normalizer.Normalize(ctx, inputPath, normalizedPath)
		metrics.ObserveStage(string(StageNormalize), stageStart)
		if err != nil {
			return StageNormalize, fmt.Errorf("extract audio: %w", err)
		}
		audioPath = out
		res.Normalized = true
	} else {
		log.Debug(ctx, "%s is decodable audio, using it as the audio source", res.Filename)
	}

	// Step 3: Transcribe
	stageStart := time.Now()
	transcript, err := p.transcriber.Transcribe(ctx, audioPath, p.cfg.Transcribe.ChunkLengthSec)
	metrics.ObserveStage(string(StageTranscribe), stageStart)
	if err != nil {
		return StageTranscribe, fmt.Errorf("transcribe: %w", err)
	}
	res.Transcript = transcript
	log.Info(ctx, "Transcript ready (%d chars)", len(transcript))

	// Step 4: Summarize the full transcript
	stageStart = time.Now()
	summary, err := p.summarizer.Summarize(ctx, transcript)
	metrics.ObserveStage(string(StageSummarize), stageStart)
	if err != nil {
		return StageSummarize, fmt.Errorf("summarize: %w", err)
	}
	res.Summary = summary
	res.Bullets = summarizer.Bullets(summary)

	return StageDone, nil
}
